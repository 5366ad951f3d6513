package domain

import "time"

// ChooseDay selects the calendar date a new item should land on.
//
// An explicit day always wins, with no threshold check. Otherwise today is
// chosen when its accumulated effort plus the new effort stays within the
// burnout threshold; failing that, the horizon day with the strictly
// smallest accumulated effort wins, earliest date breaking ties. The chosen
// day may still exceed the threshold once the item is added: placement is
// best effort, not a hard guarantee. ChooseDay never fails.
func ChooseDay(ledger WeekLedger, newEffort, threshold int, explicitDay *time.Time) time.Time {
	if explicitDay != nil {
		return DateOnly(*explicitDay)
	}

	today := ledger.Today()
	if today.Effort+newEffort <= threshold {
		return today.Date
	}

	days := ledger.Days()
	best := days[0]
	for _, day := range days[1:] {
		if day.Effort < best.Effort {
			best = day
		}
	}
	return best.Date
}

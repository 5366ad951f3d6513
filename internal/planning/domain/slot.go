package domain

import "errors"

var ErrNoSlotAvailable = errors.New("no collision-free slot before closing time")

// SlotStepMinutes is the forward-scan increment when searching for a start time.
const SlotStepMinutes = 30

// DefaultStartTime is used when an explicit requested time cannot be parsed.
var DefaultStartTime = NewTimeOfDay(8, 0)

// FindSlot returns the earliest start time inside the window such that
// [start, start+duration) overlaps none of the busy intervals. The scan
// moves forward in 30-minute steps from the window start; the earliest fit
// wins. A closed window, or no fit before the window end, yields
// ErrNoSlotAvailable.
func FindSlot(window Window, busy []Interval, durationHours float64) (TimeOfDay, error) {
	if !window.IsOpen() {
		return Midnight, ErrNoSlotAvailable
	}

	for start := window.Start; ; start = start.AddMinutes(SlotStepMinutes) {
		candidate := Interval{Start: start, End: start.AddHours(durationHours)}
		if candidate.End > window.End {
			return Midnight, ErrNoSlotAvailable
		}
		if !overlapsAny(candidate, busy) {
			return start, nil
		}
	}
}

// ResolveExplicitTime parses a user- or estimator-supplied "HH:MM" start.
// An unparseable value degrades to the 08:00 default instead of failing;
// callers rely on this leniency.
func ResolveExplicitTime(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return DefaultStartTime
	}
	return t
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, iv := range busy {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}

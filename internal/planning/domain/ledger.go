package domain

import (
	"sort"
	"time"
)

// HorizonDays is the length of the rolling scheduling window.
const HorizonDays = 7

// DayLoad is one day of the effort ledger: the accumulated effort of
// non-completed tasks, their occupied intervals (timed tasks only), and the
// raw task list for the day.
type DayLoad struct {
	Date    time.Time
	Weekday Weekday
	Effort  int
	Busy    []Interval
	Tasks   []*Task
}

// WeekLedger is the effort ledger over the 7-day horizon starting today.
type WeekLedger struct {
	days [HorizonDays]DayLoad
}

// BuildWeekLedger computes the ledger from the caller's current date and the
// user's tasks. Tasks outside the horizon are ignored; completed tasks are
// listed but contribute neither effort nor busy intervals.
func BuildWeekLedger(today time.Time, tasks []*Task) WeekLedger {
	start := DateOnly(today)

	var ledger WeekLedger
	for i := 0; i < HorizonDays; i++ {
		date := start.AddDate(0, 0, i)
		ledger.days[i] = DayLoad{
			Date:    date,
			Weekday: WeekdayOf(date),
		}
	}

	for _, task := range tasks {
		offset := int(task.Day().Sub(start).Hours() / 24)
		if offset < 0 || offset >= HorizonDays {
			continue
		}
		day := &ledger.days[offset]
		day.Tasks = append(day.Tasks, task)
		if task.IsCompleted() {
			continue
		}
		day.Effort += task.Effort()
		if iv, ok := task.Interval(); ok {
			day.Busy = append(day.Busy, iv)
		}
	}

	for i := range ledger.days {
		day := &ledger.days[i]
		sort.Slice(day.Busy, func(a, b int) bool {
			return day.Busy[a].Start < day.Busy[b].Start
		})
		sort.Slice(day.Tasks, func(a, b int) bool {
			ta, tb := day.Tasks[a].TimeOfDay(), day.Tasks[b].TimeOfDay()
			switch {
			case ta == nil && tb == nil:
				return day.Tasks[a].CreatedAt().Before(day.Tasks[b].CreatedAt())
			case ta == nil:
				return false
			case tb == nil:
				return true
			default:
				return *ta < *tb
			}
		})
	}

	return ledger
}

// Days returns the seven day loads in horizon order.
func (l WeekLedger) Days() [HorizonDays]DayLoad {
	return l.days
}

// Today returns the first day of the horizon.
func (l WeekLedger) Today() DayLoad {
	return l.days[0]
}

// LoadFor returns the day load for the given date, if inside the horizon.
func (l WeekLedger) LoadFor(date time.Time) (DayLoad, bool) {
	date = DateOnly(date)
	for _, day := range l.days {
		if day.Date.Equal(date) {
			return day, true
		}
	}
	return DayLoad{}, false
}

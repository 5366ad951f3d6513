package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidThreshold = errors.New("burnout threshold must be positive")

// Weekday indexes the week Monday-first, matching the stored schedule layout.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "unknown"
	}
	return weekdayNames[d]
}

// WeekdayOf converts a calendar date to the Monday-first weekday index.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday is Sunday-first
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// Midnight is the zero time of day.
const Midnight TimeOfDay = 0

// NewTimeOfDay creates a time of day from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses an "HH:MM" clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Midnight, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// TimeOfDayFrom extracts the clock time from a timestamp.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// AddHours advances the clock time by a fractional number of hours.
func (t TimeOfDay) AddHours(hours float64) TimeOfDay {
	return t + TimeOfDay(math.Round(hours*60))
}

// AddMinutes advances the clock time by whole minutes.
func (t TimeOfDay) AddMinutes(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// Interval is a half-open [Start, End) span of clock time within one day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps reports whether two intervals share any time.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Window is the open span of a single weekday. Start == End means closed.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// IsOpen reports whether the window admits any placement.
func (w Window) IsOpen() bool {
	return w.Start != w.End
}

// WeeklyAvailability holds one window per weekday, Monday-first.
type WeeklyAvailability struct {
	windows [7]Window
}

// NewWeeklyAvailability builds an availability from explicit windows.
func NewWeeklyAvailability(windows [7]Window) WeeklyAvailability {
	return WeeklyAvailability{windows: windows}
}

// DefaultWeeklyAvailability is the schedule assigned to new profiles:
// Mon-Fri 09:00-17:00, Sat 10:00-18:00, Sun closed.
func DefaultWeeklyAvailability() WeeklyAvailability {
	var w [7]Window
	for d := Monday; d <= Friday; d++ {
		w[d] = Window{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(17, 0)}
	}
	w[Saturday] = Window{Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(18, 0)}
	w[Sunday] = Window{Start: Midnight, End: Midnight}
	return WeeklyAvailability{windows: w}
}

// WindowFor returns the window for the given weekday.
func (a WeeklyAvailability) WindowFor(day Weekday) Window {
	if day < Monday || day > Sunday {
		return Window{}
	}
	return a.windows[day]
}

// IsOpen reports whether the given weekday admits placements.
func (a WeeklyAvailability) IsOpen(day Weekday) bool {
	return a.WindowFor(day).IsOpen()
}

// Windows returns all seven windows, Monday-first.
func (a WeeklyAvailability) Windows() [7]Window {
	return a.windows
}

// WindowInput is a raw (start, end) pair as submitted by the user.
type WindowInput struct {
	Start string
	End   string
}

// ParseWeeklyAvailability validates each of the seven supplied pairs
// independently. A malformed time string parses to 00:00 rather than
// failing the whole update, and a pair that would end before it starts
// closes the day. Callers depend on this leniency.
func ParseWeeklyAvailability(inputs [7]WindowInput) WeeklyAvailability {
	var w [7]Window
	for i, in := range inputs {
		start, err := ParseTimeOfDay(in.Start)
		if err != nil {
			start = Midnight
		}
		end, err := ParseTimeOfDay(in.End)
		if err != nil {
			end = Midnight
		}
		if end < start {
			end = start
		}
		w[i] = Window{Start: start, End: end}
	}
	return WeeklyAvailability{windows: w}
}

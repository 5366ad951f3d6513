package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	tests := []struct {
		date     string
		expected Weekday
	}{
		{"2026-08-31", Monday}, // a Monday
		{"2026-09-01", Tuesday},
		{"2026-09-05", Saturday},
		{"2026-09-06", Sunday},
	}

	for _, tt := range tests {
		date, err := time.Parse("2006-01-02", tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, WeekdayOf(date), tt.date)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Run("valid clock string", func(t *testing.T) {
		tod, err := ParseTimeOfDay("14:30")
		require.NoError(t, err)
		assert.Equal(t, NewTimeOfDay(14, 30), tod)
		assert.Equal(t, "14:30", tod.String())
	})

	t.Run("invalid string fails", func(t *testing.T) {
		_, err := ParseTimeOfDay("25:00")
		assert.Error(t, err)

		_, err = ParseTimeOfDay("garbage")
		assert.Error(t, err)
	})
}

func TestTimeOfDay_AddHours(t *testing.T) {
	start := NewTimeOfDay(9, 0)

	assert.Equal(t, NewTimeOfDay(10, 30), start.AddHours(1.5))
	assert.Equal(t, NewTimeOfDay(9, 30), start.AddHours(0.5))
	assert.Equal(t, NewTimeOfDay(11, 0), start.AddHours(2))
}

func TestInterval_Overlaps(t *testing.T) {
	base := Interval{Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(11, 0)}

	tests := []struct {
		name     string
		other    Interval
		expected bool
	}{
		{"identical", base, true},
		{"contained", Interval{Start: NewTimeOfDay(10, 15), End: NewTimeOfDay(10, 45)}, true},
		{"partial overlap", Interval{Start: NewTimeOfDay(10, 30), End: NewTimeOfDay(11, 30)}, true},
		{"touching end", Interval{Start: NewTimeOfDay(11, 0), End: NewTimeOfDay(12, 0)}, false},
		{"touching start", Interval{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(10, 0)}, false},
		{"disjoint", Interval{Start: NewTimeOfDay(14, 0), End: NewTimeOfDay(15, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(base))
		})
	}
}

func TestDefaultWeeklyAvailability(t *testing.T) {
	a := DefaultWeeklyAvailability()

	for d := Monday; d <= Friday; d++ {
		w := a.WindowFor(d)
		assert.Equal(t, NewTimeOfDay(9, 0), w.Start)
		assert.Equal(t, NewTimeOfDay(17, 0), w.End)
	}

	sat := a.WindowFor(Saturday)
	assert.Equal(t, NewTimeOfDay(10, 0), sat.Start)
	assert.Equal(t, NewTimeOfDay(18, 0), sat.End)

	assert.False(t, a.IsOpen(Sunday))
}

func TestParseWeeklyAvailability(t *testing.T) {
	t.Run("valid pairs parse verbatim", func(t *testing.T) {
		var inputs [7]WindowInput
		for i := range inputs {
			inputs[i] = WindowInput{Start: "08:00", End: "16:00"}
		}

		a := ParseWeeklyAvailability(inputs)
		for d := Monday; d <= Sunday; d++ {
			w := a.WindowFor(d)
			assert.Equal(t, NewTimeOfDay(8, 0), w.Start)
			assert.Equal(t, NewTimeOfDay(16, 0), w.End)
		}
	})

	t.Run("malformed field falls back to midnight without failing the rest", func(t *testing.T) {
		var inputs [7]WindowInput
		for i := range inputs {
			inputs[i] = WindowInput{Start: "09:00", End: "17:00"}
		}
		inputs[Tuesday] = WindowInput{Start: "not-a-time", End: "17:00"}

		a := ParseWeeklyAvailability(inputs)

		tue := a.WindowFor(Tuesday)
		assert.Equal(t, Midnight, tue.Start)
		assert.Equal(t, NewTimeOfDay(17, 0), tue.End)
		assert.True(t, tue.IsOpen())

		// Neighbours keep their valid values.
		mon := a.WindowFor(Monday)
		assert.Equal(t, NewTimeOfDay(9, 0), mon.Start)
	})

	t.Run("end before start closes the day", func(t *testing.T) {
		var inputs [7]WindowInput
		for i := range inputs {
			inputs[i] = WindowInput{Start: "09:00", End: "17:00"}
		}
		inputs[Wednesday] = WindowInput{Start: "17:00", End: "09:00"}

		a := ParseWeeklyAvailability(inputs)
		assert.False(t, a.IsOpen(Wednesday))
	})

	t.Run("both fields malformed closes the day", func(t *testing.T) {
		var inputs [7]WindowInput
		inputs[Monday] = WindowInput{Start: "xx", End: "yy"}

		a := ParseWeeklyAvailability(inputs)
		assert.False(t, a.IsOpen(Monday))
	})
}

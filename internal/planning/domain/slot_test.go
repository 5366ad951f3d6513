package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSlot(t *testing.T) {
	window := Window{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(17, 0)}

	t.Run("empty day takes the window start", func(t *testing.T) {
		start, err := FindSlot(window, nil, 1.0)
		require.NoError(t, err)
		assert.Equal(t, NewTimeOfDay(9, 0), start)
	})

	t.Run("scan skips past busy intervals", func(t *testing.T) {
		busy := []Interval{
			{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(10, 0)},
			{Start: NewTimeOfDay(10, 30), End: NewTimeOfDay(11, 30)},
		}

		start, err := FindSlot(window, busy, 0.5)
		require.NoError(t, err)
		// 09:00 and 09:30 collide with the first block, 10:30 and 11:00
		// with the second; 10:00 is the first half-hour that fits.
		assert.Equal(t, NewTimeOfDay(10, 0), start)
	})

	t.Run("slot must fit entirely before closing time", func(t *testing.T) {
		busy := []Interval{
			{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(16, 30)},
		}

		_, err := FindSlot(window, busy, 1.0)
		assert.ErrorIs(t, err, ErrNoSlotAvailable)
	})

	t.Run("duration longer than the window never fits", func(t *testing.T) {
		_, err := FindSlot(window, nil, 9.0)
		assert.ErrorIs(t, err, ErrNoSlotAvailable)
	})

	t.Run("closed window yields no slot", func(t *testing.T) {
		closed := Window{Start: Midnight, End: Midnight}
		_, err := FindSlot(closed, nil, 0.5)
		assert.ErrorIs(t, err, ErrNoSlotAvailable)
	})

	t.Run("fully packed day yields no slot", func(t *testing.T) {
		busy := []Interval{
			{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(17, 0)},
		}
		_, err := FindSlot(window, busy, 0.5)
		assert.ErrorIs(t, err, ErrNoSlotAvailable)
	})

	t.Run("same inputs give the same slot", func(t *testing.T) {
		busy := []Interval{
			{Start: NewTimeOfDay(11, 0), End: NewTimeOfDay(12, 0)},
		}
		first, err := FindSlot(window, busy, 1.5)
		require.NoError(t, err)
		second, err := FindSlot(window, busy, 1.5)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestResolveExplicitTime(t *testing.T) {
	t.Run("parseable value is kept verbatim", func(t *testing.T) {
		assert.Equal(t, NewTimeOfDay(14, 30), ResolveExplicitTime("14:30"))
	})

	t.Run("unparseable value degrades to 08:00", func(t *testing.T) {
		assert.Equal(t, DefaultStartTime, ResolveExplicitTime("around noon"))
		assert.Equal(t, DefaultStartTime, ResolveExplicitTime(""))
	})
}

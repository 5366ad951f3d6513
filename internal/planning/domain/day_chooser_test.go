package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return date
}

func taskOn(t *testing.T, userID uuid.UUID, day time.Time, effort int) *Task {
	t.Helper()
	task, err := NewTask(userID, "filler", effort, day, nil, 0.5)
	require.NoError(t, err)
	return task
}

func TestChooseDay(t *testing.T) {
	userID := uuid.New()
	today := mustDate(t, "2026-08-31")

	t.Run("explicit day wins regardless of load", func(t *testing.T) {
		explicit := mustDate(t, "2026-09-03")
		tasks := []*Task{taskOn(t, userID, explicit, 20)}
		ledger := BuildWeekLedger(today, tasks)

		chosen := ChooseDay(ledger, 5, 15, &explicit)
		assert.Equal(t, explicit, chosen)
	})

	t.Run("today is chosen when the new effort fits", func(t *testing.T) {
		tasks := []*Task{taskOn(t, userID, today, 10)}
		ledger := BuildWeekLedger(today, tasks)

		chosen := ChooseDay(ledger, 5, 15, nil)
		assert.Equal(t, today, chosen)
	})

	t.Run("overflow moves to the least loaded day", func(t *testing.T) {
		tasks := []*Task{
			taskOn(t, userID, today, 14),
			taskOn(t, userID, today.AddDate(0, 0, 1), 3),
			taskOn(t, userID, today.AddDate(0, 0, 2), 1),
		}
		ledger := BuildWeekLedger(today, tasks)

		// 3 effort no longer fits today (14+3 > 15); the first empty day
		// carries the smallest load.
		chosen := ChooseDay(ledger, 3, 15, nil)
		assert.Equal(t, today.AddDate(0, 0, 3), chosen)
	})

	t.Run("ties break to the earliest date", func(t *testing.T) {
		tasks := []*Task{taskOn(t, userID, today, 20)}
		ledger := BuildWeekLedger(today, tasks)

		// All six remaining days are empty; tomorrow wins.
		chosen := ChooseDay(ledger, 5, 15, nil)
		assert.Equal(t, today.AddDate(0, 0, 1), chosen)
	})

	t.Run("always picks a day even when every day is over threshold", func(t *testing.T) {
		var tasks []*Task
		for i := 0; i < HorizonDays; i++ {
			tasks = append(tasks, taskOn(t, userID, today.AddDate(0, 0, i), 16+i))
		}
		ledger := BuildWeekLedger(today, tasks)

		chosen := ChooseDay(ledger, 5, 15, nil)
		assert.Equal(t, today, chosen, "today carries the smallest overload")
	})
}

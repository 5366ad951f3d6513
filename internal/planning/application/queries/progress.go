package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
)

// MaxStarsPerMonth caps the monthly star count shown to the user.
const MaxStarsPerMonth = 30

// ProgressQuery requests the user's completion streak and monthly stars.
type ProgressQuery struct {
	UserID uuid.UUID
	// Now anchors the calculation; zero means the wall clock.
	Now time.Time
}

// ProgressResult holds the streak and star counters.
type ProgressResult struct {
	// StreakDays counts consecutive days with at least one completion,
	// ending today. A day without a completion resets it.
	StreakDays int
	// CompletedThisMonth counts completions since the first of the month.
	CompletedThisMonth int
	// Stars is CompletedThisMonth capped at MaxStarsPerMonth.
	Stars int
}

// ProgressHandler handles the ProgressQuery.
type ProgressHandler struct {
	taskRepo domain.TaskRepository
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(taskRepo domain.TaskRepository) *ProgressHandler {
	return &ProgressHandler{taskRepo: taskRepo}
}

// Handle executes the ProgressQuery.
func (h *ProgressHandler) Handle(ctx context.Context, query ProgressQuery) (*ProgressResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	today := domain.DateOnly(now)

	days, err := h.taskRepo.FindCompletedDays(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	completed, err := h.taskRepo.CountCompletedInRange(ctx, query.UserID, firstOfMonth, today)
	if err != nil {
		return nil, err
	}

	result := &ProgressResult{
		StreakDays:         streak(today, days),
		CompletedThisMonth: completed,
		Stars:              completed,
	}
	if result.Stars > MaxStarsPerMonth {
		result.Stars = MaxStarsPerMonth
	}

	return result, nil
}

// streak walks the distinct completion days, most recent first, counting
// consecutive days backwards from today. Nothing completed today means no
// active streak.
func streak(today time.Time, days []time.Time) int {
	if len(days) == 0 || !domain.DateOnly(days[0]).Equal(today) {
		return 0
	}

	expected := today
	count := 0
	for _, day := range days {
		day = domain.DateOnly(day)
		if !day.Equal(expected) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

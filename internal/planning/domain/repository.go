package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskRepository defines the interface for task persistence.
type TaskRepository interface {
	// Save persists a task (create or update).
	Save(ctx context.Context, task *Task) error

	// FindByID finds a task by its ID. Returns nil, nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByUserAndDateRange returns a user's tasks whose day falls within
	// [start, end], ordered by day then time.
	FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*Task, error)

	// FindCompletedDays returns the distinct days on which the user completed
	// at least one task, most recent first.
	FindCompletedDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error)

	// CountCompletedInRange counts completed tasks with day in [start, end].
	CountCompletedInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error)

	// DeleteCompletedByUser removes all of a user's completed tasks and
	// reports how many were deleted.
	DeleteCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ProfileRepository defines the interface for profile persistence.
type ProfileRepository interface {
	// Save persists a profile (create or update).
	Save(ctx context.Context, profile *Profile) error

	// FindByUserID finds the profile owned by a user. Returns nil, nil when
	// absent so callers can distinguish "use defaults" from a failed query.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

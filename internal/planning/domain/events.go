package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/taskflow-app/taskflow/internal/shared/domain"
)

// TaskScheduled is raised when a task receives its placement.
type TaskScheduled struct {
	sharedDomain.BaseEvent
	TaskID        uuid.UUID
	UserID        uuid.UUID
	Text          string
	Effort        int
	Day           time.Time
	StartTime     string // "HH:MM", empty when unscheduled-in-time
	DurationHours float64
}

// NewTaskScheduled creates a TaskScheduled event.
func NewTaskScheduled(t *Task) *TaskScheduled {
	start := ""
	if tod := t.TimeOfDay(); tod != nil {
		start = tod.String()
	}
	return &TaskScheduled{
		BaseEvent:     sharedDomain.NewBaseEvent(t.ID(), "task", "planning.task.scheduled"),
		TaskID:        t.ID(),
		UserID:        t.UserID(),
		Text:          t.Text(),
		Effort:        t.Effort(),
		Day:           t.Day(),
		StartTime:     start,
		DurationHours: t.DurationHours(),
	}
}

// TaskCompletionToggled is raised when a task's completed flag flips.
type TaskCompletionToggled struct {
	sharedDomain.BaseEvent
	TaskID    uuid.UUID
	UserID    uuid.UUID
	Completed bool
	Day       time.Time
}

// NewTaskCompletionToggled creates a TaskCompletionToggled event.
func NewTaskCompletionToggled(t *Task) *TaskCompletionToggled {
	return &TaskCompletionToggled{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), "task", "planning.task.completion_toggled"),
		TaskID:    t.ID(),
		UserID:    t.UserID(),
		Completed: t.IsCompleted(),
		Day:       t.Day(),
	}
}

// AvailabilityUpdated is raised when a profile's weekly schedule changes.
type AvailabilityUpdated struct {
	sharedDomain.BaseEvent
	ProfileID uuid.UUID
	UserID    uuid.UUID
}

// NewAvailabilityUpdated creates an AvailabilityUpdated event.
func NewAvailabilityUpdated(profileID, userID uuid.UUID) *AvailabilityUpdated {
	return &AvailabilityUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(profileID, "profile", "planning.profile.availability_updated"),
		ProfileID: profileID,
		UserID:    userID,
	}
}

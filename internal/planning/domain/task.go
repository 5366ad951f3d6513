package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/taskflow-app/taskflow/internal/shared/domain"
)

var (
	ErrEmptyText       = errors.New("task text cannot be empty")
	ErrInvalidEffort   = errors.New("task effort must be at least 1")
	ErrInvalidDuration = errors.New("task duration must be positive")
)

// Task is a placed task or event occupying calendar time. A task without a
// time of day counts toward the day's effort but blocks no interval.
type Task struct {
	sharedDomain.BaseAggregateRoot
	userID    uuid.UUID
	text      string
	effort    int
	day       time.Time // calendar date, normalized to midnight UTC
	timeOfDay *TimeOfDay
	duration  float64 // hours
	completed bool
}

// NewTask creates a pending task placed on the given day.
func NewTask(
	userID uuid.UUID,
	text string,
	effort int,
	day time.Time,
	timeOfDay *TimeOfDay,
	durationHours float64,
) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if effort < 1 {
		return nil, ErrInvalidEffort
	}
	if durationHours <= 0 {
		return nil, ErrInvalidDuration
	}

	t := &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		text:              text,
		effort:            effort,
		day:               DateOnly(day),
		timeOfDay:         timeOfDay,
		duration:          durationHours,
		completed:         false,
	}

	t.AddDomainEvent(NewTaskScheduled(t))

	return t, nil
}

func (t *Task) UserID() uuid.UUID      { return t.userID }
func (t *Task) Text() string           { return t.text }
func (t *Task) Effort() int            { return t.effort }
func (t *Task) Day() time.Time         { return t.day }
func (t *Task) TimeOfDay() *TimeOfDay  { return t.timeOfDay }
func (t *Task) DurationHours() float64 { return t.duration }
func (t *Task) IsCompleted() bool      { return t.completed }

// Interval returns the occupied clock-time span, if the task has a time.
func (t *Task) Interval() (Interval, bool) {
	if t.timeOfDay == nil {
		return Interval{}, false
	}
	start := *t.timeOfDay
	return Interval{Start: start, End: start.AddHours(t.duration)}, true
}

// EndTime returns the computed end clock time, if the task has a time.
func (t *Task) EndTime() (TimeOfDay, bool) {
	iv, ok := t.Interval()
	if !ok {
		return Midnight, false
	}
	return iv.End, true
}

// ToggleCompletion flips the completed flag. The pending-to-completed
// transition snapshots the completion moment: day and time are re-anchored
// to now in the same update. Toggling back only flips the flag; the
// original placement is not restored.
func (t *Task) ToggleCompletion(now time.Time) {
	if !t.completed {
		t.day = DateOnly(now)
		tod := TimeOfDayFrom(now)
		t.timeOfDay = &tod
	}
	t.completed = !t.completed
	t.Touch()

	t.AddDomainEvent(NewTaskCompletionToggled(t))
}

// DateOnly strips the clock portion of a timestamp, keeping the UTC date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RehydrateTask recreates a task from persisted state.
func RehydrateTask(
	id uuid.UUID,
	userID uuid.UUID,
	text string,
	effort int,
	day time.Time,
	timeOfDay *TimeOfDay,
	durationHours float64,
	completed bool,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		userID:    userID,
		text:      text,
		effort:    effort,
		day:       DateOnly(day),
		timeOfDay: timeOfDay,
		duration:  durationHours,
		completed: completed,
	}
}

package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
)

// WeekViewQuery requests the seven-day schedule starting today.
type WeekViewQuery struct {
	UserID uuid.UUID
	// Now anchors the horizon; zero means the wall clock.
	Now time.Time
}

// TaskView is a task as rendered in the week view.
type TaskView struct {
	ID            uuid.UUID
	Text          string
	Effort        int
	Time          string // "HH:MM", empty when untimed
	EndTime       string
	DurationHours float64
	Completed     bool
}

// DayView is one day of the week view.
type DayView struct {
	Date              time.Time
	DayName           string
	IsToday           bool
	Open              bool
	WindowStart       string
	WindowEnd         string
	AccumulatedEffort int
	Tasks             []TaskView
}

// WeekViewResult is the full seven-day schedule plus today's headline
// numbers.
type WeekViewResult struct {
	Days                   []DayView
	BurnoutThreshold       int
	AccumulatedEffortToday int
	AvailableEffortToday   int
}

// WeekViewHandler handles the WeekViewQuery.
type WeekViewHandler struct {
	taskRepo    domain.TaskRepository
	profileRepo domain.ProfileRepository
}

// NewWeekViewHandler creates a new WeekViewHandler.
func NewWeekViewHandler(taskRepo domain.TaskRepository, profileRepo domain.ProfileRepository) *WeekViewHandler {
	return &WeekViewHandler{taskRepo: taskRepo, profileRepo: profileRepo}
}

// Handle executes the WeekViewQuery.
func (h *WeekViewHandler) Handle(ctx context.Context, query WeekViewQuery) (*WeekViewResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	today := domain.DateOnly(now)

	profile, err := h.profileRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	availability := domain.DefaultWeeklyAvailability()
	threshold := domain.DefaultBurnoutThreshold
	if profile != nil {
		availability = profile.Availability()
		threshold = profile.BurnoutThreshold()
	}

	horizonEnd := today.AddDate(0, 0, domain.HorizonDays-1)
	tasks, err := h.taskRepo.FindByUserAndDateRange(ctx, query.UserID, today, horizonEnd)
	if err != nil {
		return nil, err
	}
	ledger := domain.BuildWeekLedger(today, tasks)

	result := &WeekViewResult{
		Days:             make([]DayView, 0, domain.HorizonDays),
		BurnoutThreshold: threshold,
	}

	for _, load := range ledger.Days() {
		window := availability.WindowFor(load.Weekday)
		day := DayView{
			Date:              load.Date,
			DayName:           load.Weekday.String(),
			IsToday:           load.Date.Equal(today),
			Open:              window.IsOpen(),
			AccumulatedEffort: load.Effort,
			Tasks:             make([]TaskView, 0, len(load.Tasks)),
		}
		if window.IsOpen() {
			day.WindowStart = window.Start.String()
			day.WindowEnd = window.End.String()
		}
		for _, task := range load.Tasks {
			view := TaskView{
				ID:            task.ID(),
				Text:          task.Text(),
				Effort:        task.Effort(),
				DurationHours: task.DurationHours(),
				Completed:     task.IsCompleted(),
			}
			if tod := task.TimeOfDay(); tod != nil {
				view.Time = tod.String()
			}
			if end, ok := task.EndTime(); ok {
				view.EndTime = end.String()
			}
			day.Tasks = append(day.Tasks, view)
		}
		result.Days = append(result.Days, day)
	}

	result.AccumulatedEffortToday = ledger.Today().Effort
	if available := threshold - result.AccumulatedEffortToday; available > 0 {
		result.AvailableEffortToday = available
	}

	return result, nil
}

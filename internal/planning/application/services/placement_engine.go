package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
)

// PlanRequest carries a snapshot of the user's week plus the raw task text.
// The engine reads nothing else: all per-user state is passed in fresh.
type PlanRequest struct {
	UserID           uuid.UUID
	Text             string
	Availability     domain.WeeklyAvailability
	BurnoutThreshold int
	Ledger           domain.WeekLedger
}

// PlacementDecision is the engine's output: where the new item should go.
// The caller is responsible for persisting it.
type PlacementDecision struct {
	Text          string
	Effort        int
	DurationHours float64
	Day           time.Time
	StartTime     *domain.TimeOfDay
	Reasoning     string
}

// PlacementEngine decides how much load a new task represents and which
// day and slot it lands in. Each request moves through estimation, day
// choice, and time choice; estimation failures and full days surface as
// errors and nothing is placed.
type PlacementEngine struct {
	estimator Estimator
	logger    *slog.Logger
}

// NewPlacementEngine creates a placement engine around an estimator.
func NewPlacementEngine(estimator Estimator, logger *slog.Logger) *PlacementEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlacementEngine{estimator: estimator, logger: logger}
}

// Plan runs one placement request. It is a pure function of the request
// snapshot plus the estimator call.
func (e *PlacementEngine) Plan(ctx context.Context, req PlanRequest) (*PlacementDecision, error) {
	week := NewWeekContext(req.Availability, req.BurnoutThreshold, req.Ledger)

	estimate, err := e.estimator.Estimate(ctx, req.Text, week)
	if err != nil {
		var estErr *EstimationError
		if !errors.As(err, &estErr) {
			estErr = NewEstimationError(EstimationUnknown, "estimator returned an unclassified error", err)
		}
		e.logger.Warn("estimation failed",
			"user_id", req.UserID,
			"kind", estErr.Kind,
		)
		return nil, estErr
	}

	day := domain.ChooseDay(req.Ledger, estimate.Effort, req.BurnoutThreshold, e.explicitDay(estimate))
	window := req.Availability.WindowFor(domain.WeekdayOf(day))

	start, err := e.chooseTime(window, day, estimate, req.Ledger)
	if err != nil {
		e.logger.Info("no slot available",
			"user_id", req.UserID,
			"day", day.Format("2006-01-02"),
		)
		return nil, err
	}

	decision := &PlacementDecision{
		Text:          estimate.Text,
		Effort:        estimate.Effort,
		DurationHours: estimate.DurationHours,
		Day:           day,
		StartTime:     start,
		Reasoning:     estimate.Reasoning,
	}
	if decision.Text == "" {
		decision.Text = req.Text
	}

	e.logger.Debug("placement decided",
		"user_id", req.UserID,
		"day", day.Format("2006-01-02"),
		"effort", decision.Effort,
	)

	return decision, nil
}

// explicitDay extracts a usable explicit day from the estimate. An
// unparseable day is treated as absent so the day chooser decides.
func (e *PlacementEngine) explicitDay(estimate Estimate) *time.Time {
	if estimate.RecommendedDay == "" {
		return nil
	}
	day, err := time.Parse("2006-01-02", estimate.RecommendedDay)
	if err != nil {
		return nil
	}
	day = domain.DateOnly(day)
	return &day
}

// chooseTime resolves the start time for the chosen day. A closed day never
// accepts a placement, explicit time or not. An explicit time is honored
// verbatim after the lenient 08:00 fallback; without one the slot finder
// scans forward from the window start.
func (e *PlacementEngine) chooseTime(
	window domain.Window,
	day time.Time,
	estimate Estimate,
	ledger domain.WeekLedger,
) (*domain.TimeOfDay, error) {
	if !window.IsOpen() {
		return nil, domain.ErrNoSlotAvailable
	}

	if estimate.RecommendedTime != "" {
		start := domain.ResolveExplicitTime(estimate.RecommendedTime)
		return &start, nil
	}

	var busy []domain.Interval
	if load, ok := ledger.LoadFor(day); ok {
		busy = load.Busy
	}

	start, err := domain.FindSlot(window, busy, estimate.DurationHours)
	if err != nil {
		return nil, err
	}
	return &start, nil
}

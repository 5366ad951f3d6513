package services

import (
	"context"
	"fmt"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
)

// EstimationErrorKind classifies estimator failures.
type EstimationErrorKind string

const (
	// EstimationAPIError means the estimator backend was unreachable or
	// returned a non-success status.
	EstimationAPIError EstimationErrorKind = "api_error"
	// EstimationInvalidResponse means the backend answered with a payload
	// that could not be decoded into an estimate.
	EstimationInvalidResponse EstimationErrorKind = "invalid_response"
	// EstimationUnknown covers everything else.
	EstimationUnknown EstimationErrorKind = "unknown"
)

// EstimationError is the failure surfaced when a task cannot be estimated.
// No item is persisted when estimation fails.
type EstimationError struct {
	Kind    EstimationErrorKind
	Message string
	Err     error
}

func (e *EstimationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("estimation failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("estimation failed (%s): %s", e.Kind, e.Message)
}

func (e *EstimationError) Unwrap() error { return e.Err }

// NewEstimationError creates a classified estimation failure.
func NewEstimationError(kind EstimationErrorKind, message string, cause error) *EstimationError {
	return &EstimationError{Kind: kind, Message: message, Err: cause}
}

// Estimate is the estimator's judgment of a new task: its cognitive load,
// duration, and optionally a day or time the user asked for in the text.
// Effort is 1-5 for task-like text; event-like text that should block a day
// may exceed 5 (roughly two effort points per hour of duration).
type Estimate struct {
	Text            string
	Effort          int
	DurationHours   float64
	RecommendedDay  string // "YYYY-MM-DD", empty when the engine should decide
	RecommendedTime string // "HH:MM", empty when the engine should decide
	Reasoning       string
}

// TaskSummary is one scheduled item in the weekly context handed to the
// estimator.
type TaskSummary struct {
	Text          string
	StartTime     string // "HH:MM" or "N/A"
	DurationHours float64
}

// DaySummary is one horizon day in the weekly context.
type DaySummary struct {
	Date   string // "YYYY-MM-DD"
	Effort int
	Tasks  []TaskSummary
}

// WeekContext is the serialized weekly state an estimator may consult:
// availability windows, today's date, accumulated effort, and the scheduled
// items per day.
type WeekContext struct {
	Today            string // "YYYY-MM-DD"
	Windows          [7]domain.Window
	BurnoutThreshold int
	Days             []DaySummary
}

// NewWeekContext builds the estimator context from the profile's
// availability and the current ledger.
func NewWeekContext(availability domain.WeeklyAvailability, threshold int, ledger domain.WeekLedger) WeekContext {
	wc := WeekContext{
		Today:            ledger.Today().Date.Format("2006-01-02"),
		Windows:          availability.Windows(),
		BurnoutThreshold: threshold,
		Days:             make([]DaySummary, 0, domain.HorizonDays),
	}

	for _, day := range ledger.Days() {
		summary := DaySummary{
			Date:   day.Date.Format("2006-01-02"),
			Effort: day.Effort,
		}
		for _, task := range day.Tasks {
			if task.IsCompleted() {
				continue
			}
			start := "N/A"
			if tod := task.TimeOfDay(); tod != nil {
				start = tod.String()
			}
			summary.Tasks = append(summary.Tasks, TaskSummary{
				Text:          task.Text(),
				StartTime:     start,
				DurationHours: task.DurationHours(),
			})
		}
		wc.Days = append(wc.Days, summary)
	}

	return wc
}

// Estimator infers effort and duration for free-form task text. It is a
// pluggable collaborator: implementations may call an external generative
// service or apply deterministic rules. Failures must be returned as
// *EstimationError.
type Estimator interface {
	Estimate(ctx context.Context, text string, week WeekContext) (Estimate, error)
}

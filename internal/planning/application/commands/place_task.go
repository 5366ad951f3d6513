package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/application/services"
	"github.com/taskflow-app/taskflow/internal/planning/domain"
	sharedApplication "github.com/taskflow-app/taskflow/internal/shared/application"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/locking"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/outbox"
)

// PlaceTaskCommand asks the engine to fit a new task into the week.
type PlaceTaskCommand struct {
	UserID uuid.UUID
	Text   string
	// Now anchors the horizon; zero means the wall clock.
	Now time.Time
}

// PlaceTaskResult describes where the task landed.
type PlaceTaskResult struct {
	TaskID        uuid.UUID
	Text          string
	Effort        int
	DurationHours float64
	Day           time.Time
	StartTime     string // "HH:MM", empty when unscheduled-in-time
	EndTime       string
	Reasoning     string
}

// PlaceTaskHandler handles the PlaceTaskCommand. The whole decide-then-
// persist cycle runs under a per-user lock and a single transaction, and the
// chosen slot is re-validated against freshly read tasks before saving.
type PlaceTaskHandler struct {
	taskRepo    domain.TaskRepository
	profileRepo domain.ProfileRepository
	engine      *services.PlacementEngine
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	locker      locking.UserLocker
	logger      *slog.Logger
}

// NewPlaceTaskHandler creates a new PlaceTaskHandler.
func NewPlaceTaskHandler(
	taskRepo domain.TaskRepository,
	profileRepo domain.ProfileRepository,
	engine *services.PlacementEngine,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker locking.UserLocker,
	logger *slog.Logger,
) *PlaceTaskHandler {
	if locker == nil {
		locker = locking.NewLocalLocker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceTaskHandler{
		taskRepo:    taskRepo,
		profileRepo: profileRepo,
		engine:      engine,
		outboxRepo:  outboxRepo,
		uow:         uow,
		locker:      locker,
		logger:      logger,
	}
}

// Handle executes the PlaceTaskCommand.
func (h *PlaceTaskHandler) Handle(ctx context.Context, cmd PlaceTaskCommand) (*PlaceTaskResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	today := domain.DateOnly(now)

	release, err := h.locker.Acquire(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *PlaceTaskResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		profile, err := h.profileRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if profile == nil {
			profile = domain.NewProfile(cmd.UserID)
		}

		horizonEnd := today.AddDate(0, 0, domain.HorizonDays-1)
		tasks, err := h.taskRepo.FindByUserAndDateRange(txCtx, cmd.UserID, today, horizonEnd)
		if err != nil {
			return err
		}
		ledger := domain.BuildWeekLedger(today, tasks)

		decision, err := h.engine.Plan(txCtx, services.PlanRequest{
			UserID:           cmd.UserID,
			Text:             cmd.Text,
			Availability:     profile.Availability(),
			BurnoutThreshold: profile.BurnoutThreshold(),
			Ledger:           ledger,
		})
		if err != nil {
			return err
		}

		task, err := domain.NewTask(
			cmd.UserID,
			decision.Text,
			decision.Effort,
			decision.Day,
			decision.StartTime,
			decision.DurationHours,
		)
		if err != nil {
			return err
		}

		// Final collision check against the tasks read in this transaction.
		// The engine decided from the same snapshot, but an explicit time
		// from the estimator bypasses the slot scan.
		if err := h.checkCollision(task, ledger); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}

		events := task.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))
		msgs := make([]*outbox.Message, 0, len(events))
		for _, event := range events {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}
		task.ClearDomainEvents()

		result = &PlaceTaskResult{
			TaskID:        task.ID(),
			Text:          task.Text(),
			Effort:        task.Effort(),
			DurationHours: task.DurationHours(),
			Day:           task.Day(),
			Reasoning:     decision.Reasoning,
		}
		if tod := task.TimeOfDay(); tod != nil {
			result.StartTime = tod.String()
		}
		if end, ok := task.EndTime(); ok {
			result.EndTime = end.String()
		}

		h.logger.Info("task placed",
			"user_id", cmd.UserID,
			"task_id", task.ID(),
			"day", task.Day().Format("2006-01-02"),
			"start", result.StartTime,
			"effort", task.Effort(),
		)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *PlaceTaskHandler) checkCollision(task *domain.Task, ledger domain.WeekLedger) error {
	iv, ok := task.Interval()
	if !ok {
		return nil
	}
	load, ok := ledger.LoadFor(task.Day())
	if !ok {
		return nil
	}
	for _, busy := range load.Busy {
		if iv.Overlaps(busy) {
			return domain.ErrNoSlotAvailable
		}
	}
	return nil
}

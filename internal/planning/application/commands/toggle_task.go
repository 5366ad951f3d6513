package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
	sharedApplication "github.com/taskflow-app/taskflow/internal/shared/application"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/outbox"
)

var ErrTaskNotFound = errors.New("task not found")

// ToggleTaskCommand flips a task's completed flag. Completing a task
// re-anchors its day and time to the completion moment.
type ToggleTaskCommand struct {
	UserID uuid.UUID
	TaskID uuid.UUID
	// Now is the completion moment; zero means the wall clock.
	Now time.Time
}

// ToggleTaskResult reports the new state.
type ToggleTaskResult struct {
	TaskID    uuid.UUID
	Completed bool
	Day       time.Time
	StartTime string
}

// ToggleTaskHandler handles the ToggleTaskCommand.
type ToggleTaskHandler struct {
	taskRepo   domain.TaskRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewToggleTaskHandler creates a new ToggleTaskHandler.
func NewToggleTaskHandler(
	taskRepo domain.TaskRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *ToggleTaskHandler {
	return &ToggleTaskHandler{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the ToggleTaskCommand.
func (h *ToggleTaskHandler) Handle(ctx context.Context, cmd ToggleTaskCommand) (*ToggleTaskResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var result *ToggleTaskResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if task == nil || task.UserID() != cmd.UserID {
			return ErrTaskNotFound
		}

		task.ToggleCompletion(now)

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

		result = &ToggleTaskResult{
			TaskID:    task.ID(),
			Completed: task.IsCompleted(),
			Day:       task.Day(),
		}
		if tod := task.TimeOfDay(); tod != nil {
			result.StartTime = tod.String()
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

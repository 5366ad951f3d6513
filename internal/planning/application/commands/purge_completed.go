package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
	sharedApplication "github.com/taskflow-app/taskflow/internal/shared/application"
)

// PurgeCompletedCommand bulk-deletes a user's completed tasks.
type PurgeCompletedCommand struct {
	UserID uuid.UUID
}

// PurgeCompletedResult reports how many tasks were removed.
type PurgeCompletedResult struct {
	Deleted int64
}

// PurgeCompletedHandler handles the PurgeCompletedCommand.
type PurgeCompletedHandler struct {
	taskRepo domain.TaskRepository
	uow      sharedApplication.UnitOfWork
}

// NewPurgeCompletedHandler creates a new PurgeCompletedHandler.
func NewPurgeCompletedHandler(taskRepo domain.TaskRepository, uow sharedApplication.UnitOfWork) *PurgeCompletedHandler {
	return &PurgeCompletedHandler{taskRepo: taskRepo, uow: uow}
}

// Handle executes the PurgeCompletedCommand.
func (h *PurgeCompletedHandler) Handle(ctx context.Context, cmd PurgeCompletedCommand) (*PurgeCompletedResult, error) {
	var result *PurgeCompletedResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		deleted, err := h.taskRepo.DeleteCompletedByUser(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		result = &PurgeCompletedResult{Deleted: deleted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

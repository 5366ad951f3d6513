package commands

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
	sharedApplication "github.com/taskflow-app/taskflow/internal/shared/application"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/outbox"
)

// UpdateScheduleCommand replaces the weekly availability and, optionally,
// the burnout threshold. Window fields are validated independently; a
// malformed time string closes that side of the day at 00:00. A threshold
// that does not parse as a positive integer is ignored.
type UpdateScheduleCommand struct {
	UserID  uuid.UUID
	Windows [7]domain.WindowInput
	// Threshold is the raw user input; empty leaves the current value.
	Threshold string
}

// UpdateScheduleHandler handles the UpdateScheduleCommand.
type UpdateScheduleHandler struct {
	profileRepo domain.ProfileRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewUpdateScheduleHandler creates a new UpdateScheduleHandler.
func NewUpdateScheduleHandler(
	profileRepo domain.ProfileRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *UpdateScheduleHandler {
	return &UpdateScheduleHandler{profileRepo: profileRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the UpdateScheduleCommand.
func (h *UpdateScheduleHandler) Handle(ctx context.Context, cmd UpdateScheduleCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		profile, err := h.profileRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if profile == nil {
			profile = domain.NewProfile(cmd.UserID)
		}

		profile.UpdateAvailability(cmd.Windows)

		if cmd.Threshold != "" {
			if threshold, err := strconv.Atoi(cmd.Threshold); err == nil {
				_ = profile.SetBurnoutThreshold(threshold)
			}
		}

		if err := h.profileRepo.Save(txCtx, profile); err != nil {
			return err
		}

		events := profile.DomainEvents()
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
		profile.ClearDomainEvents()

		return nil
	})
}

package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
)

func TestToggleTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 8, 31, 16, 45, 0, 0, time.UTC)

	t.Run("completing stamps day and time", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)

		task, err := domain.NewTask(userID, "x", 1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), nil, 0.5)
		require.NoError(t, err)
		task.ClearDomainEvents()

		taskRepo.On("FindByID", mock.Anything, task.ID()).Return(task, nil)
		taskRepo.On("Save", mock.Anything, task).Return(nil)
		outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		handler := NewToggleTaskHandler(taskRepo, outboxRepo, fakeUnitOfWork{})
		result, err := handler.Handle(context.Background(), ToggleTaskCommand{
			UserID: userID,
			TaskID: task.ID(),
			Now:    now,
		})
		require.NoError(t, err)

		assert.True(t, result.Completed)
		assert.Equal(t, domain.DateOnly(now), result.Day)
		assert.Equal(t, "16:45", result.StartTime)
		taskRepo.AssertExpectations(t)
	})

	t.Run("unknown task fails", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)

		id := uuid.New()
		taskRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

		handler := NewToggleTaskHandler(taskRepo, outboxRepo, fakeUnitOfWork{})
		_, err := handler.Handle(context.Background(), ToggleTaskCommand{UserID: userID, TaskID: id, Now: now})

		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("another user's task is treated as missing", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)

		other, err := domain.NewTask(uuid.New(), "not yours", 1, domain.DateOnly(now), nil, 0.5)
		require.NoError(t, err)

		taskRepo.On("FindByID", mock.Anything, other.ID()).Return(other, nil)

		handler := NewToggleTaskHandler(taskRepo, outboxRepo, fakeUnitOfWork{})
		_, err = handler.Handle(context.Background(), ToggleTaskCommand{UserID: userID, TaskID: other.ID(), Now: now})

		assert.ErrorIs(t, err, ErrTaskNotFound)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUpdateScheduleHandler_Handle(t *testing.T) {
	userID := uuid.New()

	windows := func() [7]domain.WindowInput {
		var w [7]domain.WindowInput
		for i := range w {
			w[i] = domain.WindowInput{Start: "08:00", End: "16:00"}
		}
		return w
	}

	t.Run("creates a profile on first update", func(t *testing.T) {
		profileRepo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)

		profileRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
		profileRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)
		outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		handler := NewUpdateScheduleHandler(profileRepo, outboxRepo, fakeUnitOfWork{})
		err := handler.Handle(context.Background(), UpdateScheduleCommand{
			UserID:    userID,
			Windows:   windows(),
			Threshold: "12",
		})
		require.NoError(t, err)

		saved := profileRepo.Calls[1].Arguments.Get(1).(*domain.Profile)
		assert.Equal(t, 12, saved.BurnoutThreshold())
		assert.Equal(t, domain.NewTimeOfDay(8, 0), saved.Availability().WindowFor(domain.Monday).Start)
	})

	t.Run("unparseable threshold is ignored", func(t *testing.T) {
		profileRepo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)

		profileRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
		profileRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)
		outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		handler := NewUpdateScheduleHandler(profileRepo, outboxRepo, fakeUnitOfWork{})
		err := handler.Handle(context.Background(), UpdateScheduleCommand{
			UserID:    userID,
			Windows:   windows(),
			Threshold: "a lot",
		})
		require.NoError(t, err)

		saved := profileRepo.Calls[1].Arguments.Get(1).(*domain.Profile)
		assert.Equal(t, domain.DefaultBurnoutThreshold, saved.BurnoutThreshold())
	})

	t.Run("non-positive threshold is ignored", func(t *testing.T) {
		profileRepo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)

		profileRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
		profileRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)
		outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		handler := NewUpdateScheduleHandler(profileRepo, outboxRepo, fakeUnitOfWork{})
		err := handler.Handle(context.Background(), UpdateScheduleCommand{
			UserID:    userID,
			Windows:   windows(),
			Threshold: "-3",
		})
		require.NoError(t, err)

		saved := profileRepo.Calls[1].Arguments.Get(1).(*domain.Profile)
		assert.Equal(t, domain.DefaultBurnoutThreshold, saved.BurnoutThreshold())
	})
}

func TestPurgeCompletedHandler_Handle(t *testing.T) {
	userID := uuid.New()

	taskRepo := new(mockTaskRepo)
	taskRepo.On("DeleteCompletedByUser", mock.Anything, userID).Return(int64(4), nil)

	handler := NewPurgeCompletedHandler(taskRepo, fakeUnitOfWork{})
	result, err := handler.Handle(context.Background(), PurgeCompletedCommand{UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.Deleted)
	taskRepo.AssertExpectations(t)
}

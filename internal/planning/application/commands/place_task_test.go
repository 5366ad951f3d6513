package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-app/taskflow/internal/planning/application/services"
	"github.com/taskflow-app/taskflow/internal/planning/domain"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/outbox"
)

// mockTaskRepo is a mock implementation of domain.TaskRepository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Task, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindCompletedDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockTaskRepo) CountCompletedInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskRepo) DeleteCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// mockProfileRepo is a mock implementation of domain.ProfileRepository.
type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Save(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// fakeUnitOfWork runs the work function directly on the caller's context.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (fakeUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (fakeUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

// stubEstimator returns a fixed estimate.
type stubEstimator struct {
	estimate services.Estimate
	err      error
}

func (s stubEstimator) Estimate(context.Context, string, services.WeekContext) (services.Estimate, error) {
	return s.estimate, s.err
}

func placeHandler(taskRepo *mockTaskRepo, profileRepo *mockProfileRepo, outboxRepo *mockOutboxRepo, est services.Estimator) *PlaceTaskHandler {
	engine := services.NewPlacementEngine(est, nil)
	return NewPlaceTaskHandler(taskRepo, profileRepo, engine, outboxRepo, fakeUnitOfWork{}, nil, nil)
}

func TestPlaceTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC) // a Monday
	today := domain.DateOnly(now)

	t.Run("places and persists a task with its event", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		profileRepo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)

		profileRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
		taskRepo.On("FindByUserAndDateRange", mock.Anything, userID, today, today.AddDate(0, 0, 6)).
			Return([]*domain.Task{}, nil)
		taskRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)
		outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		handler := placeHandler(taskRepo, profileRepo, outboxRepo, stubEstimator{
			estimate: services.Estimate{Text: "write report", Effort: 3, DurationHours: 1.5},
		})

		result, err := handler.Handle(context.Background(), PlaceTaskCommand{
			UserID: userID,
			Text:   "write report",
			Now:    now,
		})
		require.NoError(t, err)

		assert.Equal(t, "write report", result.Text)
		assert.Equal(t, today, result.Day)
		assert.Equal(t, "09:00", result.StartTime)
		assert.Equal(t, "10:30", result.EndTime)
		assert.Equal(t, 3, result.Effort)

		taskRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("estimation failure persists nothing", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		profileRepo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)

		profileRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
		taskRepo.On("FindByUserAndDateRange", mock.Anything, userID, mock.Anything, mock.Anything).
			Return([]*domain.Task{}, nil)

		handler := placeHandler(taskRepo, profileRepo, outboxRepo, stubEstimator{
			err: services.NewEstimationError(services.EstimationInvalidResponse, "bad payload", nil),
		})

		_, err := handler.Handle(context.Background(), PlaceTaskCommand{UserID: userID, Text: "x", Now: now})

		var estErr *services.EstimationError
		require.ErrorAs(t, err, &estErr)
		assert.Equal(t, services.EstimationInvalidResponse, estErr.Kind)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		outboxRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("explicit time colliding with a booked slot is rejected", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		profileRepo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)

		nine := domain.NewTimeOfDay(9, 0)
		existing, err := domain.NewTask(userID, "standup", 1, today, &nine, 1.0)
		require.NoError(t, err)

		profileRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
		taskRepo.On("FindByUserAndDateRange", mock.Anything, userID, mock.Anything, mock.Anything).
			Return([]*domain.Task{existing}, nil)

		handler := placeHandler(taskRepo, profileRepo, outboxRepo, stubEstimator{
			estimate: services.Estimate{
				Text:            "call",
				Effort:          1,
				DurationHours:   1.0,
				RecommendedDay:  today.Format("2006-01-02"),
				RecommendedTime: "09:30",
			},
		})

		_, err = handler.Handle(context.Background(), PlaceTaskCommand{UserID: userID, Text: "call 09:30", Now: now})

		assert.ErrorIs(t, err, domain.ErrNoSlotAvailable)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing profile uses the default schedule without saving one", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		profileRepo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)

		profileRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
		taskRepo.On("FindByUserAndDateRange", mock.Anything, userID, mock.Anything, mock.Anything).
			Return([]*domain.Task{}, nil)
		taskRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		handler := placeHandler(taskRepo, profileRepo, outboxRepo, stubEstimator{
			estimate: services.Estimate{Text: "x", Effort: 1, DurationHours: 0.5},
		})

		result, err := handler.Handle(context.Background(), PlaceTaskCommand{UserID: userID, Text: "x", Now: now})
		require.NoError(t, err)

		// Default Monday window opens at 09:00.
		assert.Equal(t, "09:00", result.StartTime)
		profileRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

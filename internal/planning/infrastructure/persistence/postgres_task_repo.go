package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
	sharedPersistence "github.com/taskflow-app/taskflow/internal/shared/infrastructure/persistence"
)

// PostgresTaskRepository implements domain.TaskRepository backed by PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Save persists a task, inserting or updating by ID.
func (r *PostgresTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	q := sharedPersistence.Executor(ctx, r.pool)

	var timeOfDay *string
	if tod := task.TimeOfDay(); tod != nil {
		s := tod.String()
		timeOfDay = &s
	}

	_, err := q.Exec(ctx, `
		INSERT INTO tasks (id, user_id, text, effort, day, time_of_day, duration_hours, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			effort = EXCLUDED.effort,
			day = EXCLUDED.day,
			time_of_day = EXCLUDED.time_of_day,
			duration_hours = EXCLUDED.duration_hours,
			completed = EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at`,
		task.ID(),
		task.UserID(),
		task.Text(),
		task.Effort(),
		task.Day(),
		timeOfDay,
		task.DurationHours(),
		task.IsCompleted(),
		task.CreatedAt(),
		task.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID finds a task by ID. Returns nil, nil when absent.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	q := sharedPersistence.Executor(ctx, r.pool)

	row := q.QueryRow(ctx, `
		SELECT id, user_id, text, effort, day, time_of_day, duration_hours, completed, created_at, updated_at
		FROM tasks WHERE id = $1`,
		id,
	)

	task, err := scanPostgresTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// FindByUserAndDateRange returns a user's tasks with day in [start, end].
func (r *PostgresTaskRepository) FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Task, error) {
	q := sharedPersistence.Executor(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, user_id, text, effort, day, time_of_day, duration_hours, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day, time_of_day NULLS LAST, created_at`,
		userID, domain.DateOnly(start), domain.DateOnly(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanPostgresTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// FindCompletedDays returns the distinct completion days, most recent first.
func (r *PostgresTaskRepository) FindCompletedDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	q := sharedPersistence.Executor(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT day FROM tasks
		WHERE user_id = $1 AND completed
		ORDER BY day DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan completed day: %w", err)
		}
		days = append(days, domain.DateOnly(day))
	}
	return days, rows.Err()
}

// CountCompletedInRange counts completed tasks with day in [start, end].
func (r *PostgresTaskRepository) CountCompletedInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	q := sharedPersistence.Executor(ctx, r.pool)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE user_id = $1 AND completed AND day >= $2 AND day <= $3`,
		userID, domain.DateOnly(start), domain.DateOnly(end),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}

// DeleteCompletedByUser removes all completed tasks of the user.
func (r *PostgresTaskRepository) DeleteCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	q := sharedPersistence.Executor(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1 AND completed`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPostgresTask(row pgx.Row) (*domain.Task, error) {
	var (
		id, userID           uuid.UUID
		text                 string
		effort               int
		day                  time.Time
		timeOfDay            *string
		duration             float64
		completed            bool
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &userID, &text, &effort, &day, &timeOfDay, &duration, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var tod *domain.TimeOfDay
	if timeOfDay != nil {
		parsed, err := domain.ParseTimeOfDay(*timeOfDay)
		if err != nil {
			return nil, err
		}
		tod = &parsed
	}

	return domain.RehydrateTask(id, userID, text, effort, day, tod, duration, completed, createdAt, updatedAt), nil
}

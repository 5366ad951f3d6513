package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/domain"
	sharedPersistence "github.com/taskflow-app/taskflow/internal/shared/infrastructure/persistence"
)

const (
	dayFormat  = "2006-01-02"
	timeFormat = "15:04"
)

// SQLiteTaskRepository implements domain.TaskRepository backed by SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLiteTaskRepository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// Save persists a task, inserting or replacing by ID.
func (r *SQLiteTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	var timeOfDay sql.NullString
	if tod := task.TimeOfDay(); tod != nil {
		timeOfDay = sql.NullString{String: tod.String(), Valid: true}
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, text, effort, day, time_of_day, duration_hours, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			effort = excluded.effort,
			day = excluded.day,
			time_of_day = excluded.time_of_day,
			duration_hours = excluded.duration_hours,
			completed = excluded.completed,
			updated_at = excluded.updated_at`,
		task.ID().String(),
		task.UserID().String(),
		task.Text(),
		task.Effort(),
		task.Day().Format(dayFormat),
		timeOfDay,
		task.DurationHours(),
		boolToInt(task.IsCompleted()),
		task.CreatedAt().UTC().Format(time.RFC3339),
		task.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID finds a task by ID. Returns nil, nil when absent.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, text, effort, day, time_of_day, duration_hours, completed, created_at, updated_at
		FROM tasks WHERE id = ?`,
		id.String(),
	)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// FindByUserAndDateRange returns a user's tasks with day in [start, end],
// ordered by day, then timed tasks by clock time, then untimed by creation.
func (r *SQLiteTaskRepository) FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Task, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, text, effort, day, time_of_day, duration_hours, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day, time_of_day IS NULL, time_of_day, created_at`,
		userID.String(),
		domain.DateOnly(start).Format(dayFormat),
		domain.DateOnly(end).Format(dayFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// FindCompletedDays returns the distinct days with at least one completed
// task, most recent first.
func (r *SQLiteTaskRepository) FindCompletedDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT DISTINCT day FROM tasks
		WHERE user_id = ? AND completed = 1
		ORDER BY day DESC`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan completed day: %w", err)
		}
		day, err := time.ParseInLocation(dayFormat, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid day value %q: %w", raw, err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// CountCompletedInRange counts completed tasks with day in [start, end].
func (r *SQLiteTaskRepository) CountCompletedInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE user_id = ? AND completed = 1 AND day >= ? AND day <= ?`,
		userID.String(),
		domain.DateOnly(start).Format(dayFormat),
		domain.DateOnly(end).Format(dayFormat),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}

// DeleteCompletedByUser removes all completed tasks of the user.
func (r *SQLiteTaskRepository) DeleteCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	result, err := q.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ? AND completed = 1`, userID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed tasks: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		idStr, userStr, text       string
		effort                     int
		dayStr                     string
		timeOfDay                  sql.NullString
		duration                   float64
		completed                  int
		createdAtStr, updatedAtStr string
	)

	if err := row.Scan(&idStr, &userStr, &text, &effort, &dayStr, &timeOfDay, &duration, &completed, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", idStr, err)
	}
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userStr, err)
	}
	day, err := time.ParseInLocation(dayFormat, dayStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid day value %q: %w", dayStr, err)
	}

	var tod *domain.TimeOfDay
	if timeOfDay.Valid {
		parsed, err := domain.ParseTimeOfDay(timeOfDay.String)
		if err != nil {
			return nil, err
		}
		tod = &parsed
	}

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at value %q: %w", createdAtStr, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at value %q: %w", updatedAtStr, err)
	}

	return domain.RehydrateTask(id, userID, text, effort, day, tod, duration, completed != 0, createdAt, updatedAt), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

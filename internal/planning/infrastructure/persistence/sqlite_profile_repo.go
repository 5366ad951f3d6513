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

// SQLiteProfileRepository implements domain.ProfileRepository backed by SQLite.
// The seven weekly windows are stored as per-day start/end clock columns.
type SQLiteProfileRepository struct {
	db *sql.DB
}

// NewSQLiteProfileRepository creates a new SQLiteProfileRepository.
func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

// Save persists a profile, inserting or replacing by user.
func (r *SQLiteProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	w := profile.Availability().Windows()

	_, err := q.ExecContext(ctx, `
		INSERT INTO profiles (
			id, user_id, burnout_threshold,
			mon_start, mon_end, tue_start, tue_end, wed_start, wed_end,
			thu_start, thu_end, fri_start, fri_end, sat_start, sat_end,
			sun_start, sun_end, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			burnout_threshold = excluded.burnout_threshold,
			mon_start = excluded.mon_start, mon_end = excluded.mon_end,
			tue_start = excluded.tue_start, tue_end = excluded.tue_end,
			wed_start = excluded.wed_start, wed_end = excluded.wed_end,
			thu_start = excluded.thu_start, thu_end = excluded.thu_end,
			fri_start = excluded.fri_start, fri_end = excluded.fri_end,
			sat_start = excluded.sat_start, sat_end = excluded.sat_end,
			sun_start = excluded.sun_start, sun_end = excluded.sun_end,
			updated_at = excluded.updated_at`,
		profile.ID().String(),
		profile.UserID().String(),
		profile.BurnoutThreshold(),
		w[domain.Monday].Start.String(), w[domain.Monday].End.String(),
		w[domain.Tuesday].Start.String(), w[domain.Tuesday].End.String(),
		w[domain.Wednesday].Start.String(), w[domain.Wednesday].End.String(),
		w[domain.Thursday].Start.String(), w[domain.Thursday].End.String(),
		w[domain.Friday].Start.String(), w[domain.Friday].End.String(),
		w[domain.Saturday].Start.String(), w[domain.Saturday].End.String(),
		w[domain.Sunday].Start.String(), w[domain.Sunday].End.String(),
		profile.CreatedAt().UTC().Format(time.RFC3339),
		profile.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// FindByUserID finds the profile owned by a user. Returns nil, nil when absent.
func (r *SQLiteProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, burnout_threshold,
			mon_start, mon_end, tue_start, tue_end, wed_start, wed_end,
			thu_start, thu_end, fri_start, fri_end, sat_start, sat_end,
			sun_start, sun_end, created_at, updated_at
		FROM profiles WHERE user_id = ?`,
		userID.String(),
	)

	var (
		idStr, userStr             string
		threshold                  int
		clocks                     [14]string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&idStr, &userStr, &threshold,
		&clocks[0], &clocks[1], &clocks[2], &clocks[3], &clocks[4], &clocks[5],
		&clocks[6], &clocks[7], &clocks[8], &clocks[9], &clocks[10], &clocks[11],
		&clocks[12], &clocks[13],
		&createdAtStr, &updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid profile id %q: %w", idStr, err)
	}
	owner, err := uuid.Parse(userStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userStr, err)
	}

	var windows [7]domain.Window
	for day := 0; day < 7; day++ {
		start, err := domain.ParseTimeOfDay(clocks[day*2])
		if err != nil {
			return nil, err
		}
		end, err := domain.ParseTimeOfDay(clocks[day*2+1])
		if err != nil {
			return nil, err
		}
		windows[day] = domain.Window{Start: start, End: end}
	}

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at value %q: %w", createdAtStr, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at value %q: %w", updatedAtStr, err)
	}

	return domain.RehydrateProfile(
		id, owner,
		domain.NewWeeklyAvailability(windows),
		threshold,
		createdAt, updatedAt,
	), nil
}

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

// PostgresProfileRepository implements domain.ProfileRepository backed by
// PostgreSQL.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Save persists a profile, inserting or updating by user.
func (r *PostgresProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	q := sharedPersistence.Executor(ctx, r.pool)

	w := profile.Availability().Windows()

	_, err := q.Exec(ctx, `
		INSERT INTO profiles (
			id, user_id, burnout_threshold,
			mon_start, mon_end, tue_start, tue_end, wed_start, wed_end,
			thu_start, thu_end, fri_start, fri_end, sat_start, sat_end,
			sun_start, sun_end, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id) DO UPDATE SET
			burnout_threshold = EXCLUDED.burnout_threshold,
			mon_start = EXCLUDED.mon_start, mon_end = EXCLUDED.mon_end,
			tue_start = EXCLUDED.tue_start, tue_end = EXCLUDED.tue_end,
			wed_start = EXCLUDED.wed_start, wed_end = EXCLUDED.wed_end,
			thu_start = EXCLUDED.thu_start, thu_end = EXCLUDED.thu_end,
			fri_start = EXCLUDED.fri_start, fri_end = EXCLUDED.fri_end,
			sat_start = EXCLUDED.sat_start, sat_end = EXCLUDED.sat_end,
			sun_start = EXCLUDED.sun_start, sun_end = EXCLUDED.sun_end,
			updated_at = EXCLUDED.updated_at`,
		profile.ID(),
		profile.UserID(),
		profile.BurnoutThreshold(),
		w[domain.Monday].Start.String(), w[domain.Monday].End.String(),
		w[domain.Tuesday].Start.String(), w[domain.Tuesday].End.String(),
		w[domain.Wednesday].Start.String(), w[domain.Wednesday].End.String(),
		w[domain.Thursday].Start.String(), w[domain.Thursday].End.String(),
		w[domain.Friday].Start.String(), w[domain.Friday].End.String(),
		w[domain.Saturday].Start.String(), w[domain.Saturday].End.String(),
		w[domain.Sunday].Start.String(), w[domain.Sunday].End.String(),
		profile.CreatedAt(),
		profile.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// FindByUserID finds the profile owned by a user. Returns nil, nil when absent.
func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	q := sharedPersistence.Executor(ctx, r.pool)

	row := q.QueryRow(ctx, `
		SELECT id, user_id, burnout_threshold,
			mon_start, mon_end, tue_start, tue_end, wed_start, wed_end,
			thu_start, thu_end, fri_start, fri_end, sat_start, sat_end,
			sun_start, sun_end, created_at, updated_at
		FROM profiles WHERE user_id = $1`,
		userID,
	)

	var (
		id, owner            uuid.UUID
		threshold            int
		clocks               [14]string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &owner, &threshold,
		&clocks[0], &clocks[1], &clocks[2], &clocks[3], &clocks[4], &clocks[5],
		&clocks[6], &clocks[7], &clocks[8], &clocks[9], &clocks[10], &clocks[11],
		&clocks[12], &clocks[13],
		&createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
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

	return domain.RehydrateProfile(
		id, owner,
		domain.NewWeeklyAvailability(windows),
		threshold,
		createdAt, updatedAt,
	), nil
}

package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	sharedPersistence "github.com/taskflow-app/taskflow/internal/shared/infrastructure/persistence"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL outbox repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) querier(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// Save stores a new outbox message.
func (r *PostgresRepository) Save(ctx context.Context, msg *Message) error {
	return r.querier(ctx).QueryRow(ctx, `
		INSERT INTO outbox_messages (
			event_id, aggregate_type, aggregate_id, routing_key,
			payload, metadata, created_at, retry_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		RETURNING id`,
		msg.EventID,
		msg.AggregateType,
		msg.AggregateID,
		msg.RoutingKey,
		msg.Payload,
		msg.Metadata,
		msg.CreatedAt,
	).Scan(&msg.ID)
}

// SaveBatch stores multiple outbox messages. Callers run inside a unit of
// work, so the messages land in the surrounding transaction.
func (r *PostgresRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished retrieves unpublished messages ordered by creation time.
func (r *PostgresRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.querier(ctx).Query(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, routing_key,
		       payload, metadata, created_at, retry_count, last_error
		FROM outbox_messages
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*Message, 0, limit)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.RoutingKey,
			&msg.Payload, &msg.Metadata, &msg.CreatedAt, &msg.RetryCount, &msg.LastError,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, &msg)
	}

	return msgs, rows.Err()
}

// MarkPublished marks a message as successfully published.
func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.querier(ctx).Exec(ctx,
		`UPDATE outbox_messages SET published_at = $1 WHERE id = $2`,
		time.Now().UTC(), id,
	)
	return err
}

// MarkFailed records a publish failure with its error message.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := r.querier(ctx).Exec(ctx,
		`UPDATE outbox_messages SET retry_count = retry_count + 1, last_error = $1 WHERE id = $2`,
		errMsg, id,
	)
	return err
}

// DeleteOld removes published messages older than the retention cutoff.
func (r *PostgresRepository) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.querier(ctx).Exec(ctx,
		`DELETE FROM outbox_messages WHERE published_at IS NOT NULL AND published_at < $1`,
		olderThan.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package outbox

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	sharedPersistence "github.com/taskflow-app/taskflow/internal/shared/infrastructure/persistence"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) querier(ctx context.Context) sharedPersistence.SQLiteQuerier {
	return sharedPersistence.SQLiteExecutor(ctx, r.db)
}

// Save stores a new outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	result, err := r.querier(ctx).ExecContext(ctx, `
		INSERT INTO outbox_messages (
			event_id, aggregate_type, aggregate_id, routing_key,
			payload, metadata, created_at, retry_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.RoutingKey,
		string(msg.Payload),
		string(msg.Metadata),
		msg.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	msg.ID, err = result.LastInsertId()
	return err
}

// SaveBatch stores multiple outbox messages. Callers run inside a unit of
// work, so the messages land in the surrounding transaction.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished retrieves unpublished messages ordered by creation time.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, routing_key,
		       payload, metadata, created_at, retry_count, last_error
		FROM outbox_messages
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*Message, 0, limit)
	for rows.Next() {
		var (
			msg       Message
			eventID   string
			aggID     string
			payload   string
			metadata  string
			createdAt string
			lastError sql.NullString
		)
		if err := rows.Scan(
			&msg.ID, &eventID, &msg.AggregateType, &aggID, &msg.RoutingKey,
			&payload, &metadata, &createdAt, &msg.RetryCount, &lastError,
		); err != nil {
			return nil, err
		}
		msg.EventID, _ = uuid.Parse(eventID)
		msg.AggregateID, _ = uuid.Parse(aggID)
		msg.Payload = []byte(payload)
		msg.Metadata = []byte(metadata)
		msg.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		msgs = append(msgs, &msg)
	}

	return msgs, rows.Err()
}

// MarkPublished marks a message as successfully published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.querier(ctx).ExecContext(ctx,
		`UPDATE outbox_messages SET published_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	return err
}

// MarkFailed records a publish failure with its error message.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := r.querier(ctx).ExecContext(ctx,
		`UPDATE outbox_messages SET retry_count = retry_count + 1, last_error = ? WHERE id = ?`,
		errMsg, id,
	)
	return err
}

// DeleteOld removes published messages older than the retention cutoff.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.querier(ctx).ExecContext(ctx,
		`DELETE FROM outbox_messages WHERE published_at IS NOT NULL AND published_at < ?`,
		olderThan.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedApplication "github.com/taskflow-app/taskflow/internal/shared/application"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestSQLiteUnitOfWork(t *testing.T) {
	ctx := context.Background()

	t.Run("commit makes writes visible", func(t *testing.T) {
		db := openTestDB(t)
		uow := NewSQLiteUnitOfWork(db)

		err := sharedApplication.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
			_, err := SQLiteExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES (?)`, "a")
			return err
		})
		require.NoError(t, err)

		assert.Equal(t, 1, countItems(t, db))
	})

	t.Run("an error rolls everything back", func(t *testing.T) {
		db := openTestDB(t)
		uow := NewSQLiteUnitOfWork(db)

		boom := errors.New("boom")
		err := sharedApplication.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
			_, execErr := SQLiteExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES (?)`, "a")
			require.NoError(t, execErr)
			return boom
		})
		require.ErrorIs(t, err, boom)

		assert.Equal(t, 0, countItems(t, db))
	})

	t.Run("nested unit joins the outer transaction", func(t *testing.T) {
		db := openTestDB(t)
		uow := NewSQLiteUnitOfWork(db)

		err := sharedApplication.WithUnitOfWork(ctx, uow, func(outerCtx context.Context) error {
			outer, ok := SQLiteTxInfoFromContext(outerCtx)
			require.True(t, ok)
			require.True(t, outer.Owned)

			return sharedApplication.WithUnitOfWork(outerCtx, uow, func(innerCtx context.Context) error {
				inner, ok := SQLiteTxInfoFromContext(innerCtx)
				require.True(t, ok)
				assert.Same(t, outer.Tx, inner.Tx)
				assert.False(t, inner.Owned)

				_, execErr := SQLiteExecutor(innerCtx, db).ExecContext(innerCtx, `INSERT INTO items (name) VALUES (?)`, "nested")
				return execErr
			})
		})
		require.NoError(t, err)

		assert.Equal(t, 1, countItems(t, db))
	})

	t.Run("executor falls back to the handle outside a transaction", func(t *testing.T) {
		db := openTestDB(t)

		_, err := SQLiteExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, "direct")
		require.NoError(t, err)
		assert.Equal(t, 1, countItems(t, db))
	})
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply without environment", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.AppEnv)
		assert.True(t, cfg.IsDevelopment())
		assert.False(t, cfg.IsProduction())
		assert.False(t, cfg.UsePostgres())
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "00000000-0000-0000-0000-000000000001", cfg.UserID)
		assert.Contains(t, cfg.SQLitePath, ".taskflow/taskflow.db")

		assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
		assert.Equal(t, 100, cfg.OutboxBatchSize)
		assert.Equal(t, 5, cfg.OutboxMaxRetries)
		assert.True(t, cfg.OutboxProcessorEnabled)

		assert.Empty(t, cfg.EstimatorAPIURL)
		assert.Equal(t, "gemini-2.0-flash", cfg.EstimatorModel)
		assert.Equal(t, 15*time.Second, cfg.EstimatorTimeout)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("TASKFLOW_ENV", "production")
		t.Setenv("DATABASE_URL", "postgres://localhost/taskflow")
		t.Setenv("OUTBOX_BATCH_SIZE", "25")
		t.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")
		t.Setenv("ESTIMATOR_TIMEOUT", "5s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.IsProduction())
		assert.True(t, cfg.UsePostgres())
		assert.Equal(t, 25, cfg.OutboxBatchSize)
		assert.False(t, cfg.OutboxProcessorEnabled)
		assert.Equal(t, 5*time.Second, cfg.EstimatorTimeout)
	})

	t.Run("malformed numeric values fall back", func(t *testing.T) {
		t.Setenv("OUTBOX_BATCH_SIZE", "lots")
		t.Setenv("OUTBOX_POLL_INTERVAL", "soon")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 100, cfg.OutboxBatchSize)
		assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	})
}

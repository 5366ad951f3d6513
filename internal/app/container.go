// Package app wires the application together: storage, messaging, the
// placement engine, and the command and query handlers.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taskflow-app/taskflow/internal/estimator"
	"github.com/taskflow-app/taskflow/internal/planning/application/commands"
	"github.com/taskflow-app/taskflow/internal/planning/application/queries"
	"github.com/taskflow-app/taskflow/internal/planning/application/services"
	"github.com/taskflow-app/taskflow/internal/planning/domain"
	planningPersistence "github.com/taskflow-app/taskflow/internal/planning/infrastructure/persistence"
	sharedApplication "github.com/taskflow-app/taskflow/internal/shared/application"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/database"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/eventbus"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/locking"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/migrations"
	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/taskflow-app/taskflow/internal/shared/infrastructure/persistence"
	"github.com/taskflow-app/taskflow/pkg/config"
)

// Container holds the wired application.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	PlaceTask      *commands.PlaceTaskHandler
	ToggleTask     *commands.ToggleTaskHandler
	PurgeCompleted *commands.PurgeCompletedHandler
	UpdateSchedule *commands.UpdateScheduleHandler

	WeekView *queries.WeekViewHandler
	Progress *queries.ProgressHandler

	outboxProcessor *outbox.Processor
	publisher       eventbus.Publisher
	sqliteDB        *sql.DB
	pgPool          *pgxpool.Pool
	redisClient     *redis.Client
}

// New builds the container from configuration. PostgreSQL is used when
// DATABASE_URL is set, the local SQLite file otherwise. RabbitMQ and Redis
// are optional; without them events stay on an in-process bus and placement
// locking is process-local.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	var (
		taskRepo    domain.TaskRepository
		profileRepo domain.ProfileRepository
		outboxRepo  outbox.Repository
		uow         sharedApplication.UnitOfWork
	)

	if cfg.UsePostgres() {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		c.pgPool = pool
		taskRepo = planningPersistence.NewPostgresTaskRepository(pool)
		profileRepo = planningPersistence.NewPostgresProfileRepository(pool)
		outboxRepo = outbox.NewPostgresRepository(pool)
		uow = sharedPersistence.NewPostgresUnitOfWork(pool)
		logger.Debug("using PostgreSQL storage")
	} else {
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		c.sqliteDB = db
		taskRepo = planningPersistence.NewSQLiteTaskRepository(db)
		profileRepo = planningPersistence.NewSQLiteProfileRepository(db)
		outboxRepo = outbox.NewSQLiteRepository(db)
		uow = sharedPersistence.NewSQLiteUnitOfWork(db)
		logger.Debug("using SQLite storage", "path", cfg.SQLitePath)
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			c.closeStorage()
			return nil, err
		}
		c.publisher = publisher
	} else {
		c.publisher = eventbus.NewInProcessBus()
	}

	var locker locking.UserLocker
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			c.closeStorage()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		c.redisClient = redis.NewClient(opts)
		locker = locking.NewRedisLocker(c.redisClient, 30*time.Second)
	} else {
		locker = locking.NewLocalLocker()
	}

	var est services.Estimator
	if cfg.EstimatorAPIURL != "" {
		est = estimator.NewAPIClient(estimator.APIClientConfig{
			BaseURL: cfg.EstimatorAPIURL,
			APIKey:  cfg.EstimatorAPIKey,
			Model:   cfg.EstimatorModel,
			Timeout: cfg.EstimatorTimeout,
		}, logger)
	} else {
		est = estimator.NewHeuristic()
	}

	engine := services.NewPlacementEngine(est, logger)

	c.PlaceTask = commands.NewPlaceTaskHandler(taskRepo, profileRepo, engine, outboxRepo, uow, locker, logger)
	c.ToggleTask = commands.NewToggleTaskHandler(taskRepo, outboxRepo, uow)
	c.PurgeCompleted = commands.NewPurgeCompletedHandler(taskRepo, uow)
	c.UpdateSchedule = commands.NewUpdateScheduleHandler(profileRepo, outboxRepo, uow)

	c.WeekView = queries.NewWeekViewHandler(taskRepo, profileRepo)
	c.Progress = queries.NewProgressHandler(taskRepo)

	if cfg.OutboxProcessorEnabled {
		c.outboxProcessor = outbox.NewProcessor(outboxRepo, c.publisher, outbox.ProcessorConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxRetries:   cfg.OutboxMaxRetries,
			Retention:    time.Duration(cfg.OutboxRetentionDays) * 24 * time.Hour,
		}, logger)
		c.outboxProcessor.Start(ctx)
	}

	return c, nil
}

// Close releases every held resource.
func (c *Container) Close() {
	if c.outboxProcessor != nil {
		c.outboxProcessor.Stop()
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.Logger.Warn("failed to close publisher", "error", err)
		}
	}
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
	c.closeStorage()
}

func (c *Container) closeStorage() {
	if c.sqliteDB != nil {
		_ = c.sqliteDB.Close()
		c.sqliteDB = nil
	}
	if c.pgPool != nil {
		c.pgPool.Close()
		c.pgPool = nil
	}
}

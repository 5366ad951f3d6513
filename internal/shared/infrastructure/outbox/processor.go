package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taskflow-app/taskflow/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	Retention    time.Duration
}

// DefaultProcessorConfig returns sensible defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval: 500 * time.Millisecond,
		BatchSize:    100,
		MaxRetries:   5,
		Retention:    14 * 24 * time.Hour,
	}
}

// Processor polls the outbox and publishes events to the message broker.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger

	wg       sync.WaitGroup
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the polling loop in a goroutine.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)
}

// Stop gracefully stops the processor.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.processBatch(ctx)
		case <-cleanup.C:
			cutoff := time.Now().Add(-p.config.Retention)
			if deleted, err := p.repo.DeleteOld(ctx, cutoff); err != nil {
				p.logger.Warn("outbox cleanup failed", "error", err)
			} else if deleted > 0 {
				p.logger.Debug("outbox cleanup", "deleted", deleted)
			}
		}
	}
}

// ProcessBatch publishes one batch of pending messages. Exposed so tests
// and one-shot callers can drain the outbox without the polling loop.
func (p *Processor) ProcessBatch(ctx context.Context) {
	p.processBatch(ctx)
}

func (p *Processor) processBatch(ctx context.Context) {
	msgs, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Warn("failed to load outbox messages", "error", err)
		return
	}

	for _, msg := range msgs {
		if !msg.CanRetry(p.config.MaxRetries) {
			continue
		}
		if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			p.logger.Warn("failed to publish event",
				"routing_key", msg.RoutingKey,
				"retry_count", msg.RetryCount,
				"error", err,
			)
			if markErr := p.repo.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
				p.logger.Warn("failed to record publish failure", "error", markErr)
			}
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Warn("failed to mark message published", "error", err)
		}
	}
}

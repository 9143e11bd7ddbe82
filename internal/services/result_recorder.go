package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/events"
	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
)

type RecorderConfig struct {
	QueueSize   int
	Workers     int
	SaveTimeout time.Duration
}

// ResultRecorder persists completed mock tests off the connection goroutine.
// Storage failures are logged and never reach the test taker.
type ResultRecorder struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	results   MockResultService
	logger    *slog.Logger
	timeout   time.Duration

	queue  chan *models.MockResult
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewResultRecorder(repo repositories.Repository, publisher events.EventPublisher, results MockResultService, logger *slog.Logger, cfg RecorderConfig) *ResultRecorder {
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}

	r := &ResultRecorder{
		repo:      repo,
		publisher: publisher,
		results:   results,
		logger:    logger.With("component", "result_recorder"),
		timeout:   cfg.SaveTimeout,
		queue:     make(chan *models.MockResult, cfg.QueueSize),
	}

	r.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go r.worker()
	}
	return r
}

// Record hands a result over for saving without blocking
func (r *ResultRecorder) Record(result *models.MockResult) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.Error("Recorder closed, mock result dropped",
			"name", result.TakerName,
			"mobile", result.TakerContact,
			"score", result.Score,
			"total", result.Total)
		return
	}

	select {
	case r.queue <- result:
	default:
		r.logger.Warn("Result queue full, saving in a dedicated goroutine", "name", result.TakerName)
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.save(result)
		}()
	}
}

// Close stops accepting queued results and waits for pending saves or ctx
func (r *ResultRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *ResultRecorder) worker() {
	defer r.wg.Done()
	for result := range r.queue {
		r.save(result)
	}
}

func (r *ResultRecorder) save(result *models.MockResult) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.repo.MockResult().Create(ctx, result); err != nil {
		r.logger.Error("Failed to save mock result",
			"error", err,
			"name", result.TakerName,
			"mobile", result.TakerContact,
			"score", result.Score,
			"total", result.Total)
		return
	}

	r.logger.Info("Mock result saved",
		"result_id", result.ID,
		"score", result.Score,
		"total", result.Total)

	if r.results != nil {
		r.results.InvalidateStats(ctx)
	}

	if r.publisher != nil {
		event := events.NewMockTestCompletedEvent(result.ID, result.TakerName, result.TakerContact,
			result.Score, result.Total, result.CompletedAt)
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.logger.Warn("Failed to publish mock test completed event", "error", err, "result_id", result.ID)
		}
	}
}

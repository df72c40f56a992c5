package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/repustack/repustack/backend/internal/config"
	"github.com/repustack/repustack/backend/pkg/logger"
)

const workerConcurrency = 10

// Worker consumes distribution tasks from Redis and hands them to the
// bound processor. One worker per process; asynq handles retry and
// redelivery.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor func(context.Context, *DistributionTask) error

	mu      sync.Mutex
	wg      sync.WaitGroup
	running bool
}

// NewWorker returns nil when Redis is disabled; callers treat a nil
// worker as "sync mode, nothing to run".
func NewWorker(cfg *config.RedisConfig) *Worker {
	if !cfg.Enabled {
		return nil
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: workerConcurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Errorf("[Worker] task %s failed: %v", task.Type(), err)
			}),
		},
	)

	return &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// SetProcessor binds the fan-out function. Must be called before Start.
func (w *Worker) SetProcessor(processor func(context.Context, *DistributionTask) error) {
	w.processor = processor
}

// Start runs the consumer loop in the background. Calling Start on a
// running worker is a no-op.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TaskTypeDistribution, w.handleDistribution)

	w.running = true
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		logger.Infof("[Worker] distribution worker started")
		if err := w.server.Run(w.mux); err != nil {
			logger.Errorf("[Worker] stopped: %v", err)
		}
	}()

	return nil
}

// Stop drains in-flight tasks and shuts the consumer down.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
	logger.Infof("[Worker] distribution worker stopped")
}

func (w *Worker) handleDistribution(ctx context.Context, t *asynq.Task) error {
	var task DistributionTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("bad distribution payload: %w", err)
	}

	if w.processor == nil {
		return fmt.Errorf("no processor bound for %s", t.Type())
	}

	logger.Infof("[Worker] distributing request %d (business %d)", task.RequestID, task.BusinessID)
	return w.processor(ctx, &task)
}

var (
	processWorker *Worker
	workerOnce    sync.Once
)

// InitWorker builds the process-wide worker once.
func InitWorker(cfg *config.RedisConfig) *Worker {
	workerOnce.Do(func() {
		processWorker = NewWorker(cfg)
	})
	return processWorker
}

// GetWorker returns the worker built by InitWorker; nil in sync mode.
func GetWorker() *Worker {
	return processWorker
}

package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/repustack/repustack/backend/internal/config"
	"github.com/repustack/repustack/backend/pkg/logger"
)

// TaskTypeDistribution identifies a queued request fan-out job.
const TaskTypeDistribution = "distribution:send"

const distributionMaxRetry = 3

// DistributionTask carries everything a worker needs to deliver one
// feedback request: the request and the business scope it belongs to.
type DistributionTask struct {
	RequestID  uint `json:"request_id"`
	BusinessID uint `json:"business_id"`
}

// TaskQueue hands distribution work to whatever backend is available.
// With Redis configured the work goes through asynq; without it the
// queue degrades to in-process execution so single-node deployments
// need no extra infrastructure.
type TaskQueue interface {
	Enqueue(task *DistributionTask) error
	IsAsync() bool
	Close() error
}

var (
	distributionQueue TaskQueue
	queueInitOnce     sync.Once
)

// InitTaskQueue picks the queue backend once per process. A configured
// but unreachable Redis degrades to the sync queue rather than failing
// startup.
func InitTaskQueue(cfg *config.Config) TaskQueue {
	queueInitOnce.Do(func() {
		if !cfg.Redis.Enabled {
			logger.Infof("[TaskQueue] Redis disabled, distributing in-process")
			distributionQueue = NewSyncQueue()
			return
		}

		queue, err := NewAsyncQueue(&cfg.Redis)
		if err != nil {
			logger.Warnf("[TaskQueue] Redis at %s unreachable, distributing in-process: %v", cfg.Redis.Addr, err)
			distributionQueue = NewSyncQueue()
			return
		}
		logger.Infof("[TaskQueue] Distributing through Redis at %s", cfg.Redis.Addr)
		distributionQueue = queue
	})
	return distributionQueue
}

// GetTaskQueue returns the process-wide queue chosen by InitTaskQueue.
func GetTaskQueue() TaskQueue {
	return distributionQueue
}

// AsyncQueue enqueues distribution tasks into Redis via asynq.
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue connects to Redis and verifies it answers before
// committing to async mode.
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	opt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(opt)

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func (q *AsyncQueue) Enqueue(task *DistributionTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	info, err := q.client.Enqueue(
		asynq.NewTask(TaskTypeDistribution, payload),
		asynq.MaxRetry(distributionMaxRetry),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return err
	}

	logger.Infof("[TaskQueue] request %d queued as task %s", task.RequestID, info.ID)
	return nil
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error { return q.client.Close() }

// SyncQueue runs distribution in-process. Enqueue still returns before
// the fan-out finishes so the HTTP response is not held hostage by
// slow channel providers.
type SyncQueue struct {
	processor func(context.Context, *DistributionTask) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor binds the function that performs the actual fan-out.
func (q *SyncQueue) SetProcessor(processor func(context.Context, *DistributionTask) error) {
	q.processor = processor
}

func (q *SyncQueue) Enqueue(task *DistributionTask) error {
	if q.processor == nil {
		logger.Warnf("[TaskQueue] no processor bound, dropping request %d", task.RequestID)
		return nil
	}

	go func() {
		if err := q.processor(context.Background(), task); err != nil {
			logger.Errorf("[TaskQueue] request %d distribution failed: %v", task.RequestID, err)
		}
	}()
	return nil
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }

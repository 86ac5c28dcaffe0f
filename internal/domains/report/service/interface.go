package service

import (
	"context"

	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/domains/report/model"
)

// TaskEnqueuer is the producer side of the queue. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ServiceInterface covers both ends of the report lifecycle
type ServiceInterface interface {
	// Request enqueues a generation job and returns as soon as it is queued.
	// No deduplication: every call enqueues a new job.
	Request(ctx context.Context, userID int64) error

	// GetCached returns the cached report or model.ErrReportNotFound.
	GetCached(ctx context.Context, userID string) (*model.Report, error)

	// Generate computes the report and caches it. Called by the worker.
	Generate(ctx context.Context, userID int64) (*model.Report, error)
}

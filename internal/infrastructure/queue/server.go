package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/shared"
)

// RedisOpt builds the asynq connection options for a Redis address.
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// NewClient creates the producer used by the API to enqueue tasks.
func NewClient(opt asynq.RedisClientOpt) *asynq.Client {
	return asynq.NewClient(opt)
}

// Server wraps asynq.Server together with its mux
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewServer creates a consumer pool of the given size listening on the report queue.
// Failed tasks are logged; retries are governed by each task's MaxRetry.
func NewServer(opt asynq.RedisClientOpt, concurrency int, shutdownTimeout time.Duration) *Server {
	srv := asynq.NewServer(opt, asynq.Config{
		Queues: map[string]int{
			shared.QueueReports: 1,
		},
		Concurrency:     concurrency,
		ShutdownTimeout: shutdownTimeout,
		Logger:          zerologLogger{},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error().
				Err(err).
				Str("task_type", task.Type()).
				Bytes("payload", task.Payload()).
				Msg("Task failed")
		}),
	})

	return &Server{
		srv: srv,
		mux: asynq.NewServeMux(),
	}
}

// HandleFunc registers a handler for a task type
func (s *Server) HandleFunc(taskType string, fn func(context.Context, *asynq.Task) error) {
	s.mux.HandleFunc(taskType, fn)
}

// Start begins processing in background goroutines.
func (s *Server) Start() error {
	log.Info().Msg("Worker starting")
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	return nil
}

// Shutdown stops fetching new tasks and waits up to the shutdown timeout for active ones.
func (s *Server) Shutdown() {
	log.Info().Msg("Worker shutting down")
	s.srv.Shutdown()
	log.Info().Msg("Worker stopped")
}

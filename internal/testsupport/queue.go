package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
)

// TaskRecorder captures enqueued tasks instead of sending them to Redis.
type TaskRecorder struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	opts  [][]asynq.Option
	// Err, when set, is returned by every enqueue. Set it with Fail once
	// enqueues may run concurrently.
	Err error
}

// EnqueueContext records the task.
func (r *TaskRecorder) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	r.tasks = append(r.tasks, task)
	r.opts = append(r.opts, opts)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(r.tasks)), Type: task.Type(), Payload: task.Payload()}, nil
}

// Tasks returns the recorded tasks in enqueue order.
func (r *TaskRecorder) Tasks() []*asynq.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*asynq.Task(nil), r.tasks...)
}

// Options returns the options passed with the i-th task.
func (r *TaskRecorder) Options(i int) []asynq.Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts[i]
}

// Drain returns and forgets the recorded tasks.
func (r *TaskRecorder) Drain() []*asynq.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.tasks
	r.tasks = nil
	r.opts = nil
	return out
}

// Fail makes every following enqueue return err.
func (r *TaskRecorder) Fail(err error) {
	r.mu.Lock()
	r.Err = err
	r.mu.Unlock()
}

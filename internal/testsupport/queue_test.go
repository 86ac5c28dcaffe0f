package testsupport

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRecorder_ConcurrentEnqueueAndFail(t *testing.T) {
	r := &TaskRecorder{}
	ctx := context.Background()
	errDown := errors.New("redis down")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.EnqueueContext(ctx, asynq.NewTask("report:generate", nil))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Fail(errDown)
	}()
	wg.Wait()

	assert.LessOrEqual(t, len(r.Tasks()), 20)

	_, err := r.EnqueueContext(ctx, asynq.NewTask("report:generate", nil))
	require.ErrorIs(t, err, errDown)
}

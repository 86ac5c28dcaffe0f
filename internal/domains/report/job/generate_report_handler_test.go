package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/report/model"
	"bookstore-catalog/internal/shared"
)

type stubService struct {
	generated []int64
	err       error
}

func (s *stubService) Request(context.Context, int64) error { return nil }

func (s *stubService) GetCached(context.Context, string) (*model.Report, error) {
	return nil, model.ErrReportNotFound
}

func (s *stubService) Generate(_ context.Context, userID int64) (*model.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.generated = append(s.generated, userID)
	return &model.Report{}, nil
}

func TestProcessTask_GeneratesForPayloadUser(t *testing.T) {
	svc := &stubService{}
	h := NewGenerateReportHandler(svc)

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeGenerateReport, []byte(`{"user_id":12}`)))

	require.NoError(t, err)
	assert.Equal(t, []int64{12}, svc.generated)
}

func TestProcessTask_BadPayloadSkipsRetry(t *testing.T) {
	tests := map[string][]byte{
		"not json":     []byte(`{`),
		"missing user": []byte(`{}`),
		"negative":     []byte(`{"user_id":-1}`),
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &stubService{}
			err := NewGenerateReportHandler(svc).ProcessTask(context.Background(), asynq.NewTask(shared.TypeGenerateReport, payload))

			assert.ErrorIs(t, err, asynq.SkipRetry)
			assert.Empty(t, svc.generated)
		})
	}
}

func TestProcessTask_GenerationFailureIsReturned(t *testing.T) {
	svc := &stubService{err: errors.New("boom")}

	err := NewGenerateReportHandler(svc).ProcessTask(context.Background(), asynq.NewTask(shared.TypeGenerateReport, []byte(`{"user_id":1}`)))

	assert.ErrorContains(t, err, "boom")
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/domains/report/service"
	"bookstore-catalog/internal/shared"
)

// GenerateReportHandler computes a catalog report and caches it for the requesting user
type GenerateReportHandler struct {
	reportService service.ServiceInterface
}

func NewGenerateReportHandler(reportService service.ServiceInterface) *GenerateReportHandler {
	return &GenerateReportHandler{
		reportService: reportService,
	}
}

// ProcessTask handles report:generate. Bad payloads are not retried.
func (h *GenerateReportHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.GenerateReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal GenerateReport payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.UserID < 1 {
		return fmt.Errorf("invalid user id %d: %w", payload.UserID, asynq.SkipRetry)
	}

	log.Info().
		Int64("user_id", payload.UserID).
		Msg("Generating report")

	start := time.Now()
	report, err := h.reportService.Generate(ctx, payload.UserID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", payload.UserID).
			Msg("Failed to generate report")
		return fmt.Errorf("generate report: %w", err)
	}

	log.Info().
		Int64("user_id", payload.UserID).
		Int("books", report.Totals.Books).
		Dur("took", time.Since(start)).
		Msg("Report cached")

	return nil
}

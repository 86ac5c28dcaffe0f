package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/report/model"
	"bookstore-catalog/internal/domains/report/service"
	"bookstore-catalog/internal/shared/response"
)

// ReportHandler handles the asynchronous report endpoints
type ReportHandler struct {
	service service.ServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc service.ServiceInterface) *ReportHandler {
	return &ReportHandler{service: svc}
}

type queuedResponse struct {
	Message string `json:"message"`
}

// Request handles POST /report. It answers 202 once the job is queued.
func (h *ReportHandler) Request(c *gin.Context) {
	var req model.RequestReportRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if err := h.service.Request(c.Request.Context(), req.UserID); err != nil {
		response.InternalServerError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, queuedResponse{Message: model.MsgQueued})
}

// Get handles GET /report?userId=
func (h *ReportHandler) Get(c *gin.Context) {
	userID, err := model.ParseUserID(c.Query("userId"))
	if err != nil {
		response.ValidationFailed(c, err)
		return
	}

	report, err := h.service.GetCached(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			response.NotFound(c, model.MsgReportNotFound)
			return
		}
		response.InternalServerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

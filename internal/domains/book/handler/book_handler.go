package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/service"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/response"
)

// BookHandler handles HTTP requests for books
type BookHandler struct {
	service service.ServiceInterface
	// legacyErrors reports unknown books and dangling references as 500.
	legacyErrors bool
}

// NewBookHandler creates a new book handler
func NewBookHandler(svc service.ServiceInterface, legacyErrorStatus bool) *BookHandler {
	return &BookHandler{
		service:      svc,
		legacyErrors: legacyErrorStatus,
	}
}

// Create handles POST /books
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	filter, err := model.ParseBookFilter(c.Request.URL.Query())
	if err != nil {
		response.ValidationFailed(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, listing.NewPage(res, filter.Params))
}

// Update handles PUT /books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, deleted)
}

func (h *BookHandler) handleError(c *gin.Context, err error) {
	switch model.ToHTTPStatus(err, h.legacyErrors) {
	case http.StatusNotFound:
		response.NotFound(c, model.MsgBookNotFound)
	case http.StatusBadRequest:
		response.InvalidField(c, model.ReferenceField(err), "references a record that does not exist")
	default:
		response.InternalServerError(c, err)
	}
}

// bookID parses the :id path parameter, writing a 400 when it is not a positive integer.
func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.InvalidField(c, "id", "must be a positive integer")
		return 0, false
	}
	return id, true
}

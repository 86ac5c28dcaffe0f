package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/domains/category/service"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/response"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	service service.ServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(svc service.ServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch model.ToHTTPStatus(err) {
		case http.StatusConflict:
			response.Conflict(c, model.MsgDuplicateName)
		default:
			response.InternalServerError(c, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	params, err := listing.ParseParams(c.Request.URL.Query())
	if err != nil {
		response.ValidationFailed(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), model.CategoryFilter{Params: params})
	if err != nil {
		response.InternalServerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, listing.NewPage(res, params))
}

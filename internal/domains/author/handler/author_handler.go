package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/author/service"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/response"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /authors?page=1&pageSize=10&search=
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	params, err := listing.ParseParams(c.Request.URL.Query())
	if err != nil {
		response.ValidationFailed(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), model.AuthorFilter{Params: params})
	if err != nil {
		response.InternalServerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, listing.NewPage(res, params))
}

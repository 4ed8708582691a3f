package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/author/service"
	"library-catalog/internal/shared/response"
	"library-catalog/internal/shared/utils"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /authors/
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	authors, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.ToResponses(authors))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /authors/
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /authors/:id/
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT|PATCH /authors/:id/
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAuthorRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /authors/:id/
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *AuthorHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrAuthorNotFound):
		response.NotFound(c, "author not found")
	default:
		response.FromError(c, err)
	}
}

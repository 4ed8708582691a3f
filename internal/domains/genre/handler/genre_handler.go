package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-catalog/internal/domains/genre/model"
	"library-catalog/internal/domains/genre/service"
	"library-catalog/internal/shared/response"
	"library-catalog/internal/shared/utils"
)

type GenreHandler struct {
	service service.ServiceInterface
}

func NewGenreHandler(svc service.ServiceInterface) *GenreHandler {
	return &GenreHandler{service: svc}
}

// List - GET /genres/
func (h *GenreHandler) List(c *gin.Context) {
	genres, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.ToResponses(genres))
}

// Create - POST /genres/
func (h *GenreHandler) Create(c *gin.Context) {
	var req model.CreateGenreRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	g, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, g.ToResponse())
}

// GetByID - GET /genres/:id/
func (h *GenreHandler) GetByID(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	g, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, g.ToResponse())
}

// Update - PUT|PATCH /genres/:id/
func (h *GenreHandler) Update(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateGenreRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	g, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, g.ToResponse())
}

// Delete - DELETE /genres/:id/
func (h *GenreHandler) Delete(c *gin.Context) {
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

func (h *GenreHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrGenreNotFound) {
		response.NotFound(c, "genre not found")
		return
	}
	response.FromError(c, err)
}

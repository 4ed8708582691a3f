package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authormodel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/service"
	genremodel "library-catalog/internal/domains/genre/model"
	"library-catalog/internal/shared/response"
	"library-catalog/internal/shared/utils"
)

// Handler - HTTP handler for books
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /books/?author_id=&genre_id=
func (h *Handler) ListBooks(c *gin.Context) {
	var filter model.BookFilter
	for param, dst := range map[string]**uuid.UUID{
		"author_id": &filter.AuthorID,
		"genre_id":  &filter.GenreID,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			response.FieldError(c, param, "must be a valid UUID")
			return
		}
		*dst = &id
	}

	books, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.ToResponses(books))
}

// CreateBook - POST /books/
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, b.ToResponse())
}

// GetBookDetail - GET /books/:id/
func (h *Handler) GetBookDetail(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b.ToResponse())
}

// UpdateBook - PUT|PATCH /books/:id/
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b.ToResponse())
}

// DeleteBook - DELETE /books/:id/
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := utils.PathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		HandleBookError(c, err)
		return
	}

	response.NoContent(c)
}

// ExportBooks - GET /books/export/
func (h *Handler) ExportBooks(c *gin.Context) {
	f, err := h.service.ExportToExcel(c.Request.Context())
	if err != nil {
		HandleBookError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to stream books export")
	}
}

var bookErrorMap = map[error]struct {
	Status  int
	Message string
}{
	model.ErrBookNotFound: {Status: http.StatusNotFound, Message: "book not found"},
}

// HandleBookError maps service errors to responses. Unknown references are
// field errors on the request, not a missing book.
func HandleBookError(c *gin.Context, err error) {
	var missingAuthor *authormodel.MissingAuthorError
	if errors.As(err, &missingAuthor) {
		response.FieldError(c, "author_id", missingAuthor.Error())
		return
	}

	var missingGenre *genremodel.MissingGenreError
	if errors.As(err, &missingGenre) {
		response.FieldError(c, "genre_ids", missingGenre.Error())
		return
	}

	for target, mapped := range bookErrorMap {
		if errors.Is(err, target) {
			response.ErrorResponse(c, mapped.Status, mapped.Message)
			return
		}
	}

	response.FromError(c, err)
}

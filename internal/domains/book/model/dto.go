package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	authormodel "library-catalog/internal/domains/author/model"
	genremodel "library-catalog/internal/domains/genre/model"
	"library-catalog/internal/shared/rules"
	"library-catalog/internal/shared/types"
)

const (
	maxTitleLength      = 128
	maxSummaryLength    = 1024
	maxCoverImageLength = 255
)

// ════════════════════════════════════════════════════════════════
// REQUEST DTOs
// ════════════════════════════════════════════════════════════════

// References selects the author and genres of a book. Each relation is
// given either by id (must already exist) or as nested objects
// (get-or-create on the natural key), never both.
type References struct {
	AuthorID *uuid.UUID                       `json:"author_id"`
	Author   *authormodel.CreateAuthorRequest `json:"author"`
	GenreIDs []uuid.UUID                      `json:"genre_ids"`
	Genres   []genremodel.CreateGenreRequest  `json:"genres"`
}

// HasAuthor reports whether the request names an author in either form.
func (r References) HasAuthor() bool {
	return r.AuthorID != nil || r.Author != nil
}

// HasGenres reports whether the request carries a genre list in either
// form. An empty list counts: it clears the set.
func (r References) HasGenres() bool {
	return r.GenreIDs != nil || r.Genres != nil
}

func (r References) validate() error {
	var err error
	if r.AuthorID != nil && r.Author != nil {
		err = rules.Add(err, "author", errBothAuthorForms)
	}
	if r.GenreIDs != nil && r.Genres != nil {
		err = rules.Add(err, "genres", errBothGenreForms)
	}
	return err
}

type CreateBookRequest struct {
	Title         string      `json:"title"`
	Summary       string      `json:"summary"`
	PublishedDate *types.Date `json:"published_date"`
	PageCount     *int        `json:"page_count"`
	CoverImage    *string     `json:"cover_image"`
	References
}

func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Summary = strings.TrimSpace(r.Summary)
}

func (r CreateBookRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, rules.Required, rules.MaxLength(maxTitleLength)),
		validation.Field(&r.Summary, rules.Required, rules.MaxLength(maxSummaryLength)),
		validation.Field(&r.PageCount, rules.PositiveInt),
		validation.Field(&r.CoverImage, rules.MaxLength(maxCoverImageLength)),
		validation.Field(&r.References.Author),
		validation.Field(&r.References.Genres),
	)
	return mergeErrors(err, r.References.validate())
}

func (r CreateBookRequest) ToEntity() *Book {
	return &Book{
		Title:         r.Title,
		Summary:       r.Summary,
		PublishedDate: r.PublishedDate,
		PageCount:     r.PageCount,
		CoverImage:    r.CoverImage,
	}
}

// UpdateBookRequest - nil fields keep their stored value; a supplied genre
// list, even an empty one, replaces the whole set.
type UpdateBookRequest struct {
	Title         *string     `json:"title"`
	Summary       *string     `json:"summary"`
	PublishedDate *types.Date `json:"published_date"`
	PageCount     *int        `json:"page_count"`
	CoverImage    *string     `json:"cover_image"`
	References
}

func (r *UpdateBookRequest) Normalize() {
	if r.Title != nil {
		r.Title = lo.ToPtr(strings.TrimSpace(*r.Title))
	}
	if r.Summary != nil {
		r.Summary = lo.ToPtr(strings.TrimSpace(*r.Summary))
	}
}

func (r UpdateBookRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, rules.NotBlank, rules.MaxLength(maxTitleLength)),
		validation.Field(&r.Summary, rules.NotBlank, rules.MaxLength(maxSummaryLength)),
		validation.Field(&r.PageCount, rules.PositiveInt),
		validation.Field(&r.CoverImage, rules.MaxLength(maxCoverImageLength)),
		validation.Field(&r.References.Author),
		validation.Field(&r.References.Genres),
	)
	return mergeErrors(err, r.References.validate())
}

// ApplyTo copies the supplied scalar fields onto b. References are
// resolved by the service.
func (r UpdateBookRequest) ApplyTo(b *Book) {
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.Summary != nil {
		b.Summary = *r.Summary
	}
	if r.PublishedDate != nil {
		b.PublishedDate = r.PublishedDate
	}
	if r.PageCount != nil {
		b.PageCount = r.PageCount
	}
	if r.CoverImage != nil {
		b.CoverImage = r.CoverImage
	}
}

func mergeErrors(err, refErr error) error {
	var refFields validation.Errors
	if !errors.As(refErr, &refFields) {
		return err
	}
	for field, fieldErr := range refFields {
		err = rules.Add(err, field, fieldErr)
	}
	return err
}

// ════════════════════════════════════════════════════════════════
// RESPONSE DTOs
// ════════════════════════════════════════════════════════════════

type BookResponse struct {
	ID            uuid.UUID                   `json:"id"`
	Title         string                      `json:"title"`
	Summary       string                      `json:"summary"`
	PublishedDate *types.Date                 `json:"published_date"`
	PageCount     *int                        `json:"page_count"`
	CoverImage    *string                     `json:"cover_image"`
	Author        *authormodel.AuthorResponse `json:"author"`
	Genre         []genremodel.GenreResponse  `json:"genre"`
}

func (b *Book) ToResponse() BookResponse {
	resp := BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Summary:       b.Summary,
		PublishedDate: b.PublishedDate,
		PageCount:     b.PageCount,
		CoverImage:    b.CoverImage,
		Genre:         genremodel.ToResponses(b.Genres),
	}
	if b.Author != nil {
		resp.Author = lo.ToPtr(b.Author.ToResponse())
	}
	return resp
}

func ToResponses(books []Book) []BookResponse {
	return lo.Map(books, func(b Book, _ int) BookResponse {
		return b.ToResponse()
	})
}

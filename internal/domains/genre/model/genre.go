package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"library-catalog/internal/shared/rules"
)

const maxNameLength = 64

type Genre struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

// CreateGenreRequest is also the nested genre form accepted by books, where
// it is resolved by get-or-create on the name.
type CreateGenreRequest struct {
	Name string `json:"name"`
}

func (r *CreateGenreRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r CreateGenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, rules.Required, rules.MaxLength(maxNameLength)),
	)
}

type UpdateGenreRequest struct {
	Name *string `json:"name"`
}

func (r *UpdateGenreRequest) Normalize() {
	if r.Name != nil {
		r.Name = lo.ToPtr(strings.TrimSpace(*r.Name))
	}
}

func (r UpdateGenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, rules.NotBlank, rules.MaxLength(maxNameLength)),
	)
}

type GenreResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (g *Genre) ToResponse() GenreResponse {
	return GenreResponse{ID: g.ID, Name: g.Name}
}

func ToResponses(genres []Genre) []GenreResponse {
	return lo.Map(genres, func(g Genre, _ int) GenreResponse {
		return g.ToResponse()
	})
}

package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"library-catalog/internal/shared/rules"
	"library-catalog/internal/shared/types"
)

const maxNameLength = 128

// ════════════════════════════════════════════════════════════════
// REQUEST DTOs
// ════════════════════════════════════════════════════════════════

// CreateAuthorRequest is also the nested author form accepted by books,
// where it is resolved by get-or-create on the whole natural key.
type CreateAuthorRequest struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DateOfBirth *types.Date `json:"date_of_birth"`
	DateOfDeath *types.Date `json:"date_of_death"`
}

func (r *CreateAuthorRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, rules.Required, rules.MaxLength(maxNameLength)),
		validation.Field(&r.LastName, rules.Required, rules.MaxLength(maxNameLength)),
	)
}

func (r CreateAuthorRequest) ToEntity() *Author {
	return &Author{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		DateOfDeath: r.DateOfDeath,
	}
}

// UpdateAuthorRequest - nil fields keep their stored value
type UpdateAuthorRequest struct {
	FirstName   *string     `json:"first_name"`
	LastName    *string     `json:"last_name"`
	DateOfBirth *types.Date `json:"date_of_birth"`
	DateOfDeath *types.Date `json:"date_of_death"`
}

func (r *UpdateAuthorRequest) Normalize() {
	if r.FirstName != nil {
		r.FirstName = lo.ToPtr(strings.TrimSpace(*r.FirstName))
	}
	if r.LastName != nil {
		r.LastName = lo.ToPtr(strings.TrimSpace(*r.LastName))
	}
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, rules.NotBlank, rules.MaxLength(maxNameLength)),
		validation.Field(&r.LastName, rules.NotBlank, rules.MaxLength(maxNameLength)),
	)
}

// ApplyTo copies the supplied fields onto a.
func (r UpdateAuthorRequest) ApplyTo(a *Author) {
	if r.FirstName != nil {
		a.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		a.LastName = *r.LastName
	}
	if r.DateOfBirth != nil {
		a.DateOfBirth = r.DateOfBirth
	}
	if r.DateOfDeath != nil {
		a.DateOfDeath = r.DateOfDeath
	}
}

// ════════════════════════════════════════════════════════════════
// RESPONSE DTOs
// ════════════════════════════════════════════════════════════════

type AuthorResponse struct {
	ID          uuid.UUID   `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DateOfBirth *types.Date `json:"date_of_birth"`
	DateOfDeath *types.Date `json:"date_of_death"`
	Age         *int        `json:"age"`
}

// ToResponse converts Author to AuthorResponse
func (a *Author) ToResponse() AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: a.DateOfBirth,
		DateOfDeath: a.DateOfDeath,
		Age:         a.Age(time.Now()),
	}
}

func ToResponses(authors []Author) []AuthorResponse {
	return lo.Map(authors, func(a Author, _ int) AuthorResponse {
		return a.ToResponse()
	})
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/shared/types"
)

// RepositoryInterface - data access for authors
type RepositoryInterface interface {
	// Create assigns a new ID when a.ID is nil and inserts the row.
	Create(ctx context.Context, a *model.Author) error

	// GetByID returns ErrAuthorNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// List returns every author ordered by date of birth, unknown dates last.
	List(ctx context.Context) ([]model.Author, error)

	// Update overwrites all columns. Returns ErrAuthorNotFound when no row matches.
	Update(ctx context.Context, a *model.Author) error

	// Delete removes the author; their books keep existing without an author.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByNaturalKey matches first name, last name and date of birth
	// (a nil date only matches a NULL date). Returns ErrAuthorNotFound on miss.
	FindByNaturalKey(ctx context.Context, firstName, lastName string, dateOfBirth *types.Date) (*model.Author, error)
}

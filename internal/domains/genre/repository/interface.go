package repository

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/genre/model"
)

// RepositoryInterface - data access for genres
type RepositoryInterface interface {
	// Create returns ErrDuplicateGenreName when the name is taken.
	Create(ctx context.Context, g *model.Genre) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error)

	// GetByIDs returns the genres that exist among ids, in name order.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Genre, error)
	GetByName(ctx context.Context, name string) (*model.Genre, error)

	// List returns every genre ordered by name.
	List(ctx context.Context) ([]model.Genre, error)

	// Update returns ErrDuplicateGenreName when the new name is taken.
	Update(ctx context.Context, g *model.Genre) error

	// Delete also detaches the genre from every book.
	Delete(ctx context.Context, id uuid.UUID) error

	// EnsureByName inserts a genre unless one with the name exists, then
	// returns the stored row. The bool reports whether it was inserted.
	EnsureByName(ctx context.Context, name string) (*model.Genre, bool, error)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/genre/model"
)

// ServiceInterface - genre business operations
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error)
	List(ctx context.Context) ([]model.Genre, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateGenreRequest) (*model.Genre, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByIDs resolves every id or fails with a *model.MissingGenreError
	// naming the first unknown one.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Genre, error)

	// GetOrCreate reuses the genre with req.Name or creates it.
	GetOrCreate(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, bool, error)
}

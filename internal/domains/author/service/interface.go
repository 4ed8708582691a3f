package service

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/author/model"
)

// ServiceInterface - author business operations
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	List(ctx context.Context) ([]model.Author, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// GetOrCreate returns the author matching req's natural key, creating it
	// when none exists. The bool reports whether a row was created.
	GetOrCreate(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, bool, error)
}

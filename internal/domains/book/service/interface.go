package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"library-catalog/internal/domains/book/model"
)

// ServiceInterface - book business operations
type ServiceInterface interface {
	// Create resolves references and stores the book in one transaction.
	// Unknown author_id / genre_ids fail with *MissingAuthorError /
	// *MissingGenreError from the author and genre model packages.
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ExportToExcel renders the whole catalog as a single sheet workbook.
	ExportToExcel(ctx context.Context) (*excelize.File, error)
}

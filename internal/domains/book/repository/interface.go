package repository

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/book/model"
)

// RepositoryInterface - data access for books and their genre links
type RepositoryInterface interface {
	// Create inserts the book row and one link per genre in b.Genres.
	Create(ctx context.Context, b *model.Book) error

	// GetByID loads the book with its author and genres.
	// Returns ErrBookNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// List loads books with author and genres, ordered by published date
	// with undated books last.
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)

	// Update overwrites the book's own columns, genre links untouched.
	Update(ctx context.Context, b *model.Book) error

	// ReplaceGenres clears the book's genre links and inserts genreIDs.
	ReplaceGenres(ctx context.Context, bookID uuid.UUID, genreIDs []uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}

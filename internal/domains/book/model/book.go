package model

import (
	"github.com/google/uuid"

	authormodel "library-catalog/internal/domains/author/model"
	genremodel "library-catalog/internal/domains/genre/model"
	"library-catalog/internal/shared/types"
)

type Book struct {
	ID            uuid.UUID   `db:"id"`
	Title         string      `db:"title"`
	Summary       string      `db:"summary"`
	PublishedDate *types.Date `db:"published_date"`
	PageCount     *int        `db:"page_count"`
	CoverImage    *string     `db:"cover_image"`
	AuthorID      *uuid.UUID  `db:"author_id"`

	// Loaded relations
	Author *authormodel.Author
	Genres []genremodel.Genre
}

// GenreIDs returns the ids of the loaded genres.
func (b *Book) GenreIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.Genres))
	for i, g := range b.Genres {
		ids[i] = g.ID
	}
	return ids
}

// SetAuthor links a (or no author when nil).
func (b *Book) SetAuthor(a *authormodel.Author) {
	b.Author = a
	if a == nil {
		b.AuthorID = nil
		return
	}
	id := a.ID
	b.AuthorID = &id
}

// BookFilter narrows List. Zero value lists everything.
type BookFilter struct {
	AuthorID *uuid.UUID
	GenreID  *uuid.UUID
}

package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound = errors.New("book not found")

	errBothAuthorForms = errors.New("supply either author_id or author, not both")
	errBothGenreForms  = errors.New("supply either genre_ids or genres, not both")
)

// NotFoundMessage is the user facing text for a missing book.
func NotFoundMessage(id uuid.UUID) string {
	return fmt.Sprintf("Book with ID %s does not exist.", id)
}

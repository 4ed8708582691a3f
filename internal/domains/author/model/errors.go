package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrAuthorNotFound = errors.New("author not found")

// NotFoundMessage is the user facing text for a missing author.
func NotFoundMessage(id uuid.UUID) string {
	return fmt.Sprintf("Author with ID %s does not exist.", id)
}

// MissingAuthorError names a referenced author id that does not exist.
type MissingAuthorError struct {
	ID uuid.UUID
}

func (e *MissingAuthorError) Error() string {
	return NotFoundMessage(e.ID)
}

func (e *MissingAuthorError) Unwrap() error {
	return ErrAuthorNotFound
}

package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrGenreNotFound      = errors.New("genre not found")
	ErrDuplicateGenreName = errors.New("genre with this name already exists")
)

// NotFoundMessage is the user facing text for a missing genre.
func NotFoundMessage(id uuid.UUID) string {
	return fmt.Sprintf("Genre with ID %s does not exist.", id)
}

// MissingGenreError names a referenced genre id that does not exist.
type MissingGenreError struct {
	ID uuid.UUID
}

func (e *MissingGenreError) Error() string {
	return NotFoundMessage(e.ID)
}

func (e *MissingGenreError) Unwrap() error {
	return ErrGenreNotFound
}

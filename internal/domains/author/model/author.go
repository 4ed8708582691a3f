package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-catalog/internal/shared/rules"
	"library-catalog/internal/shared/types"
)

var errDeathBeforeBirth = errors.New("date of death cannot be before date of birth")

type Author struct {
	ID          uuid.UUID   `db:"id"`
	FirstName   string      `db:"first_name"`
	LastName    string      `db:"last_name"`
	DateOfBirth *types.Date `db:"date_of_birth"`
	DateOfDeath *types.Date `db:"date_of_death"`
}

func (a *Author) FullName() string {
	return fmt.Sprintf("%s %s", a.FirstName, a.LastName)
}

// Age is the current calendar year minus the birth year, nil without a
// birth date.
func (a *Author) Age(now time.Time) *int {
	if a.DateOfBirth == nil {
		return nil
	}
	age := now.Year() - a.DateOfBirth.Year()
	return &age
}

// CheckLifespan rejects a date of death earlier than the date of birth.
func (a *Author) CheckLifespan() error {
	if a.DateOfBirth != nil && a.DateOfDeath != nil && a.DateOfDeath.Before(*a.DateOfBirth) {
		return rules.Field("date_of_death", errDeathBeforeBirth)
	}
	return nil
}

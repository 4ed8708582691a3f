// Package rules holds the ozzo-validation rules shared by the catalog DTOs,
// so every entity reports the same wording for the same failure.
package rules

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	Required = validation.Required.Error("this field is required")
	NotBlank = validation.NilOrNotEmpty.Error("this field may not be blank")
)

// MaxLength limits a string to n characters (runes, not bytes).
func MaxLength(n int) validation.Rule {
	return validation.RuneLength(0, n).Error(fmt.Sprintf("ensure this field has no more than %d characters", n))
}

// PositiveInt accepts a nil *int or a pointer to a value >= 1.
var PositiveInt = validation.By(func(value interface{}) error {
	var n int
	switch v := value.(type) {
	case nil:
		return nil
	case *int:
		if v == nil {
			return nil
		}
		n = *v
	case int:
		n = v
	default:
		return fmt.Errorf("unexpected type %T", value)
	}
	if n < 1 {
		return errors.New("ensure this value is greater than or equal to 1")
	}
	return nil
})

// Field builds a single-field validation error.
func Field(name string, err error) validation.Errors {
	return validation.Errors{name: err}
}

// Add merges a field error into err, which may be nil or validation.Errors.
// Any other error is returned unchanged.
func Add(err error, name string, fieldErr error) error {
	if fieldErr == nil {
		return err
	}
	if err == nil {
		return Field(name, fieldErr)
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	errs[name] = fieldErr
	return errs
}

// IsValidation reports whether err carries field errors.
func IsValidation(err error) bool {
	var errs validation.Errors
	return errors.As(err, &errs)
}

package gql

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-catalog/internal/shared/auth"
	"library-catalog/pkg/logger"
)

var errInternal = errors.New("internal server error")

// fieldError is a validation failure surfaced as a GraphQL error. The field
// messages travel in the error's extensions.
type fieldError struct {
	fields validation.Errors
}

func (e *fieldError) Error() string {
	return e.fields.Error()
}

func (e *fieldError) Extensions() map[string]interface{} {
	fields := make(map[string]interface{}, len(e.fields))
	for name, err := range e.fields {
		fields[name] = err.Error()
	}
	return map[string]interface{}{
		"code":   "VALIDATION_ERROR",
		"fields": fields,
	}
}

// protocolError maps a service error that is not a soft failure onto the
// error returned to the GraphQL executor.
func protocolError(err error) error {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		return &fieldError{fields: fields}
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrPermissionDenied):
		return err
	default:
		logger.Error("graphql resolver failed", err)
		return errInternal
	}
}

// notFoundMessage names an id the caller sent, valid UUID or not.
func notFoundMessage(entity, id string) string {
	return fmt.Sprintf("%s with ID %s does not exist.", entity, id)
}

// softFailure is the message of a mutation payload whose target is missing.
func softFailure(entity, id string) string {
	return "Error: " + notFoundMessage(entity, id)
}

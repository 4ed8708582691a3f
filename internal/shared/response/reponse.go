package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

// ErrorBody is the body of every non-validation error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Success writes data as-is with the given status.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorResponse writes {"detail": message}.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Detail: message})
}

// ValidationError writes a field -> message map with status 400.
// Accepts validation.Errors or any other JSON-marshalable map.
func ValidationError(c *gin.Context, fields interface{}) {
	c.JSON(http.StatusBadRequest, fields)
}

// FieldError writes a single field error with status 400.
func FieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, map[string]string{field: message})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusTooManyRequests, message)
}

func InternalServerError(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

// FromError answers field errors with 400 and anything else with a logged 500.
func FromError(c *gin.Context, err error) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		ValidationError(c, fields)
		return
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	InternalServerError(c)
}

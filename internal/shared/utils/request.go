package utils

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-catalog/internal/shared/response"
)

// BindJSON decodes the body into dst, answering 400 on malformed input.
// An empty body decodes as {}.
func BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// PathUUID parses the named path parameter. A value that is not a UUID
// cannot name any entity, so it is answered with 404.
func PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.NotFound(c, "not found")
		return uuid.Nil, false
	}
	return id, true
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-catalog/internal/shared/auth"
	"library-catalog/internal/shared/response"
)

// RequireMutationPermission lets safe methods through and applies policy to
// everything else. Must run after Authenticate.
func RequireMutationPermission(policy auth.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if err := policy.AuthorizeContext(c.Request.Context()); err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				response.Unauthorized(c, err.Error())
			} else {
				response.Forbidden(c, "you do not have permission to perform this action")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-catalog/internal/shared/auth"
	"library-catalog/internal/shared/response"
	"library-catalog/pkg/jwt"
)

// Authenticate resolves the Bearer token, when one is sent, into an
// auth.Principal stored on both the gin and the request context.
// Requests without an Authorization header continue anonymously; a header
// that is present but malformed or invalid is rejected with 401.
func Authenticate(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		principal := &auth.Principal{
			UserID:   userID,
			Username: claims.Username,
			IsStaff:  claims.IsStaff,
		}

		c.Set("userID", userID)
		c.Set("principal", principal)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), principal))

		c.Next()
	}
}

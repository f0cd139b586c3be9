package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/uuid"
)

const (
	// UserIDHeader carries the caller's user id on every ledger request.
	UserIDHeader = "X-User-ID"
	userIDKey    = "userID"
)

// UserIdentity reads the caller's id from the X-User-ID header and stores it
// in the context under "userID". Missing or malformed ids are rejected with
// MISSING_USER before any handler runs. Whether the user exists is left to
// the services.
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if raw == "" {
			WriteError(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			WriteError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "X-User-ID must be a UUID"))
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

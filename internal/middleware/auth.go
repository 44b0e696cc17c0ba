package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/internal/models"
	"inkwell/internal/token"
)

// CurrentUserKey is the gin context key holding the authenticated *models.User.
const CurrentUserKey = "current_user"

// BearerTokenKey holds the raw token string, needed by logout and refresh.
const BearerTokenKey = "bearer_token"

// AuthRequired validates the bearer token and loads the bound user into the
// context. Failures answer 401 with the taxonomy message and abort.
func AuthRequired(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractBearer(c.GetHeader("Authorization"))

		user, err := tokens.Validate(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": authMessage(err)})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(BearerTokenKey, raw)
		c.Next()
	}
}

// CurrentUser returns the user loaded by AuthRequired.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// BearerToken returns the raw token loaded by AuthRequired.
func BearerToken(c *gin.Context) string {
	return c.GetString(BearerTokenKey)
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrMissing):
		return "token not provided"
	case errors.Is(err, token.ErrExpired):
		return "token expired"
	default:
		return "token invalid"
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"slidecast-backend/internal/models"
)

const UserIDKey = "user_id"

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, "missing authorization header", "")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, "invalid authorization header format", "expected: Bearer <token>")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abort(c, "empty token", "")
			return
		}

		// Some clients URL-encode the token
		if decoded, err := url.QueryUnescape(tokenString); err == nil {
			tokenString = decoded
		}

		if strings.Count(tokenString, ".") != 2 {
			abort(c, "invalid token format", "JWT token must have 3 parts separated by dots")
			return
		}

		userID, err := verifier.Verify(tokenString)
		if err != nil {
			message := err.Error()
			if errors.Is(err, models.ErrUnauthorized) {
				message = strings.TrimPrefix(message, models.ErrUnauthorized.Error()+": ")
			}
			abort(c, "invalid token", message)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func abort(c *gin.Context, errMsg, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: errMsg, Message: message})
}

// Package middleware carries the request-scoped auth checks.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
)

const userKey = "currentUser"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Authenticate resolves the bearer token (Authorization header or token
// cookie) to a user and stores it on the context.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, apperr.Unauthorized("token not provided"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if appErr, ok := err.(*apperr.Error); ok {
				abort(c, appErr)
			} else {
				abort(c, apperr.Internal("internal server error"))
			}
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated
// user's role is on the list.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, apperr.Unauthorized("token not provided"))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abort(c, apperr.Forbidden("you are not authorized to access this endpoint"))
	}
}

func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

func abort(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.StatusCode, err)
}

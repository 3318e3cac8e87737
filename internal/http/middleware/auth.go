package middleware

import (
	"context"
	"strings"

	"learnquest/internal/domain"
	"learnquest/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxUser   = "user"
)

// UserResolver turns an access token into its user.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*domain.User, bool)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// JWT requires a valid access token. Every failure gets the same 401 body.
func JWT(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c)
			return
		}
		user, ok := resolver.ResolveUser(c.Request.Context(), token)
		if !ok {
			response.Unauthorized(c)
			return
		}
		c.Set(ctxUserID, user.ID)
		c.Set(ctxUser, user)
		c.Next()
	}
}

// OptionalJWT attaches the user when a valid token is present and never rejects.
func OptionalJWT(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, ok := resolver.ResolveUser(c.Request.Context(), token); ok {
				c.Set(ctxUserID, user.ID)
				c.Set(ctxUser, user)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id set by JWT.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CurrentUser returns the user loaded by JWT at the start of the request.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}

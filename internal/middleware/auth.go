package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	actorKey    = "actor"
	usernameKey = "username"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// UserSyncer mirrors the token's user locally before handlers run.
type UserSyncer interface {
	EnsureUser(ctx context.Context, claims *types.TokenClaims) error
}

// OptionalAuth identifies the caller from a bearer token. Requests without
// a token continue as anonymous; a malformed or invalid token is always
// rejected. Routes that need a user add RequireActor.
func OptionalAuth(validator TokenValidator, syncer UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWith(c, errs.Unauthorized("invalid authorization header format"))
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortWith(c, errs.Unauthorized(err.Error()))
			return
		}
		if syncer != nil {
			if err := syncer.EnsureUser(c.Request.Context(), claims); err != nil {
				abortWith(c, err)
				return
			}
		}

		c.Set(usernameKey, claims.Username)
		c.Set(actorKey, types.Actor{ID: claims.UserID, IsAdmin: claims.IsAdmin})
		c.Next()
	}
}

// RequireActor rejects anonymous requests. It is used on routes mounted
// behind OptionalAuth.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Authenticated() {
			abortWith(c, errs.Unauthorized(""))
			return
		}
		c.Next()
	}
}

// ActorFrom returns the request identity, anonymous when no token was sent.
func ActorFrom(c *gin.Context) types.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(types.Actor); ok {
			return actor
		}
	}
	return types.Actor{}
}

// UserIDFrom returns the authenticated user id, if any.
func UserIDFrom(c *gin.Context) (uuid.UUID, bool) {
	actor := ActorFrom(c)
	return actor.ID, actor.Authenticated()
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	status := errs.StatusOf(err)
	if status >= http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, bodyOf(err))
}

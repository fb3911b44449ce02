package middleware

import (
	"net/http"
	"strings"

	"critichub/internal/api/permission"
	"critichub/internal/api/repository"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// actorFor loads the user record behind the token and builds the
// permission actor from it. Role changes take effect on the next request,
// not on token expiry.
func actorFor(c *gin.Context, authService service.AuthService, userRepo repository.UserRepository, tokenString string) (*permission.Actor, bool) {
	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		return nil, false
	}
	user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, false
	}
	return &permission.Actor{
		ID:        user.ID,
		Role:      user.Role,
		Staff:     user.IsStaff,
		Superuser: user.IsSuperuser,
	}, true
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			c.Abort()
			return
		}

		actor, ok := actorFor(c, authService, userRepo, tokenString)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth resolves an actor when a token is supplied but lets
// anonymous requests through; reads are public and the permission
// evaluator fails closed on anonymous writes.
func OptionalAuth(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			c.Abort()
			return
		}
		actor, ok := actorFor(c, authService, userRepo, tokenString)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// Actor returns the authenticated requester, or nil for anonymous.
func Actor(c *gin.Context) *permission.Actor {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, ok := v.(*permission.Actor)
	if !ok {
		return nil
	}
	return actor
}

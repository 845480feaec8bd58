package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"postboard/internal/core/apperror"
	"postboard/internal/core/policy"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
)

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (policy.Identity, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abort(c, apperror.Unauthenticated("Authentication credentials were not provided."))
			return
		}
		authenticate(c, auth, token)
	}
}

// OptionalJWTAuthMiddleware lets anonymous requests through. A token that is
// present but invalid is still rejected.
func OptionalJWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.Set(identityKey, policy.Anonymous)
			c.Next()
			return
		}
		authenticate(c, auth, token)
	}
}

func authenticate(c *gin.Context, auth Authenticator, token string) {
	identity, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		abort(c, err)
		return
	}
	c.Set(identityKey, identity)
	c.Set(tokenKey, token)
	c.Next()
}

func abort(c *gin.Context, err error) {
	if errors.Is(err, apperror.ErrUnauthenticated) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperror.Message(err, "invalid token")})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// CurrentIdentity returns the identity set by the middleware, or Anonymous.
func CurrentIdentity(c *gin.Context) policy.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return policy.Anonymous
	}
	identity, ok := v.(policy.Identity)
	if !ok {
		return policy.Anonymous
	}
	return identity
}

// CurrentToken returns the raw token of an authenticated request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

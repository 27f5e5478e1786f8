package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/pkg/jwt"
	"github.com/quillspace/core/internal/pkg/response"
)

const (
	// ContextKeyIdentity is the gin context key holding the decoded *jwt.Claims.
	ContextKeyIdentity = "identity"

	// AccessTokenCookie is the cookie checked when no bearer header is present.
	AccessTokenCookie = "access_token"
)

// Auth enforces authentication: it extracts a token from the Authorization
// header or the access_token cookie, verifies it, and attaches the decoded
// identity to the request context. It performs no database access; the
// identity is the issuance-time snapshot.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireIdentity(c)
		if !ok {
			return
		}
		c.Set(ContextKeyIdentity, claims)
		c.Next()
	}
}

// OnlyAdmin enforces authentication plus an admin role on the token
// snapshot. A user promoted after issuance stays non-admin here until they
// log in again.
func OnlyAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireIdentity(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			response.Forbidden(c, "Access denied. Admins only.")
			return
		}
		c.Set(ContextKeyIdentity, claims)
		c.Next()
	}
}

// requireIdentity is the shared verification primitive behind both gates.
// It aborts the request with the appropriate status on failure.
func requireIdentity(c *gin.Context) (*jwt.Claims, bool) {
	token := ExtractToken(c)
	if token == "" {
		response.Forbidden(c, "Unauthorized. Token missing.")
		return nil, false
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			response.Unauthorized(c, "Token has expired. Please login again.")
		} else {
			response.Unauthorized(c, "Invalid token. Unauthorized.")
		}
		return nil, false
	}
	return claims, true
}

// CurrentIdentity returns the decoded identity attached by Auth/OnlyAdmin.
func CurrentIdentity(c *gin.Context) *jwt.Claims {
	v, _ := c.Get(ContextKeyIdentity)
	claims, _ := v.(*jwt.Claims)
	return claims
}

// IsOwnerOrAdmin is the ownership rule shared by blog and comment
// mutations: the caller must be the entity's author or carry the admin
// role. authorID must come from a fresh read of the persisted entity,
// never from a cached value.
func IsOwnerOrAdmin(identity *jwt.Claims, authorID string) bool {
	if identity == nil {
		return false
	}
	return identity.IsAdmin() || identity.UserID == authorID
}

// ExtractToken pulls a candidate token from the request: the Authorization
// bearer header wins, the access_token cookie is the fallback.
func ExtractToken(c *gin.Context) string {
	if token := normalizeToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if raw, err := c.Cookie(AccessTokenCookie); err == nil {
		return normalizeToken(raw)
	}
	return ""
}

// normalizeToken trims spaces and strips an optional Bearer prefix.
func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/quillspace/core/internal/models"
)

const defaultSecret = "quillspace-secret-change-me"

// DefaultTTL is the absolute token lifetime. Tokens are not revocable
// before expiry; the server keeps no per-token state.
const DefaultTTL = 7 * 24 * time.Hour

var secret = []byte(defaultSecret)

// Verification failure kinds. Expired must stay distinguishable from
// malformed so the auth gate can ask the client to re-authenticate.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// SetSecret configures the JWT signing secret (call once on startup).
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// Claims is the signed identity snapshot embedded in every token. Role and
// profile fields reflect the user record at issuance time, not the current
// database row; changes only take effect on re-login.
type Claims struct {
	UserID string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

// IsAdmin reports whether the snapshot role grants admin privileges.
func (c *Claims) IsAdmin() bool { return c.Role == models.RoleAdmin }

// Sign issues a signed token embedding the given user's identity snapshot.
func Sign(u *models.UserModel, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   u.Role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse validates a token string and returns the embedded identity snapshot.
// Returns ErrTokenExpired past expiry and ErrTokenMalformed for any
// signature or structural failure.
func Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

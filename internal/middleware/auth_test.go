package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGateRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		id := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"sub": id.UserID, "role": id.Role})
	})
	return r
}

func signFor(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	u := &models.UserModel{Role: role, Name: "n", Email: "n@example.com"}
	u.ID = "00000000-0000-0000-0000-000000000001"
	token, err := jwt.Sign(u, ttl)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return token
}

func TestAuth_MissingToken(t *testing.T) {
	r := newGateRouter(Auth())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing token, got %d", w.Code)
	}
}

func TestAuth_BearerHeader(t *testing.T) {
	r := newGateRouter(Auth())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, models.RoleUser, time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuth_CookieFallback(t *testing.T) {
	r := newGateRouter(Auth())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signFor(t, models.RoleUser, time.Hour)})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 via cookie, got %d", w.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	r := newGateRouter(Auth())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, models.RoleUser, -time.Minute))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestAuth_MalformedToken(t *testing.T) {
	r := newGateRouter(Auth())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", w.Code)
	}
}

func TestOnlyAdmin_UserRole(t *testing.T) {
	r := newGateRouter(OnlyAdmin())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, models.RoleUser, time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user-role token, got %d", w.Code)
	}
}

func TestOnlyAdmin_AdminRole(t *testing.T) {
	r := newGateRouter(OnlyAdmin())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, models.RoleAdmin, time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin token, got %d", w.Code)
	}
}

func TestIsOwnerOrAdmin(t *testing.T) {
	owner := &jwt.Claims{UserID: "a", Role: models.RoleUser}
	stranger := &jwt.Claims{UserID: "b", Role: models.RoleUser}
	admin := &jwt.Claims{UserID: "c", Role: models.RoleAdmin}

	if !IsOwnerOrAdmin(owner, "a") {
		t.Fatal("author must pass the ownership rule")
	}
	if IsOwnerOrAdmin(stranger, "a") {
		t.Fatal("non-author non-admin must fail the ownership rule")
	}
	if !IsOwnerOrAdmin(admin, "a") {
		t.Fatal("admin must pass the ownership rule")
	}
	if IsOwnerOrAdmin(nil, "a") {
		t.Fatal("nil identity must fail")
	}
}

func TestNormalizeToken(t *testing.T) {
	if got := normalizeToken("  Bearer   abc  "); got != "abc" {
		t.Fatalf("normalizeToken = %q", got)
	}
	if got := normalizeToken("abc"); got != "abc" {
		t.Fatalf("normalizeToken = %q", got)
	}
	if got := normalizeToken("   "); got != "" {
		t.Fatalf("normalizeToken = %q", got)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-admin-secret"

func signToken(t *testing.T, secret, role string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "jane@kiwiclean.co.nz",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminProtected(secret string) http.Handler {
	return AdminJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "no claims", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(claims.Subject))
	}))
}

func TestAdminJWT_ValidToken(t *testing.T) {
	h := adminProtected(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, RoleAdmin, time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jane@kiwiclean.co.nz", rr.Body.String())
}

func TestAdminJWT_MissingHeader(t *testing.T) {
	h := adminProtected(testSecret)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/leads", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminJWT_WrongSecret(t *testing.T) {
	h := adminProtected(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", RoleAdmin, time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminJWT_ExpiredToken(t *testing.T) {
	h := adminProtected(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, RoleAdmin, time.Now().Add(-time.Hour)))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminJWT_NonAdminRoleForbidden(t *testing.T) {
	h := adminProtected(testSecret)

	for _, role := range []string{"", "viewer", "Admin"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, role, time.Now().Add(time.Hour)))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "role %q", role)
	}
}

func TestAdminJWT_EmptySecretRejectsEverything(t *testing.T) {
	h := adminProtected("")

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, RoleAdmin, time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

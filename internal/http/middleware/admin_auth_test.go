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

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminJWTEmptySecretLeavesDashboardOpen(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	AdminJWT("")(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminJWTMissingToken(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	AdminJWT("secret")(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTInvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "wrong", time.Now().Add(5*time.Minute)))
	rec := httptest.NewRecorder()

	called := false
	AdminJWT("secret")(okHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTExpiredToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "secret", time.Now().Add(-time.Minute)))
	rec := httptest.NewRecorder()

	called := false
	AdminJWT("secret")(okHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTValidBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "secret", time.Now().Add(5*time.Minute)))
	rec := httptest.NewRecorder()

	called := false
	AdminJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := AdminClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "sales-admin", claims.Subject)
	})).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminJWTCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: signedAdminToken(t, "secret", time.Now().Add(time.Hour))})
	rec := httptest.NewRecorder()

	called := false
	AdminJWT("secret")(okHandler(&called)).ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestAdminJWTQueryTokenSetsCookie(t *testing.T) {
	token := signedAdminToken(t, "secret", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/admin?token="+token, nil)
	rec := httptest.NewRecorder()

	called := false
	AdminJWT("secret")(okHandler(&called)).ServeHTTP(rec, req)

	require.True(t, called)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AdminTokenCookie, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/admin", cookies[0].Path)
}

func signedAdminToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "sales-admin",
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

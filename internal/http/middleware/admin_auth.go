package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

// AdminTokenCookie carries the admin JWT for browser sessions.
const AdminTokenCookie = "admin_token"

// AdminJWT guards the lead dashboard with an HMAC-signed JWT. The token is
// read from the Authorization bearer header, then the admin_token cookie,
// then a one-off ?token= query parameter which is moved into the cookie. An
// empty secret leaves the dashboard open.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, fromQuery := adminToken(r)
			if tokenString == "" {
				http.Error(w, "missing admin token", http.StatusUnauthorized)
				return
			}
			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if fromQuery {
				setAdminCookie(w, r, tokenString, claims)
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminToken(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")), false
	}
	if c, err := r.Cookie(AdminTokenCookie); err == nil && c.Value != "" {
		return c.Value, false
	}
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t, true
	}
	return "", false
}

func setAdminCookie(w http.ResponseWriter, r *http.Request, token string, claims jwt.RegisteredClaims) {
	c := &http.Cookie{
		Name:     AdminTokenCookie,
		Value:    token,
		Path:     "/admin",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	}
	if claims.ExpiresAt != nil {
		c.Expires = claims.ExpiresAt.Time
		c.MaxAge = int(time.Until(claims.ExpiresAt.Time).Seconds())
	}
	http.SetCookie(w, c)
}

// AdminClaimsFromContext returns admin JWT claims if present.
func AdminClaimsFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(jwt.RegisteredClaims)
	return claims, ok
}

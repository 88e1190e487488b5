package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/socialchef/sous/internal/config"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Identity is the caller described by a verified token.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// AuthMiddleware verifies an HMAC signed bearer token when one is present.
// Requests without an Authorization header pass through anonymously; a
// header that does not verify is rejected.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.JWTSecret == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized: token auth is not configured")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid Authorization header format")
				return
			}

			opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
			if cfg.JWTIssuer != "" {
				opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.JWTSecret), nil
			}, opts...)
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid claims")
				return
			}

			id := Identity{}
			id.Subject, _ = claims["sub"].(string)
			id.Email, _ = claims["email"].(string)
			id.Name, _ = claims["name"].(string)
			if id.Email == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized: Missing email claim")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the verified caller from request context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}

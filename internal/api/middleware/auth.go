package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dom/plantally/internal/domain"
	"github.com/dom/plantally/internal/service"
	"github.com/dom/plantally/internal/store"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionID"
	StoreKey     contextKey = "store"
)

// Auth resolves the bearer token to its session store. The lookup enforces
// demo expiry, so handlers behind it never see an expired trial.
func Auth(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Auth] missing authorization header")
				unauthorized(w, "UNAUTHORIZED", "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.Auth] invalid authorization header format")
				unauthorized(w, "UNAUTHORIZED", "Invalid authorization header")
				return
			}

			claims, err := sessions.ValidateToken(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				unauthorized(w, "UNAUTHORIZED", "Invalid token")
				return
			}

			st, err := sessions.Lookup(r.Context(), claims.SessionID)
			if err != nil {
				if errors.Is(err, domain.ErrSessionExpired) {
					unauthorized(w, "SESSION_EXPIRED", "Demo session expired")
					return
				}
				log.Printf("ERROR [middleware.Auth] session lookup failed: %v", err)
				unauthorized(w, "UNAUTHORIZED", "Session not found")
				return
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, claims.SessionID)
			ctx = context.WithValue(ctx, StoreKey, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}

func GetStore(ctx context.Context) (*store.Store, bool) {
	st, ok := ctx.Value(StoreKey).(*store.Store)
	return st, ok
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/tenant"
)

type contextKey string

const resolvedContextKey contextKey = "resolved_context"

// Auth extracts the session token, runs the franchise context resolver, and
// stores the ResolvedContext for handlers. Requests that fail resolution
// never reach a handler, so handlers can assume a bound scope exists.
func Auth(resolver *tenant.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)

			rctx, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				writeContextError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), resolvedContextKey, rctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken checks the Authorization header (API requests), the token
// cookie (web clients), then X-Auth-Token (localStorage fallback for AJAX).
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return r.Header.Get("X-Auth-Token")
}

// writeContextError maps the resolver's closed error set to status codes.
// Messages stay generic; store detail goes to logs, never to clients.
func writeContextError(w http.ResponseWriter, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, tenant.ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, tenant.ErrProfileNotFound):
		status, msg = http.StatusNotFound, "Profile not found"
	case errors.Is(err, tenant.ErrNoActiveMembership):
		status, msg = http.StatusForbidden, "No active franchise membership"
	case errors.Is(err, tenant.ErrBackendUnavailable):
		status, msg = http.StatusBadGateway, "Service temporarily unavailable"
	default:
		status, msg = http.StatusInternalServerError, "Internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: msg})
}

// GetContext returns the request's ResolvedContext, or nil when the Auth
// middleware did not run.
func GetContext(ctx context.Context) *tenant.ResolvedContext {
	if rctx, ok := ctx.Value(resolvedContextKey).(*tenant.ResolvedContext); ok {
		return rctx
	}
	return nil
}

// RequireManager rejects drivers; owner and manager roles pass.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := GetContext(r.Context())
		if rctx == nil || !rctx.Role.CanManage() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "Forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Package middleware provides the HTTP middleware shared by the dashboard and
// the inventory API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/stockroom/pkg/auth"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/response"
)

// Auth rejects requests without a valid bearer token.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("auth: rejected token", "error", err)
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		log := logger.WithCtx(r.Context()).With("subject", claims.Subject)
		next.ServeHTTP(w, r.WithContext(logger.InjectLogger(r.Context(), log)))
	})
}

// AuthIf returns Auth when enabled and a pass-through otherwise.
func AuthIf(enabled bool) func(http.Handler) http.Handler {
	if enabled {
		return Auth
	}
	return func(next http.Handler) http.Handler { return next }
}

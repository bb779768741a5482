package web

import (
	"net/http"

	"github.com/JonMunkholm/motorlab/internal/core"
)

// withClientIP stores the resolved client address for service logs.
func withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithClientIP(r.Context(), clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

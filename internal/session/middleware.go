package session

import (
	"net/http"

	"github.com/nutrihaven/storefront/internal/common"
)

// Middleware resolves the signed-in session and, when present, stores the
// display name on the request context. Requests proceed either way; handlers
// that need a session check the context themselves.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name, err := m.UserName(ctx)
		if err == nil && name != "" {
			ctx = common.WithUserID(ctx, name)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

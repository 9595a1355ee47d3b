package middleware

import (
	"net/http"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// RequireCapability rejects requests whose caller's role does not grant the
// capability: 401 for anonymous callers, 403 otherwise. The role-to-
// capability mapping is policy data behind the resolver, never hardcoded
// here.
func RequireCapability(resolver domain.CapabilityResolver, cap domain.Capability) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := ctxutil.RoleFromCtx(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !resolver.HasCapability(role, cap) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

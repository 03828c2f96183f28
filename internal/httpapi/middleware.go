package httpapi

import (
	"net/http"

	"github.com/tastybites/ordering/internal/session"
)

// HeaderAuthMiddleware resolves the principal from the X-User-ID header.
// Stand-in for real JWT validation: in production the principal would come
// from parsing and validating the token claims.
func HeaderAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			ctx := session.WithPrincipal(r.Context(), session.Principal(userID))
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type clinicSlugCtxKey struct{}

// ClinicSlug is middleware for clinic-scoped routes. It lifts the {slug}
// URL parameter into the request context so handlers and the cache policy
// can tag entries per clinic without re-parsing the URL.
func ClinicSlug(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		ctx := context.WithValue(r.Context(), clinicSlugCtxKey{}, slug)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClinicSlugFromContext returns the clinic slug stored in ctx, or "" when
// the route is not clinic-scoped.
func ClinicSlugFromContext(ctx context.Context) string {
	slug, _ := ctx.Value(clinicSlugCtxKey{}).(string)
	return slug
}

// Package resolve keeps the active clinic synchronized with the current
// navigation path.
//
// The decision logic is a pure function over (path, directory snapshot);
// the navigation side effect is injected, so resolution is testable without
// any routing framework.
package resolve

import "strings"

const clinicPrefix = "/clinic/"

// Route is the classification of one navigation path.
// Global routes (login, contact, ...) carry no slug and never redirect.
type Route struct {
	Slug   string // empty for global routes
	Suffix string // path remainder after the slug, begins with "/" or is empty
}

// TenantScoped reports whether the route addresses a specific clinic.
func (r Route) TenantScoped() bool { return r.Slug != "" }

// ParseRoute classifies path. Clinic-scoped paths have the shape
// /clinic/{slug}[/suffix]; everything else is global.
func ParseRoute(path string) Route {
	if !strings.HasPrefix(path, clinicPrefix) {
		return Route{}
	}
	rest := path[len(clinicPrefix):]
	if rest == "" {
		return Route{}
	}
	slug, suffix, found := strings.Cut(rest, "/")
	if slug == "" {
		return Route{}
	}
	if found {
		suffix = "/" + suffix
	}
	return Route{Slug: slug, Suffix: suffix}
}

// ClinicPath builds the clinic-scoped path for slug with the given suffix.
func ClinicPath(slug, suffix string) string {
	return clinicPrefix + slug + suffix
}

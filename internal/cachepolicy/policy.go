// Package cachepolicy maps upstream resource classes to cache directives.
//
// Directives are fixed per resource class at compile time. For a GET the
// directive depends only on the resource class and, for clinic-scoped
// resources, the clinic slug. Mutations never cache.
package cachepolicy

import "time"

// Class identifies an upstream resource collection.
type Class string

// Resource classes proxied by the gateway.
const (
	Appointments Class = "appointments"
	Clients      Class = "clients"
	Clinics      Class = "clinics"
	Orders       Class = "orders"
)

// Directive tells the gateway how to cache one response.
// A zero RevalidateAfter with Disabled set means "never cache".
type Directive struct {
	RevalidateAfter time.Duration
	Disabled        bool
	Tags            []string
}

// StaleWhileRevalidate is the window during which a stale response may still
// be served while a fresh one is fetched. Fixed at half the revalidation
// window for every resource class.
func (d Directive) StaleWhileRevalidate() time.Duration {
	return d.RevalidateAfter / 2
}

// ForGet returns the directive for a GET against the given resource class.
// slug scopes the directive to one clinic; it only affects classes that
// carry a per-clinic tag and is ignored otherwise.
func ForGet(class Class, slug string) Directive {
	switch class {
	case Appointments:
		return Directive{RevalidateAfter: 60 * time.Second, Tags: []string{"appointments"}}
	case Clients:
		tags := []string{"clients"}
		if slug != "" {
			tags = append(tags, ClinicTag(slug))
		}
		return Directive{RevalidateAfter: 300 * time.Second, Tags: tags}
	case Clinics:
		return Directive{RevalidateAfter: 3600 * time.Second, Tags: []string{"clinics"}}
	case Orders:
		return Directive{RevalidateAfter: 180 * time.Second, Tags: []string{"orders"}}
	}
	// Unknown classes are never cached.
	return Directive{Disabled: true}
}

// ForMutation returns the directive for any POST/PUT/DELETE: caching
// disabled, no tags.
func ForMutation() Directive {
	return Directive{Disabled: true}
}

// InvalidationTags returns the tags to drop after a successful mutation on
// the given resource class. slug adds the per-clinic tag when known.
func InvalidationTags(class Class, slug string) []string {
	d := ForGet(class, slug)
	return d.Tags
}

// ClinicTag returns the cache tag grouping all entries for one clinic.
func ClinicTag(slug string) string {
	return "clinic-" + slug
}

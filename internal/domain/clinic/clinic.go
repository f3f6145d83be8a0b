// Package clinic defines the clinic (tenant) domain model.
package clinic

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a clinic.
type Status string

// Clinic lifecycle states as reported by the upstream backend.
const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusHistorical Status = "historical"
	StatusNoData     Status = "no-data"
)

// Known reports whether s is one of the defined lifecycle states.
func (s Status) Known() bool {
	switch s {
	case StatusActive, StatusInactive, StatusHistorical, StatusNoData:
		return true
	}
	return false
}

// Clinic represents one clinic location. Name doubles as the unique,
// URL-safe slug used in tenant-scoped paths.
type Clinic struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	BackendName string   `json:"backendName,omitempty"`
	Address     Address  `json:"address"`
	Status      Status   `json:"status"`
	Metrics     *Metrics `json:"metrics,omitempty"`
}

// Address holds the clinic's postal address.
type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
}

// Metrics holds optional activity counters reported by the backend.
type Metrics struct {
	Appointments int        `json:"appointmentCount"`
	Clients      int        `json:"clientCount"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

// Slug returns the clinic's URL identifier.
func (c Clinic) Slug() string { return c.Name }

// ValidSlug reports whether s is non-empty and URL-safe: lowercase letters,
// digits and hyphens only.
func ValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, "-") && !strings.HasSuffix(s, "-")
}

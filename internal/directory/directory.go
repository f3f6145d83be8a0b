// Package directory loads and holds the clinic set for the session.
//
// The loaded set is shared read-only state: the only writer is LoadAll, and
// concurrent load triggers are coalesced into a single upstream fetch so the
// set never reflects two interleaved loads.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/careport/clinicgate/internal/domain"
	"github.com/careport/clinicgate/internal/domain/clinic"
)

// Fetcher retrieves the full clinic set from the gateway's clinics endpoint.
type Fetcher interface {
	FetchClinics(ctx context.Context) ([]clinic.Clinic, error)
}

// Directory holds the loaded clinic set and answers slug lookups.
type Directory struct {
	fetcher Fetcher
	log     *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	clinics []clinic.Clinic
	bySlug  map[string]int
	loaded  bool
	loadErr error
}

// New creates an empty directory. Lookups against it fail until LoadAll
// succeeds.
func New(fetcher Fetcher, log *slog.Logger) *Directory {
	if log == nil {
		log = slog.Default()
	}
	return &Directory{fetcher: fetcher, log: log}
}

// LoadAll fetches the clinic set. Concurrent callers share one in-flight
// fetch. On failure the directory keeps an empty set and records the error;
// the error is returned rather than panicking so callers handle the
// no-tenant case explicitly. LoadAll never retries on its own.
func (d *Directory) LoadAll(ctx context.Context) error {
	_, err, _ := d.group.Do("load", func() (any, error) {
		clinics, err := d.fetcher.FetchClinics(ctx)

		d.mu.Lock()
		defer d.mu.Unlock()
		d.loaded = true
		if err != nil {
			d.clinics = nil
			d.bySlug = nil
			d.loadErr = fmt.Errorf("%w: %w", domain.ErrDirectoryUnavailable, err)
			d.log.Error("clinic directory load failed", "error", err)
			return nil, d.loadErr
		}

		d.clinics = clinics
		d.bySlug = make(map[string]int, len(clinics))
		for i, c := range clinics {
			d.bySlug[c.Slug()] = i
		}
		d.loadErr = nil
		d.log.Info("clinic directory loaded", "clinics", len(clinics))
		return nil, nil
	})
	return err
}

// BySlug returns the clinic with the given slug. The second return is false
// when the slug is unknown; a miss never triggers a re-fetch.
func (d *Directory) BySlug(slug string) (clinic.Clinic, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.bySlug[slug]
	if !ok {
		return clinic.Clinic{}, false
	}
	return d.clinics[i], true
}

// DefaultActive returns the first clinic with active status, else the first
// clinic in directory order, else not-found.
func (d *Directory) DefaultActive() (clinic.Clinic, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.clinics {
		if c.Status == clinic.StatusActive {
			return c, true
		}
	}
	if len(d.clinics) > 0 {
		return d.clinics[0], true
	}
	return clinic.Clinic{}, false
}

// Clinics returns a copy of the loaded set in directory order.
func (d *Directory) Clinics() []clinic.Clinic {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]clinic.Clinic, len(d.clinics))
	copy(out, d.clinics)
	return out
}

// Loaded reports whether an initial load has completed, successfully or not.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// LoadErr returns the error recorded by the last load, if any.
func (d *Directory) LoadErr() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadErr
}

// Empty reports whether the directory holds no clinics.
func (d *Directory) Empty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clinics) == 0
}

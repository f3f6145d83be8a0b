package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/careport/clinicgate/internal/directory"
	"github.com/careport/clinicgate/internal/domain"
	"github.com/careport/clinicgate/internal/domain/clinic"
)

// State is the resolution lifecycle state.
type State int

// Resolution states. Loading holds until the directory's first load
// completes; Unresolved is terminal for the session until a caller retries
// the load.
const (
	StateLoading State = iota
	StateResolved
	StateRedirecting
	StateUnresolved
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateResolved:
		return "resolved"
	case StateRedirecting:
		return "redirecting"
	case StateUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// Snapshot is the read-only directory view the decision function needs.
type Snapshot interface {
	BySlug(slug string) (clinic.Clinic, bool)
	DefaultActive() (clinic.Clinic, bool)
	Empty() bool
	LoadErr() error
}

// Decision is the outcome of resolving one path against one snapshot.
// Redirect is non-empty only in the Redirecting state.
type Decision struct {
	State    State
	Tenant   clinic.Clinic
	Redirect string
	Err      error
}

// Decide resolves path against the directory snapshot. It is pure: no
// navigation, no loading, no shared state.
//
// A redirect always targets the default-active clinic, whose slug comes from
// the directory itself, so a redirect target can never be invalid in the
// same snapshot and loops cannot form.
func Decide(path string, dir Snapshot) Decision {
	if dir.Empty() {
		err := dir.LoadErr()
		if err == nil {
			err = domain.ErrDirectoryUnavailable
		}
		return Decision{State: StateUnresolved, Err: err}
	}

	rt := ParseRoute(path)
	if !rt.TenantScoped() {
		def, _ := dir.DefaultActive()
		return Decision{State: StateResolved, Tenant: def}
	}

	if c, ok := dir.BySlug(rt.Slug); ok {
		return Decision{State: StateResolved, Tenant: c}
	}

	def, _ := dir.DefaultActive()
	return Decision{
		State:    StateRedirecting,
		Tenant:   def,
		Redirect: ClinicPath(def.Slug(), rt.Suffix),
	}
}

// SwitchTarget computes the URL for switching to target while staying on the
// equivalent page: the slug is substituted into a clinic-scoped path, and a
// global path lands on the target clinic's root.
func SwitchTarget(target clinic.Clinic, currentPath string) string {
	rt := ParseRoute(currentPath)
	if rt.TenantScoped() {
		return ClinicPath(target.Slug(), rt.Suffix)
	}
	return ClinicPath(target.Slug(), "")
}

// Navigator issues a navigation side effect (a redirect).
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(target string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(target string) { f(target) }

// Machine drives resolution: it waits for the directory load, applies the
// pure decision, and performs the navigation side effect on redirects.
type Machine struct {
	dir *directory.Directory
	nav Navigator
	log *slog.Logger

	mu      sync.Mutex
	state   State
	current clinic.Clinic
	err     error
}

// NewMachine creates a machine in the Loading state.
func NewMachine(dir *directory.Directory, nav Navigator, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{dir: dir, nav: nav, log: log, state: StateLoading}
}

// Start performs the initial directory load and resolves path. Load failure
// is not retried here; callers decide the retry policy and call Start again.
func (m *Machine) Start(ctx context.Context, path string) Decision {
	// Load errors surface through the decision, not as a Start failure.
	_ = m.dir.LoadAll(ctx)
	return m.Resolve(path)
}

// Resolve applies the decision for path, navigating when it demands a
// redirect, and settles the machine in Resolved or Unresolved.
func (m *Machine) Resolve(path string) Decision {
	d := Decide(path, m.dir)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch d.State {
	case StateRedirecting:
		m.log.Info("redirecting to default clinic",
			"path", path, "target", d.Redirect, "clinic", d.Tenant.Slug())
		if m.nav != nil {
			m.nav.Navigate(d.Redirect)
		}
		m.state = StateResolved
		m.current = d.Tenant
		m.err = nil
	case StateResolved:
		m.state = StateResolved
		m.current = d.Tenant
		m.err = nil
	case StateUnresolved:
		m.state = StateUnresolved
		m.current = clinic.Clinic{}
		m.err = d.Err
	}
	return d
}

// Switch changes the active clinic on explicit user action. The target URL
// keeps the current page when currentPath is clinic-scoped. Unknown slugs
// return domain.ErrTenantNotFound without navigating.
func (m *Machine) Switch(slug, currentPath string) (string, error) {
	target, ok := m.dir.BySlug(slug)
	if !ok {
		return "", fmt.Errorf("switch to %q: %w", slug, domain.ErrTenantNotFound)
	}

	url := SwitchTarget(target, currentPath)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav != nil {
		m.nav.Navigate(url)
	}
	m.state = StateResolved
	m.current = target
	m.err = nil
	return url, nil
}

// Current returns the machine state, the active clinic (valid only in
// Resolved) and the resolution error (set only in Unresolved).
func (m *Machine) Current() (State, clinic.Clinic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.current, m.err
}

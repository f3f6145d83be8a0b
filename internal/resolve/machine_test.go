package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/careport/clinicgate/internal/directory"
	"github.com/careport/clinicgate/internal/domain"
	"github.com/careport/clinicgate/internal/domain/clinic"
	"github.com/careport/clinicgate/internal/resolve"
)

type stubFetcher struct {
	clinics []clinic.Clinic
	err     error
}

func (s *stubFetcher) FetchClinics(_ context.Context) ([]clinic.Clinic, error) {
	return s.clinics, s.err
}

func loadedDir(t *testing.T, clinics []clinic.Clinic) *directory.Directory {
	t.Helper()
	d := directory.New(&stubFetcher{clinics: clinics}, nil)
	if err := d.LoadAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	return d
}

func twoClinics() []clinic.Clinic {
	return []clinic.Clinic{
		{ID: 1, Name: "a", Status: clinic.StatusActive},
		{ID: 2, Name: "b", Status: clinic.StatusHistorical},
	}
}

func TestDecideKnownSlug(t *testing.T) {
	d := loadedDir(t, twoClinics())

	// Historical clinics are still addressable; no redirect.
	dec := resolve.Decide("/clinic/b/clients", d)
	if dec.State != resolve.StateResolved {
		t.Fatalf("state = %v, want resolved", dec.State)
	}
	if dec.Tenant.Name != "b" {
		t.Errorf("tenant = %q, want b", dec.Tenant.Name)
	}
	if dec.Redirect != "" {
		t.Errorf("unexpected redirect %q", dec.Redirect)
	}
}

func TestDecideUnknownSlugRedirects(t *testing.T) {
	d := loadedDir(t, twoClinics())

	dec := resolve.Decide("/clinic/z/clients", d)
	if dec.State != resolve.StateRedirecting {
		t.Fatalf("state = %v, want redirecting", dec.State)
	}
	if dec.Redirect != "/clinic/a/clients" {
		t.Errorf("redirect = %q, want /clinic/a/clients", dec.Redirect)
	}
	if dec.Tenant.Name != "a" {
		t.Errorf("tenant = %q, want default a", dec.Tenant.Name)
	}
}

func TestDecideGlobalPath(t *testing.T) {
	d := loadedDir(t, twoClinics())

	dec := resolve.Decide("/login", d)
	if dec.State != resolve.StateResolved {
		t.Fatalf("state = %v, want resolved", dec.State)
	}
	if dec.Tenant.Name != "a" {
		t.Errorf("tenant = %q, want default a", dec.Tenant.Name)
	}
	if dec.Redirect != "" {
		t.Error("global paths never redirect")
	}
}

func TestDecideEmptyDirectory(t *testing.T) {
	d := directory.New(&stubFetcher{err: errors.New("boom")}, nil)
	_ = d.LoadAll(context.Background())

	dec := resolve.Decide("/clinic/a/clients", d)
	if dec.State != resolve.StateUnresolved {
		t.Fatalf("state = %v, want unresolved", dec.State)
	}
	if dec.Redirect != "" {
		t.Error("empty directory must never redirect")
	}
	if !errors.Is(dec.Err, domain.ErrDirectoryUnavailable) {
		t.Errorf("err = %v, want ErrDirectoryUnavailable", dec.Err)
	}
}

func TestDecideRedirectTargetIsStable(t *testing.T) {
	d := loadedDir(t, twoClinics())

	dec := resolve.Decide("/clinic/z/clients", d)
	// Resolving the redirect target again must not redirect: no loops.
	dec2 := resolve.Decide(dec.Redirect, d)
	if dec2.State != resolve.StateResolved {
		t.Fatalf("redirect target resolved to %v, want resolved", dec2.State)
	}
	if dec2.Redirect != "" {
		t.Error("redirect loop detected")
	}
}

func TestMachineStartRedirects(t *testing.T) {
	dir := directory.New(&stubFetcher{clinics: twoClinics()}, nil)

	var navigated []string
	m := resolve.NewMachine(dir, resolve.NavigatorFunc(func(target string) {
		navigated = append(navigated, target)
	}), nil)

	if st, _, _ := m.Current(); st != resolve.StateLoading {
		t.Fatalf("initial state = %v, want loading", st)
	}

	dec := m.Start(context.Background(), "/clinic/z/orders")
	if dec.State != resolve.StateRedirecting {
		t.Fatalf("decision state = %v", dec.State)
	}
	if len(navigated) != 1 || navigated[0] != "/clinic/a/orders" {
		t.Fatalf("navigations = %v", navigated)
	}

	st, cur, err := m.Current()
	if st != resolve.StateResolved || cur.Name != "a" || err != nil {
		t.Fatalf("settled at %v/%q/%v, want resolved/a/nil", st, cur.Name, err)
	}
}

func TestMachineUnresolvedOnLoadFailure(t *testing.T) {
	dir := directory.New(&stubFetcher{err: errors.New("backend down")}, nil)

	var navigated int
	m := resolve.NewMachine(dir, resolve.NavigatorFunc(func(string) { navigated++ }), nil)

	dec := m.Start(context.Background(), "/clinic/a/clients")
	if dec.State != resolve.StateUnresolved {
		t.Fatalf("state = %v, want unresolved", dec.State)
	}
	if navigated != 0 {
		t.Error("must not navigate without a valid target")
	}

	st, _, err := m.Current()
	if st != resolve.StateUnresolved || err == nil {
		t.Fatalf("settled at %v/%v, want unresolved with error", st, err)
	}
}

func TestMachineSwitch(t *testing.T) {
	dir := directory.New(&stubFetcher{clinics: twoClinics()}, nil)
	_ = dir.LoadAll(context.Background())

	var navigated []string
	m := resolve.NewMachine(dir, resolve.NavigatorFunc(func(target string) {
		navigated = append(navigated, target)
	}), nil)

	url, err := m.Switch("b", "/clinic/a/clients")
	if err != nil {
		t.Fatal(err)
	}
	if url != "/clinic/b/clients" {
		t.Errorf("url = %q, want slug substituted", url)
	}

	// From a global path, switching lands on the clinic root.
	url, err = m.Switch("a", "/contact")
	if err != nil {
		t.Fatal(err)
	}
	if url != "/clinic/a" {
		t.Errorf("url = %q, want clinic root", url)
	}

	if len(navigated) != 2 {
		t.Fatalf("navigations = %v", navigated)
	}

	_, cur, _ := m.Current()
	if cur.Name != "a" {
		t.Errorf("current = %q, want a", cur.Name)
	}
}

func TestMachineSwitchUnknownSlug(t *testing.T) {
	dir := directory.New(&stubFetcher{clinics: twoClinics()}, nil)
	_ = dir.LoadAll(context.Background())

	var navigated int
	m := resolve.NewMachine(dir, resolve.NavigatorFunc(func(string) { navigated++ }), nil)

	_, err := m.Switch("nowhere", "/clinic/a/clients")
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("err = %v, want ErrTenantNotFound", err)
	}
	if navigated != 0 {
		t.Error("failed switch must not navigate")
	}
}

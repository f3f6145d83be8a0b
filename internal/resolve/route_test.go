package resolve

import "testing"

func TestParseRoute(t *testing.T) {
	tests := []struct {
		path       string
		wantSlug   string
		wantSuffix string
	}{
		{"/clinic/downtown/clients", "downtown", "/clients"},
		{"/clinic/downtown/orders/15", "downtown", "/orders/15"},
		{"/clinic/downtown", "downtown", ""},
		{"/clinic/downtown/", "downtown", "/"},
		{"/login", "", ""},
		{"/contact", "", ""},
		{"/", "", ""},
		{"/clinic/", "", ""},
		{"/clinics/downtown", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rt := ParseRoute(tt.path)
			if rt.Slug != tt.wantSlug {
				t.Errorf("slug = %q, want %q", rt.Slug, tt.wantSlug)
			}
			if rt.Suffix != tt.wantSuffix {
				t.Errorf("suffix = %q, want %q", rt.Suffix, tt.wantSuffix)
			}
			if rt.TenantScoped() != (tt.wantSlug != "") {
				t.Errorf("TenantScoped = %v", rt.TenantScoped())
			}
		})
	}
}

func TestClinicPath(t *testing.T) {
	if got := ClinicPath("uptown", "/clients"); got != "/clinic/uptown/clients" {
		t.Errorf("got %q", got)
	}
	if got := ClinicPath("uptown", ""); got != "/clinic/uptown" {
		t.Errorf("got %q", got)
	}
}

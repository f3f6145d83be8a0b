package cachepolicy

import (
	"testing"
	"time"
)

func TestForGetTable(t *testing.T) {
	tests := []struct {
		class    Class
		slug     string
		wantTTL  time.Duration
		wantTags []string
	}{
		{Appointments, "", 60 * time.Second, []string{"appointments"}},
		{Clients, "downtown", 300 * time.Second, []string{"clients", "clinic-downtown"}},
		{Clients, "", 300 * time.Second, []string{"clients"}},
		{Clinics, "", 3600 * time.Second, []string{"clinics"}},
		{Orders, "", 180 * time.Second, []string{"orders"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			d := ForGet(tt.class, tt.slug)
			if d.Disabled {
				t.Fatal("GET directive must not be disabled")
			}
			if d.RevalidateAfter != tt.wantTTL {
				t.Errorf("ttl = %v, want %v", d.RevalidateAfter, tt.wantTTL)
			}
			if len(d.Tags) != len(tt.wantTags) {
				t.Fatalf("tags = %v, want %v", d.Tags, tt.wantTags)
			}
			for i := range d.Tags {
				if d.Tags[i] != tt.wantTags[i] {
					t.Errorf("tags = %v, want %v", d.Tags, tt.wantTags)
				}
			}
		})
	}
}

func TestForGetUnknownClass(t *testing.T) {
	if d := ForGet(Class("payments"), ""); !d.Disabled {
		t.Error("unknown class must not be cached")
	}
}

func TestForMutation(t *testing.T) {
	d := ForMutation()
	if !d.Disabled {
		t.Error("mutations must disable caching")
	}
	if len(d.Tags) != 0 {
		t.Errorf("mutations carry no tags, got %v", d.Tags)
	}
}

func TestStaleWhileRevalidate(t *testing.T) {
	d := ForGet(Appointments, "")
	if got := d.StaleWhileRevalidate(); got != 30*time.Second {
		t.Errorf("swr = %v, want 30s", got)
	}
}

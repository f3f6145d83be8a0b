package tagcache

import (
	"context"
	"sync"
	"testing"
	"time"
)

// memCache is a minimal in-memory implementation of the cache port.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestKey(t *testing.T) {
	if got := Key("GET", "/api/v1/orders", ""); got != "GET /api/v1/orders" {
		t.Errorf("unexpected key %q", got)
	}
	if got := Key("GET", "/api/v1/orders", "page=2&limit=10"); got != "GET /api/v1/orders?page=2&limit=10" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(newMemCache())

	e := Entry{Status: 200, ContentType: "application/json", Body: []byte(`{"success":true}`)}
	key := Key("GET", "/api/v1/appointments", "")
	if err := c.Set(ctx, key, e, time.Minute, []string{"appointments"}); err != nil {
		t.Fatal(err)
	}

	got, found, err := c.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected hit after Set")
	}
	if got.Status != 200 || string(got.Body) != `{"success":true}` {
		t.Errorf("unexpected entry %+v", got)
	}
}

func TestInvalidateByTag(t *testing.T) {
	ctx := context.Background()
	c := New(newMemCache())

	apptKey := Key("GET", "/api/v1/appointments", "")
	orderKey := Key("GET", "/api/v1/orders", "")
	_ = c.Set(ctx, apptKey, Entry{Status: 200}, time.Minute, []string{"appointments"})
	_ = c.Set(ctx, orderKey, Entry{Status: 200}, time.Minute, []string{"orders"})

	if err := c.Invalidate(ctx, "appointments"); err != nil {
		t.Fatal(err)
	}

	if _, found, _ := c.Get(ctx, apptKey); found {
		t.Error("expected appointments entry dropped")
	}
	if _, found, _ := c.Get(ctx, orderKey); !found {
		t.Error("expected orders entry untouched")
	}
}

func TestInvalidateClinicTag(t *testing.T) {
	ctx := context.Background()
	c := New(newMemCache())

	k1 := Key("GET", "/api/v1/clients/clinic/downtown", "")
	k2 := Key("GET", "/api/v1/clients/clinic/uptown", "")
	_ = c.Set(ctx, k1, Entry{Status: 200}, time.Minute, []string{"clients", "clinic-downtown"})
	_ = c.Set(ctx, k2, Entry{Status: 200}, time.Minute, []string{"clients", "clinic-uptown"})

	_ = c.Invalidate(ctx, "clinic-downtown")

	if _, found, _ := c.Get(ctx, k1); found {
		t.Error("expected downtown entry dropped")
	}
	if _, found, _ := c.Get(ctx, k2); !found {
		t.Error("expected uptown entry kept")
	}
}

func TestCorruptEntryTreatedAsMiss(t *testing.T) {
	ctx := context.Background()
	store := newMemCache()
	c := New(store)

	key := Key("GET", "/api/v1/orders", "")
	_ = store.Set(ctx, key, []byte("not json"), time.Minute)

	_, found, err := c.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("corrupt entry must be a miss")
	}
	if _, ok := store.data[key]; ok {
		t.Error("corrupt entry must be evicted")
	}
}

package nats

import (
	"context"
	"os"
	"testing"
	"time"
)

// testConnect connects to NATS or skips the test if NATS_URL is not set.
func testConnect(t *testing.T) *Conn {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("requires NATS_URL")
	}

	c, err := Connect(url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return c
}

func TestConn_KeyValueRoundTrip(t *testing.T) {
	c := testConnect(t)
	ctx := context.Background()

	kv, err := c.KeyValue(ctx, "clinicgate-test", time.Minute)
	if err != nil {
		t.Fatalf("KeyValue: %v", err)
	}

	key := "entry." + t.Name()
	if _, err := kv.Put(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, err := kv.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(entry.Value()) != "v1" {
		t.Errorf("value = %q, want v1", entry.Value())
	}

	if err := kv.Delete(ctx, key); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestConn_KeyValueIdempotentCreate(t *testing.T) {
	c := testConnect(t)
	ctx := context.Background()

	if _, err := c.KeyValue(ctx, "clinicgate-test", time.Minute); err != nil {
		t.Fatalf("first KeyValue: %v", err)
	}
	if _, err := c.KeyValue(ctx, "clinicgate-test", time.Minute); err != nil {
		t.Errorf("second KeyValue: %v", err)
	}
}

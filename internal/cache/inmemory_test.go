package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/oriys/quasar/internal/engine"
)

func TestInMemoryStatusCacheSetGet(t *testing.T) {
	c := NewInMemoryStatusCache(time.Minute)
	defer c.Close()

	status := &engine.SSLStatus{IsEnabled: true, Mode: "verify-identity"}
	if err := c.Set("fp1", status); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get("fp1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.IsEnabled || got.Mode != "verify-identity" {
		t.Errorf("got %+v, want %+v", got, status)
	}

	// Mutating the returned value must not affect the cached copy.
	got.Mode = "mutated"
	again, err := c.Get("fp1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Mode != "verify-identity" {
		t.Errorf("cached value mutated through returned pointer: %+v", again)
	}
}

func TestInMemoryStatusCacheMiss(t *testing.T) {
	c := NewInMemoryStatusCache(time.Minute)
	defer c.Close()

	if _, err := c.Get("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(absent) = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStatusCacheExpiry(t *testing.T) {
	c := NewInMemoryStatusCache(20 * time.Millisecond)
	defer c.Close()

	if err := c.Set("fp1", &engine.SSLStatus{IsEnabled: true, Mode: "required"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := c.Get("fp1"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	time.Sleep(40 * time.Millisecond)
	if _, err := c.Get("fp1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after expiry = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStatusCacheDelete(t *testing.T) {
	c := NewInMemoryStatusCache(time.Minute)
	defer c.Close()

	if err := c.Set("fp1", &engine.SSLStatus{Mode: "enabled"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete("fp1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get("fp1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	if err := c.Delete("absent"); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestInMemoryStatusCacheClose(t *testing.T) {
	c := NewInMemoryStatusCache(time.Minute)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := c.Set("fp1", &engine.SSLStatus{}); err != nil {
		t.Errorf("Set after Close = %v, want nil no-op", err)
	}
}

func TestInMemoryStatusCacheDefaultTTL(t *testing.T) {
	c := NewInMemoryStatusCache(0)
	defer c.Close()
	if c.ttl != DefaultStatusTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultStatusTTL)
	}
}

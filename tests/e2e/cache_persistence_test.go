package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tinyland-inc/bridgeclaw/pkg/webhookcache"
)

// TestCachePersistence verifies that provisioned webhook endpoints survive
// a process restart: entries written by one cache instance are visible to
// a fresh instance over the same file.
func TestCachePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dg_data.json")
	store := webhookcache.NewFileStore(path)

	first := webhookcache.New(store)
	if err := first.Put("G1", "u1", "https://hooks.test/1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := first.Put("G1", "u2", "https://hooks.test/2"); err != nil {
		t.Fatalf("put: %v", err)
	}

	second := webhookcache.New(webhookcache.NewFileStore(path))
	if second.Len() != 2 {
		t.Fatalf("reloaded cache size: got %d, want 2", second.Len())
	}
	endpoint, ok := second.Get("G1", "u2")
	if !ok || endpoint != "https://hooks.test/2" {
		t.Errorf("reloaded entry: got %q (%v)", endpoint, ok)
	}
}

// TestCachePersistence_CorruptFile verifies a damaged cache file degrades
// to an empty cache instead of preventing startup. Re-provisioned entries
// then overwrite the damaged file.
func TestCachePersistence_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gd_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := webhookcache.New(webhookcache.NewFileStore(path))
	if cache.Len() != 0 {
		t.Fatalf("corrupt file should yield empty cache, got %d entries", cache.Len())
	}

	if err := cache.Put("D1", "u1", "https://hooks.test/9"); err != nil {
		t.Fatalf("put after corruption: %v", err)
	}

	reloaded := webhookcache.New(webhookcache.NewFileStore(path))
	endpoint, ok := reloaded.Get("D1", "u1")
	if !ok || endpoint != "https://hooks.test/9" {
		t.Errorf("recovered entry: got %q (%v)", endpoint, ok)
	}
}

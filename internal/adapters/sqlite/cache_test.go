package sqlite

import (
	"testing"

	"figvault/internal/domain"
)

func openTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	root := t.TempDir()
	c := NewCache()
	if err := c.Open(root); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, root
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := openTestCache(t)
	digest := domain.DigestOf([]byte("font data"))

	if _, ok := c.Get("a.flf", 100, 2000); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Put("a.flf", 100, 2000, digest); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok := c.Get("a.flf", 100, 2000)
	if !ok || got != digest {
		t.Fatalf("Get = %v, %v", got, ok)
	}
}

func TestCache_StaleMetadataMisses(t *testing.T) {
	c, _ := openTestCache(t)
	digest := domain.DigestOf([]byte("x"))
	if err := c.Put("a.flf", 100, 2000, digest); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("a.flf", 101, 2000); ok {
		t.Error("size change should miss")
	}
	if _, ok := c.Get("a.flf", 100, 2001); ok {
		t.Error("mtime change should miss")
	}
}

func TestCache_PutUpdates(t *testing.T) {
	c, _ := openTestCache(t)
	old := domain.DigestOf([]byte("old"))
	renewed := domain.DigestOf([]byte("new"))

	if err := c.Put("a.flf", 100, 2000, old); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("a.flf", 120, 2100, renewed); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("a.flf", 100, 2000); ok {
		t.Error("old metadata should miss after update")
	}
	got, ok := c.Get("a.flf", 120, 2100)
	if !ok || got != renewed {
		t.Errorf("Get = %v, %v", got, ok)
	}
}

func TestCache_SurvivesReopen(t *testing.T) {
	root := t.TempDir()
	digest := domain.DigestOf([]byte("persist"))

	c := NewCache()
	if err := c.Open(root); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("a.flf", 10, 20, digest); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	c2 := NewCache()
	if err := c2.Open(root); err != nil {
		t.Fatal(err)
	}
	defer c2.Close()
	got, ok := c2.Get("a.flf", 10, 20)
	if !ok || got != digest {
		t.Errorf("Get after reopen = %v, %v", got, ok)
	}
}

package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache", "tmdb.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCache failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(t)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for a key never set")
	}

	want := []byte(`{"id":496243}`)
	if err := c.Set("tmdb:movie:496243", want, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, found := c.Get("tmdb:movie:496243")
	if !found {
		t.Fatal("expected a cache hit")
	}
	if string(got) != string(want) {
		t.Errorf("Get = %s, want %s", got, want)
	}
}

func TestCacheReplacesExistingKey(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("k", []byte("old"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("k", []byte("new"), time.Hour); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "new" {
		t.Errorf("Get = %q found=%v, want new entry", got, found)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry must miss")
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("entry survived Clear")
	}
}

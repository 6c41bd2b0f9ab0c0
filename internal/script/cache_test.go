package script

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCachePutGetRoundtrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := OpenCache("caret-test")
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}

	key := RenderKey([]byte("script"), []byte("source"), true, false)
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss for fresh key")
	}
	if err := c.Put(key, "rendered report"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got != "rendered report" {
		t.Fatalf("expected cached value %q, got %q", "rendered report", got)
	}
}

func TestRenderKeyDistinguishesInputs(t *testing.T) {
	base := RenderKey([]byte("s"), []byte("src"), false, false)
	if RenderKey([]byte("s2"), []byte("src"), false, false) == base {
		t.Fatal("expected different key for different script")
	}
	if RenderKey([]byte("s"), []byte("src2"), false, false) == base {
		t.Fatal("expected different key for different source")
	}
	if RenderKey([]byte("s"), []byte("src"), true, false) == base {
		t.Fatal("expected different key for different color setting")
	}
	if RenderKey([]byte("s"), []byte("src"), false, true) == base {
		t.Fatal("expected different key for different indent setting")
	}
	if RenderKey([]byte("s"), []byte("src"), false, false) != base {
		t.Fatal("expected stable key for identical inputs")
	}
}

func TestCacheKeyedOnIndentOption(t *testing.T) {
	// один и тот же скрипт с разными опциями не должен делить запись
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := OpenCache("caret-test")
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}

	plain := RenderKey([]byte("s"), []byte("src"), false, false)
	indented := RenderKey([]byte("s"), []byte("src"), false, true)
	if err := c.Put(plain, "flush left"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, ok := c.Get(indented); ok {
		t.Fatal("expected miss for indent-all variant of a cached report")
	}
	if got, ok := c.Get(plain); !ok || got != "flush left" {
		t.Fatalf("expected plain variant to stay cached, got %q (%v)", got, ok)
	}
}

func TestCacheMissOnGarbage(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := OpenCache("caret-test")
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}

	key := RenderKey([]byte("a"), []byte("b"), false, false)
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(p, []byte("not msgpack at all"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss for corrupt cache file")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var c *Cache
	key := RenderKey([]byte("a"), []byte("b"), false, false)
	if err := c.Put(key, "x"); err != nil {
		t.Fatalf("nil Put failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss from nil cache")
	}
}

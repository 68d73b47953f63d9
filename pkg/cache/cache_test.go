package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) should miss")
	}
	if err := c.Set(ctx, "doc", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "doc")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "doc"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "doc"); hit {
		t.Error("Get() after Delete() should miss")
	}
	if err := c.Delete(ctx, "doc"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "key", []byte("x"), 0)
	if err := os.WriteFile(c.path("key"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3, nil", n, err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear() left %d entries in %s", len(entries), c.Dir())
	}
}

func TestHash(t *testing.T) {
	h1, h2, h3 := Hash([]byte("hello")), Hash([]byte("hello")), Hash([]byte("world"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == h3 {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := DocumentKeyOpts{Config: map[string]int{"rows": 3}, Paper: "A3", Orientation: "landscape", LineWidth: 0.5}

	tests := []struct {
		name   string
		mutate func(*DocumentKeyOpts)
	}{
		{"paper", func(o *DocumentKeyOpts) { o.Paper = "A4" }},
		{"orientation", func(o *DocumentKeyOpts) { o.Orientation = "portrait" }},
		{"config", func(o *DocumentKeyOpts) { o.Config = map[string]int{"rows": 4} }},
		{"hatch", func(o *DocumentKeyOpts) { o.Hatch = "contour" }},
		{"travel", func(o *DocumentKeyOpts) { o.MaxTravel = 100 }},
	}
	want := k.DocumentKey("polygons", base)
	if !strings.HasPrefix(want, "document:") {
		t.Errorf("DocumentKey() = %q, want document: prefix", want)
	}
	if k.DocumentKey("polygons", base) != want {
		t.Error("DocumentKey() should be deterministic")
	}
	if k.DocumentKey("bouwkamp", base) == want {
		t.Error("different drawings should have different keys")
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			if k.DocumentKey("polygons", o) == want {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}

	a1 := k.ArtifactKey("hash", ArtifactKeyOpts{Format: "svg"})
	a2 := k.ArtifactKey("hash", ArtifactKeyOpts{Format: "svg", MarginGuide: true})
	if a1 == a2 || !strings.HasPrefix(a1, "artifact:") {
		t.Errorf("ArtifactKey() = %q, %q", a1, a2)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "server:")
	inner := NewDefaultKeyer()
	opts := DocumentKeyOpts{Paper: "A3"}
	if got, want := scoped.DocumentKey("lissajous", opts), "server:"+inner.DocumentKey("lissajous", opts); got != want {
		t.Errorf("DocumentKey() = %q, want %q", got, want)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "server:artifact:") {
		t.Errorf("ArtifactKey() = %q", got)
	}
}

// TestRedisCache runs against a live server when PENPLOT_TEST_REDIS names
// one, e.g. PENPLOT_TEST_REDIS=localhost:6379.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("PENPLOT_TEST_REDIS")
	if addr == "" {
		t.Skip("PENPLOT_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "penplot-test:" + t.Name() + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	if n, err := c.Clear(ctx); err != nil || n != 1 {
		t.Errorf("Clear() = %d, %v; want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() after Clear() should miss")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisCache() should fail without a server")
	}
}

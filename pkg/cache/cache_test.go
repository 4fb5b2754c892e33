package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestTileKey(t *testing.T) {
	const osm = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

	k := TileKey(osm, 2, 1, 3)
	if !strings.HasPrefix(k, "tile:") {
		t.Errorf("TileKey = %q, want tile: prefix", k)
	}
	if k != TileKey(osm, 2, 1, 3) {
		t.Error("TileKey should be deterministic")
	}

	tests := []struct {
		name string
		key  string
	}{
		{"different tile", TileKey(osm, 2, 3, 1)},
		{"different zoom", TileKey(osm, 3, 1, 3)},
		{"different source", TileKey("https://example.test/{z}/{x}/{y}.png", 2, 1, 3)},
	}
	for _, tt := range tests {
		if tt.key == k {
			t.Errorf("%s: key collides with base key", tt.name)
		}
	}
}

// contract runs the shared Cache behavior against a backend.
func contract(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("tile-bytes"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v", hit, err)
	}
	if string(data) != "tile-bytes" {
		t.Errorf("Get(k) = %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	contract(t, c)
}

func TestMemoryCache(t *testing.T) {
	contract(t, NewMemoryCache(time.Minute, time.Minute))
}

func TestLayeredCache(t *testing.T) {
	back, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	contract(t, Layered(NewMemoryCache(time.Minute, time.Minute), back, time.Minute))
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	c, err := NewFileCache(t.TempDir(), WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}

	clock.Advance(59 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); !hit {
		t.Error("entry should still be fresh")
	}

	clock.Advance(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry should have expired")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("ok"), 0); err != nil {
		t.Fatal(err)
	}

	path := c.path("k")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "tiles")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d entries, want 2", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir should exist after Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear", len(entries))
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCacheClearKeepsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "tile", []byte("png"), 0)

	// a home-like directory: loose files, a non-shard folder, and a foreign
	// file that happens to sit in a shard folder
	shard := filepath.Dir(c.path("tile"))
	foreign := []string{
		filepath.Join(dir, "thesis.docx"),
		filepath.Join(dir, "notes", "todo.json"),
		filepath.Join(dir, "ab", "photo.jpg"),
		filepath.Join(shard, "keep.txt"),
	}
	for _, p := range foreign {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("mine"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 1 {
		t.Errorf("Clear removed %d entries, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "tile"); hit {
		t.Error("cache entry survived Clear")
	}
	for _, p := range foreign {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s was removed: %v", p, err)
		}
	}
}

func TestFileCacheClearMissingDir(t *testing.T) {
	c := &FileCache{dir: filepath.Join(t.TempDir(), "gone")}
	if n, err := c.Clear(); err != nil || n != 0 {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestLayeredPromotesBackHits(t *testing.T) {
	ctx := context.Background()
	front := NewMemoryCache(time.Minute, time.Minute)
	back := NewMemoryCache(time.Minute, time.Minute)
	_ = back.Set(ctx, "k", []byte("v"), 0)

	c := Layered(front, back, time.Minute)
	if data, hit, _ := c.Get(ctx, "k"); !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v", data, hit)
	}
	if _, hit, _ := front.Get(ctx, "k"); !hit {
		t.Error("back hit should be promoted to front")
	}
}

func TestRedisCacheClearNeedsPrefix(t *testing.T) {
	c := &RedisCache{client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})}
	defer c.Close()

	if _, err := c.Clear(context.Background()); err == nil || !strings.Contains(err.Error(), "prefix") {
		t.Errorf("Clear without prefix = %v, want refusal", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected error connecting to a closed port")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error should name the address: %v", err)
	}
}

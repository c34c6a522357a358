package cache

import (
	"bytes"
	"fmt"
	"testing"
)

// TestKeyStability tests that equal inputs produce equal keys and different
// inputs produce different keys.
func TestKeyStability(t *testing.T) {
	a := Key("espeak", "en", "175", "hello world")
	b := Key("espeak", "en", "175", "hello world")
	if a != b {
		t.Error("equal inputs produced different keys")
	}

	c := Key("gtts", "en", "175", "hello world")
	if a == c {
		t.Error("different engines produced the same key")
	}

	// The separator must prevent ambiguous concatenation.
	d := Key("espeak", "en175", "hello world")
	e := Key("espeak", "en", "175hello world")
	if d == e {
		t.Error("part boundaries are ambiguous")
	}
}

// TestMemoryCacheLRU tests eviction order.
func TestMemoryCacheLRU(t *testing.T) {
	mc := NewMemoryCache(2)

	mc.Put("a", []byte("1"))
	mc.Put("b", []byte("2"))

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := mc.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	mc.Put("c", []byte("3"))

	if _, ok := mc.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := mc.Get("a"); !ok {
		t.Error("a should have survived eviction")
	}
	if _, ok := mc.Get("c"); !ok {
		t.Error("c should be present")
	}
}

// TestDiskCacheRoundTrip tests compression round-trip through the disk tier.
func TestDiskCacheRoundTrip(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close()

	data := bytes.Repeat([]byte("pcm audio data "), 100)
	key := Key("espeak", "round-trip")

	if err := dc.Put(key, data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := dc.Get(key)
	if !ok {
		t.Fatal("expected disk hit")
	}
	if !bytes.Equal(got, data) {
		t.Error("round-tripped data does not match")
	}
}

// TestDiskCacheEviction tests that old entries are evicted when capacity is
// exceeded.
func TestDiskCacheEviction(t *testing.T) {
	// Tiny capacity forces eviction quickly. Use incompressible-ish keys so
	// sizes stay meaningful.
	dc, err := NewDiskCache(t.TempDir(), 256, 0)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close()

	for i := 0; i < 8; i++ {
		if err := dc.Put(Key("e", fmt.Sprintf("entry-%d", i)), make([]byte, 100)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	stats := dc.Stats()
	if stats.Size > stats.Capacity {
		t.Errorf("cache size %d exceeds capacity %d", stats.Size, stats.Capacity)
	}
}

// TestTieredPromotion tests that a disk hit is promoted into memory.
func TestTieredPromotion(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close()

	mc := NewMemoryCache(4)
	c := New(mc, dc)

	key := Key("gtts", "promotion")
	if err := dc.Put(key, []byte("audio")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, ok := c.Get(key); !ok {
		t.Fatal("expected hit from disk tier")
	}

	if _, ok := mc.Get(key); !ok {
		t.Error("disk hit was not promoted into memory")
	}
}

// TestCacheClear tests clearing both tiers.
func TestCacheClear(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close()

	c := New(NewMemoryCache(4), dc)
	key := Key("espeak", "clear")
	c.Put(key, []byte("audio"))

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("entry survived Clear")
	}
}

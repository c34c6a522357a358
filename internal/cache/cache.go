// Package cache stores synthesized audio keyed by the full synthesis input,
// so repeated requests skip the backend entirely. It layers a small in-memory
// LRU over a compressed on-disk tier.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Cache coordinates the memory and disk tiers. Memory hits are promoted
// implicitly (they are already there); disk hits are promoted into memory.
type Cache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// Stats aggregates hit/miss counters across tiers.
type Stats struct {
	MemoryHits    int64
	DiskHits      int64
	Misses        int64
	MemoryEntries int
	DiskBytes     int64
	DiskCapacity  int64
}

// New creates a cache with the given tiers. Either tier may be nil.
func New(memory *MemoryCache, disk *DiskCache) *Cache {
	return &Cache{memory: memory, disk: disk}
}

// Key derives a stable cache key from everything that influences the audio:
// engine name, voice, rate, volume, language settings, and the text itself.
func Key(engine string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(engine))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves audio for key, checking memory before disk.
func (c *Cache) Get(key string) ([]byte, bool) {
	if c.memory != nil {
		if data, ok := c.memory.Get(key); ok {
			return data, true
		}
	}

	if c.disk != nil {
		if data, ok := c.disk.Get(key); ok {
			// Promote to memory for the next lookup.
			if c.memory != nil {
				c.memory.Put(key, data)
			}
			return data, true
		}
	}

	return nil, false
}

// Put stores audio in both tiers. Disk failures are non-fatal: the audio has
// already been produced, so a write error only costs a future cache hit.
func (c *Cache) Put(key string, data []byte) {
	if c.memory != nil {
		c.memory.Put(key, data)
	}
	if c.disk != nil {
		if err := c.disk.Put(key, data); err != nil {
			log.Warn("disk cache write failed", "key", key[:8], "error", err)
		}
	}
}

// Clear empties both tiers.
func (c *Cache) Clear() error {
	if c.memory != nil {
		c.memory.Clear()
	}
	if c.disk != nil {
		if err := c.disk.Clear(); err != nil {
			return fmt.Errorf("failed to clear disk cache: %w", err)
		}
	}
	return nil
}

// Close releases resources held by the disk tier.
func (c *Cache) Close() {
	if c.disk != nil {
		c.disk.Close()
	}
}

// Stats returns aggregated cache statistics.
func (c *Cache) Stats() Stats {
	var s Stats
	if c.memory != nil {
		ms := c.memory.Stats()
		s.MemoryHits = ms.Hits
		s.Misses += ms.Misses
		s.MemoryEntries = ms.Entries
	}
	if c.disk != nil {
		ds := c.disk.Stats()
		s.DiskHits = ds.Hits
		s.DiskBytes = ds.Size
		s.DiskCapacity = ds.Capacity
	}
	return s
}

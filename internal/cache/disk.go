package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// DiskCache is the persistent tier. Entries are zstd-compressed files named
// by cache key; eviction is oldest-first by modification time once the byte
// capacity is exceeded.
type DiskCache struct {
	basePath string
	capacity int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu     sync.Mutex
	size   int64
	hits   int64
	misses int64
}

// DiskStats reports disk-tier metrics.
type DiskStats struct {
	Hits     int64
	Misses   int64
	Size     int64
	Capacity int64
}

const diskEntryExt = ".zst"

// NewDiskCache creates a disk cache rooted at basePath with the given byte
// capacity and zstd compression level.
func NewDiskCache(basePath string, capacity int64, compressionLevel int) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
	}
	dc.size = dc.measure()

	return dc, nil
}

// Get retrieves and decompresses the entry for key.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	compressed, err := os.ReadFile(dc.entryPath(key))
	if err != nil {
		dc.misses++
		return nil, false
	}

	data, err := dc.decoder.DecodeAll(compressed, nil)
	if err != nil {
		// Corrupt entry: drop it.
		_ = os.Remove(dc.entryPath(key))
		dc.misses++
		return nil, false
	}

	dc.hits++
	return data, true
}

// Put compresses and stores the entry for key, evicting old entries if the
// capacity would be exceeded.
func (dc *DiskCache) Put(key string, data []byte) error {
	compressed := dc.encoder.EncodeAll(data, nil)

	dc.mu.Lock()
	defer dc.mu.Unlock()

	if err := dc.evictFor(int64(len(compressed))); err != nil {
		return err
	}

	path := dc.entryPath(key)
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	dc.size += int64(len(compressed))
	return nil
}

// Clear removes every entry.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), diskEntryExt) {
			continue
		}
		if err := os.Remove(filepath.Join(dc.basePath, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove cache entry: %w", err)
		}
	}

	dc.size = 0
	return nil
}

// Stats returns disk-tier metrics.
func (dc *DiskCache) Stats() DiskStats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	return DiskStats{
		Hits:     dc.hits,
		Misses:   dc.misses,
		Size:     dc.size,
		Capacity: dc.capacity,
	}
}

// Close releases the compressor resources.
func (dc *DiskCache) Close() {
	dc.encoder.Close()
	dc.decoder.Close()
}

func (dc *DiskCache) entryPath(key string) string {
	return filepath.Join(dc.basePath, key+diskEntryExt)
}

// measure sums the size of all entries on disk.
func (dc *DiskCache) measure() int64 {
	var total int64

	entries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), diskEntryExt) {
			continue
		}
		if info, err := entry.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}

// evictFor removes oldest entries until incoming bytes fit within capacity.
// Caller holds the lock.
func (dc *DiskCache) evictFor(incoming int64) error {
	if dc.size+incoming <= dc.capacity {
		return nil
	}

	type candidate struct {
		path    string
		size    int64
		modTime time.Time
	}

	entries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), diskEntryExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(dc.basePath, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.Before(candidates[j].modTime)
	})

	for _, c := range candidates {
		if dc.size+incoming <= dc.capacity {
			break
		}
		if err := os.Remove(c.path); err != nil {
			continue
		}
		dc.size -= c.size
	}

	return nil
}

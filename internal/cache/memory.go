package cache

import (
	"container/list"
	"sync"
)

// MemoryCache is an LRU cache bounded by entry count. Audio clips are a few
// hundred KB each, so a count bound keeps the footprint predictable without
// byte accounting.
type MemoryCache struct {
	capacity int

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front = most recently used

	hits   int64
	misses int64
}

// MemoryStats reports memory-tier metrics.
type MemoryStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

type memoryEntry struct {
	key  string
	data []byte
}

// NewMemoryCache creates a memory cache holding at most capacity entries.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a value and marks it most recently used.
func (mc *MemoryCache) Get(key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	elem, ok := mc.items[key]
	if !ok {
		mc.misses++
		return nil, false
	}

	mc.order.MoveToFront(elem)
	mc.hits++
	return elem.Value.(*memoryEntry).data, true
}

// Put stores a value, evicting the least recently used entry when full.
func (mc *MemoryCache) Put(key string, data []byte) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if elem, ok := mc.items[key]; ok {
		elem.Value.(*memoryEntry).data = data
		mc.order.MoveToFront(elem)
		return
	}

	for mc.order.Len() >= mc.capacity {
		oldest := mc.order.Back()
		if oldest == nil {
			break
		}
		mc.order.Remove(oldest)
		delete(mc.items, oldest.Value.(*memoryEntry).key)
	}

	mc.items[key] = mc.order.PushFront(&memoryEntry{key: key, data: data})
}

// Clear empties the cache.
func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*list.Element)
	mc.order.Init()
}

// Stats returns memory-tier metrics.
func (mc *MemoryCache) Stats() MemoryStats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return MemoryStats{
		Hits:    mc.hits,
		Misses:  mc.misses,
		Entries: mc.order.Len(),
	}
}

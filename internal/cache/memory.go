package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryCache implements an in-memory LRU cache with TTL support
type MemoryCache struct {
	maxSize    int
	defaultTTL time.Duration
	items      map[string]*list.Element
	lru        *list.List
	mu         sync.RWMutex
}

type memoryCacheItem struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(maxSize int, defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
	}
}

// Get retrieves an item, refreshing its LRU position
func (m *MemoryCache) Get(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	element, exists := m.items[key]
	if !exists {
		return nil, false
	}

	item := element.Value.(*memoryCacheItem)
	if time.Now().After(item.expiresAt) {
		m.removeElement(element)
		return nil, false
	}

	m.lru.MoveToFront(element)
	return item.value, true
}

// Set stores an item, evicting the least recently used entries when the
// cache is over capacity. A zero ttl uses the default.
func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl == 0 {
		ttl = m.defaultTTL
	}

	item := &memoryCacheItem{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}

	if element, exists := m.items[key]; exists {
		element.Value = item
		m.lru.MoveToFront(element)
		return
	}

	m.items[key] = m.lru.PushFront(item)
	for len(m.items) > m.maxSize {
		if oldest := m.lru.Back(); oldest != nil {
			m.removeElement(oldest)
		}
	}
}

// Delete removes an item
func (m *MemoryCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if element, exists := m.items[key]; exists {
		m.removeElement(element)
	}
}

// Clear removes all items
func (m *MemoryCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*list.Element)
	m.lru.Init()
}

// Size returns the current number of items
func (m *MemoryCache) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryCache) removeElement(element *list.Element) {
	item := element.Value.(*memoryCacheItem)
	delete(m.items, item.key)
	m.lru.Remove(element)
}

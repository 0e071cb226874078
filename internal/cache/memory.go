package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"airlinelookup/internal/models"
)

type memoryItem struct {
	key   string
	entry Entry
}

// Memory is an in-process LRU cache with a fixed TTL. An entry is fresh
// while now - FetchedAt < TTL.
type Memory struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front is most recently used
	items    map[string]*list.Element
	now      func() time.Time
}

// NewMemory creates a memory cache. A non-positive capacity means unbounded.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	return &Memory{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Get returns a copy of the cached record if it is still fresh. Expired
// entries are dropped on read.
func (m *Memory) Get(_ context.Context, key string) (*models.AirlineRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return nil, false
	}
	it := el.Value.(*memoryItem)
	if !m.fresh(it.entry) {
		m.removeElement(el)
		return nil, false
	}

	m.order.MoveToFront(el)
	rec := it.entry.Record
	return &rec, true
}

// Put stores a copy of rec, evicting the least recently used entry when full.
func (m *Memory) Put(_ context.Context, key string, rec *models.AirlineRecord) {
	if rec == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry := Entry{Record: *rec, FetchedAt: m.now()}
	if el, ok := m.items[key]; ok {
		el.Value.(*memoryItem).entry = entry
		m.order.MoveToFront(el)
		return
	}

	m.items[key] = m.order.PushFront(&memoryItem{key: key, entry: entry})
	for m.capacity > 0 && m.order.Len() > m.capacity {
		m.removeElement(m.order.Back())
	}
}

// Sweep removes every expired entry and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for el := m.order.Back(); el != nil; {
		prev := el.Prev()
		if !m.fresh(el.Value.(*memoryItem).entry) {
			m.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Len returns the number of stored entries, fresh or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) fresh(e Entry) bool {
	return m.now().Sub(e.FetchedAt) < m.ttl
}

func (m *Memory) removeElement(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*memoryItem).key)
}

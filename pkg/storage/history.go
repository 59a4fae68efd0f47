package storage

import (
	"container/list"
	"sync"
	"time"

	"stress-index/pkg/tracker"
)

// DefaultHistorySize bounds the number of refresh results kept in memory
const DefaultHistorySize = 10

type historyEntry struct {
	result  *tracker.Result
	stored  time.Time
	element *list.Element
}

// MemoryHistory keeps the most recent refresh results, newest first.
// Results older than ttl are dropped on access when ttl is positive.
type MemoryHistory struct {
	maxSize int
	ttl     time.Duration
	items   map[string]*historyEntry
	order   *list.List
	now     func() time.Time
	mu      sync.RWMutex
}

func NewMemoryHistory(maxSize int, ttl time.Duration) *MemoryHistory {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &MemoryHistory{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*historyEntry),
		order:   list.New(),
		now:     time.Now,
	}
}

// Put stores a result as the newest one, evicting the oldest beyond maxSize
func (h *MemoryHistory) Put(result *tracker.Result) {
	if result == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.items[result.ID]; ok {
		h.remove(old)
	}
	entry := &historyEntry{result: result, stored: h.now()}
	entry.element = h.order.PushFront(entry)
	h.items[result.ID] = entry

	for len(h.items) > h.maxSize {
		h.remove(h.order.Back().Value.(*historyEntry))
	}
}

func (h *MemoryHistory) Get(id string) (*tracker.Result, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expire()

	entry, ok := h.items[id]
	if !ok {
		return nil, false
	}
	return entry.result, true
}

// Latest returns the most recently stored result
func (h *MemoryHistory) Latest() (*tracker.Result, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expire()

	front := h.order.Front()
	if front == nil {
		return nil, false
	}
	return front.Value.(*historyEntry).result, true
}

// List returns stored results, newest first
func (h *MemoryHistory) List() []*tracker.Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expire()

	out := make([]*tracker.Result, 0, h.order.Len())
	for e := h.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*historyEntry).result)
	}
	return out
}

func (h *MemoryHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

// expire drops entries older than ttl, oldest first. Caller holds the lock.
func (h *MemoryHistory) expire() {
	if h.ttl <= 0 {
		return
	}
	cutoff := h.now().Add(-h.ttl)
	for e := h.order.Back(); e != nil; e = h.order.Back() {
		entry := e.Value.(*historyEntry)
		if !entry.stored.Before(cutoff) {
			return
		}
		h.remove(entry)
	}
}

func (h *MemoryHistory) remove(entry *historyEntry) {
	delete(h.items, entry.result.ID)
	h.order.Remove(entry.element)
}

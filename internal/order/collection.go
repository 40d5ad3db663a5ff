package order

import (
	"sync"

	"github.com/google/uuid"
)

// Collection is the process-wide, ordered set of orders addressed by stable
// key. It replaces positional indexing so view/print/delete stay correct
// while a filter is active.
type Collection struct {
	mu      sync.RWMutex
	orders  []Order
	index   map[uuid.UUID]int
	issued  uint64
	applied uint64
	loaded  bool
}

// NewCollection returns an empty, not yet loaded collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[uuid.UUID]int)}
}

// Begin issues a generation ticket for a refresh about to start.
func (c *Collection) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// Replace installs orders fetched under ticket. It returns false, leaving the
// collection untouched, if a refresh issued later has already been applied.
func (c *Collection) Replace(ticket uint64, orders []Order) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket <= c.applied {
		return false
	}
	c.applied = ticket
	c.loaded = true
	c.orders = append([]Order(nil), orders...)
	c.reindex()
	return true
}

// Fail empties the collection after a refresh under ticket failed. The
// collection stays unloaded so the next EnsureLoaded fetches again. It
// returns false if a later refresh has already been applied.
func (c *Collection) Fail(ticket uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket <= c.applied {
		return false
	}
	c.applied = ticket
	c.loaded = false
	c.orders = nil
	c.reindex()
	return true
}

// Loaded reports whether the last applied refresh succeeded.
func (c *Collection) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// All returns a copy of every order in display order.
func (c *Collection) All() []Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Order(nil), c.orders...)
}

// Len returns the number of orders held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}

// Get looks up one order by key.
func (c *Collection) Get(key uuid.UUID) (Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[key]
	if !ok {
		return Order{}, false
	}
	return c.orders[i], true
}

// Select returns the orders for keys in the order the keys were given.
// Unknown keys are skipped.
func (c *Collection) Select(keys []uuid.UUID) []Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Order, 0, len(keys))
	for _, k := range keys {
		if i, ok := c.index[k]; ok {
			out = append(out, c.orders[i])
		}
	}
	return out
}

// Delete removes the order with key and returns it. Display IDs of the
// remaining orders are left as they were.
func (c *Collection) Delete(key uuid.UUID) (Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[key]
	if !ok {
		return Order{}, false
	}
	removed := c.orders[i]
	c.orders = append(c.orders[:i:i], c.orders[i+1:]...)
	c.reindex()
	return removed, true
}

func (c *Collection) reindex() {
	c.index = make(map[uuid.UUID]int, len(c.orders))
	for i, o := range c.orders {
		c.index[o.Key] = i
	}
}

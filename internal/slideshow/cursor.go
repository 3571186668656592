package slideshow

import "sync"

// Cursor is the visible index into one ordered image list. It wraps at
// both ends and stops auto-advancing while expanded.
type Cursor struct {
	mu       sync.RWMutex
	count    int
	index    int
	expanded bool
}

// NewCursor returns nil for an empty list; there is nothing to show.
func NewCursor(count int) *Cursor {
	if count <= 0 {
		return nil
	}
	return &Cursor{count: count}
}

func (c *Cursor) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = (c.index + 1) % c.count
	return c.index
}

func (c *Cursor) Prev() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = (c.index - 1 + c.count) % c.count
	return c.index
}

// Tick advances unless expanded and reports whether it moved.
func (c *Cursor) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expanded {
		return false
	}
	c.index = (c.index + 1) % c.count
	return true
}

func (c *Cursor) Expand() {
	c.mu.Lock()
	c.expanded = true
	c.mu.Unlock()
}

func (c *Cursor) Collapse() {
	c.mu.Lock()
	c.expanded = false
	c.mu.Unlock()
}

func (c *Cursor) Index() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

func (c *Cursor) Expanded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expanded
}

func (c *Cursor) Len() int {
	return c.count
}

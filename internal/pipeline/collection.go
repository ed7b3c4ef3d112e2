package pipeline

import "fmt"

// Collection is an ordered list of pipeline values. It registers itself
// as parent of every item it holds, so modifying an item stamps the
// collection too.
type Collection[T Data] struct {
	DataObject
	items   []T
	factory func() T
}

// NewCollection returns an empty collection. factory is used by SetLen to
// allocate new items.
func NewCollection[T Data](factory func() T) *Collection[T] {
	return &Collection[T]{factory: factory}
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Item returns the item at idx.
func (c *Collection[T]) Item(idx int) (T, error) {
	if idx < 0 || idx >= len(c.items) {
		var zero T
		return zero, fmt.Errorf("collection item %d (len %d): %w", idx, len(c.items), ErrIndexOutOfRange)
	}
	return c.items[idx], nil
}

// Items returns a copy of the item list.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// SetItem replaces the item at idx.
func (c *Collection[T]) SetItem(idx int, item T) error {
	if idx < 0 || idx >= len(c.items) {
		return fmt.Errorf("collection item %d (len %d): %w", idx, len(c.items), ErrIndexOutOfRange)
	}
	old := c.items[idx]
	if any(old) == any(item) {
		return nil
	}
	c.detach(old)
	c.attach(item)
	c.items[idx] = item
	c.Modified()
	return nil
}

// Append adds item at the end of the collection.
func (c *Collection[T]) Append(item T) {
	c.attach(item)
	c.items = append(c.items, item)
	c.Modified()
}

// Clear removes every item.
func (c *Collection[T]) Clear() {
	if len(c.items) == 0 {
		return
	}
	for _, item := range c.items {
		c.detach(item)
	}
	c.items = nil
	c.Modified()
}

// SetLen truncates the collection or grows it with new items from the
// factory. Existing items below n are kept.
func (c *Collection[T]) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	if n == len(c.items) {
		return
	}
	if n < len(c.items) {
		for _, item := range c.items[n:] {
			c.detach(item)
		}
		c.items = c.items[:n]
	} else {
		for len(c.items) < n {
			item := c.factory()
			c.attach(item)
			c.items = append(c.items, item)
		}
	}
	c.Modified()
}

func (c *Collection[T]) attach(item T) {
	if !isNil(item) {
		item.AddParent(c)
	}
}

func (c *Collection[T]) detach(item T) {
	if !isNil(item) {
		item.RemoveParent(c)
	}
}

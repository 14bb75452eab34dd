package media

import "fmt"

// Collection keeps persisted and staged images in a single ordered sequence.
// Positions are always 0..Len()-1 and Len() never exceeds the capacity.
// A Collection is not safe for concurrent use.
type Collection struct {
	items    []Item
	capacity int
}

func NewCollection(capacity int) *Collection {
	if capacity <= 0 {
		capacity = DefaultMaxCount
	}
	return &Collection{capacity: capacity}
}

func (c *Collection) Len() int      { return len(c.items) }
func (c *Collection) Capacity() int { return c.capacity }

// Remaining is the number of images that can still be appended
func (c *Collection) Remaining() int {
	return c.capacity - len(c.items)
}

// Append adds items after the current last position. Nothing is added if the
// result would exceed the capacity.
func (c *Collection) Append(items ...Item) error {
	if len(c.items)+len(items) > c.capacity {
		return fmt.Errorf("%w: %d + %d exceeds %d", ErrCapacity, len(c.items), len(items), c.capacity)
	}
	for _, it := range items {
		it.setPosition(len(c.items))
		c.items = append(c.items, it)
	}
	return nil
}

// Move takes the item at from and reinserts it at to, shifting the items in between
func (c *Collection) Move(from, to int) error {
	if err := c.check(from); err != nil {
		return err
	}
	if err := c.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	item := c.items[from]
	if from < to {
		copy(c.items[from:to], c.items[from+1:to+1])
	} else {
		copy(c.items[to+1:from+1], c.items[to:from])
	}
	c.items[to] = item

	c.renumber(min(from, to))
	return nil
}

// RemoveAt deletes the item at pos and compacts the positions after it
func (c *Collection) RemoveAt(pos int) (Item, error) {
	if err := c.check(pos); err != nil {
		return nil, err
	}

	item := c.items[pos]
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	c.renumber(pos)
	return item, nil
}

// Remove deletes the item identified by key
func (c *Collection) Remove(key string) (Item, error) {
	pos := c.IndexOf(key)
	if pos < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return c.RemoveAt(pos)
}

func (c *Collection) At(pos int) (Item, error) {
	if err := c.check(pos); err != nil {
		return nil, err
	}
	return c.items[pos], nil
}

// IndexOf returns the position of the item with key, or -1
func (c *Collection) IndexOf(key string) int {
	for i, it := range c.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// Items returns a snapshot of the items in position order
func (c *Collection) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) check(pos int) error {
	if pos < 0 || pos >= len(c.items) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndex, pos, len(c.items))
	}
	return nil
}

func (c *Collection) renumber(from int) {
	for i := from; i < len(c.items); i++ {
		c.items[i].setPosition(i)
	}
}

// Partition splits an ordered item list into the API's two image fields. Each
// subtype keeps the relative order it has in items.
func Partition(items []Item) (existing []string, staged []*Staged) {
	existing = []string{}
	for _, it := range items {
		switch v := it.(type) {
		case *Persisted:
			existing = append(existing, v.URL)
		case *Staged:
			staged = append(staged, v)
		}
	}
	return existing, staged
}

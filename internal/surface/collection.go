package surface

// Annotations is the surface's shared annotation collection. Removal is
// idempotent: removing an annotation that is absent is a no-op.
type Annotations interface {
	Add(items ...Annotation)
	Remove(items ...Annotation)
	Contains(a Annotation) bool
	Items() []Annotation
	Len() int
}

// Collection is an ordered Annotations implementation. Items are drawn in
// insertion order. It is not safe for concurrent use; callers serialise
// access through the owning session.
type Collection struct {
	items   []Annotation
	index   map[string]int
	version uint64
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Add appends items not already present.
func (c *Collection) Add(items ...Annotation) {
	for _, a := range items {
		if a == nil {
			continue
		}
		if _, ok := c.index[a.ID()]; ok {
			continue
		}
		c.index[a.ID()] = len(c.items)
		c.items = append(c.items, a)
		c.version++
	}
}

// Remove deletes items, ignoring any that are not present.
func (c *Collection) Remove(items ...Annotation) {
	changed := false
	for _, a := range items {
		if a == nil {
			continue
		}
		i, ok := c.index[a.ID()]
		if !ok {
			continue
		}
		c.items = append(c.items[:i], c.items[i+1:]...)
		delete(c.index, a.ID())
		for j := i; j < len(c.items); j++ {
			c.index[c.items[j].ID()] = j
		}
		changed = true
	}
	if changed {
		c.version++
	}
}

// Contains reports whether a is in the collection.
func (c *Collection) Contains(a Annotation) bool {
	if a == nil {
		return false
	}
	_, ok := c.index[a.ID()]
	return ok
}

// Items returns a snapshot in draw order.
func (c *Collection) Items() []Annotation {
	out := make([]Annotation, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of annotations.
func (c *Collection) Len() int { return len(c.items) }

// Version increments on every structural change.
func (c *Collection) Version() uint64 { return c.version }

// Clear removes everything.
func (c *Collection) Clear() {
	c.items = nil
	c.index = make(map[string]int)
	c.version++
}

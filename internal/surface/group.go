package surface

import (
	"fmt"

	"github.com/google/uuid"
)

// Group is a set of primitives that are added to and removed from a
// collection together. A group is either fully attached or not attached.
type Group struct {
	id     string
	items  []Annotation
	target Annotations
}

// NewGroup creates a detached group holding items.
func NewGroup(items ...Annotation) *Group {
	g := &Group{id: uuid.NewString()}
	g.Append(items...)
	return g
}

// ID is the group's unique id.
func (g *Group) ID() string { return g.id }

// Items returns the members in creation order.
func (g *Group) Items() []Annotation {
	out := make([]Annotation, len(g.items))
	copy(out, g.items)
	return out
}

// Len returns the member count.
func (g *Group) Len() int { return len(g.items) }

// Attached reports whether the group is on a collection.
func (g *Group) Attached() bool { return g.target != nil }

// Append adds members. On an attached group they are added to the
// collection in the same call.
func (g *Group) Append(items ...Annotation) {
	for _, a := range items {
		if a != nil {
			g.items = append(g.items, a)
		}
	}
	if g.target != nil {
		g.target.Add(items...)
	}
}

// Attach adds every member to c. Attaching an attached group is a no-op.
func (g *Group) Attach(c Annotations) {
	if g.target != nil || c == nil {
		return
	}
	g.target = c
	c.Add(g.items...)
}

// Detach removes every member from its collection. Safe to call repeatedly.
func (g *Group) Detach() {
	if g == nil || g.target == nil {
		return
	}
	g.target.Remove(g.items...)
	g.target = nil
}

// SetHidden toggles visibility of every member.
func (g *Group) SetHidden(hidden bool) {
	for _, a := range g.items {
		a.SetHidden(hidden)
	}
}

// Validate checks that the group holds exactly want primitives of each kind,
// has no duplicate members and, when attached, that every member is on the
// collection.
func (g *Group) Validate(want map[Kind]int) error {
	seen := make(map[string]bool, len(g.items))
	got := make(map[Kind]int)
	for _, a := range g.items {
		if seen[a.ID()] {
			return fmt.Errorf("group %s: duplicate member %s", g.id, a.ID())
		}
		seen[a.ID()] = true
		got[a.Kind()]++
		if g.target != nil && !g.target.Contains(a) {
			return fmt.Errorf("group %s: member %s missing from collection", g.id, a.ID())
		}
	}
	for k, n := range want {
		if got[k] != n {
			return fmt.Errorf("group %s: want %d %s, got %d", g.id, n, k, got[k])
		}
	}
	for k, n := range got {
		if _, ok := want[k]; !ok {
			return fmt.Errorf("group %s: unexpected %d %s", g.id, n, k)
		}
	}
	return nil
}

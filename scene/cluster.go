package scene

import "skema/geometry"

// Cluster groups blocks and acts as their coordinate-space parent.
// Position is the cluster's own translation, zero at group time, so a
// member's scene position is its local position plus the cluster
// position. Rect is the bounding rectangle captured in group-time scene
// coordinates; it is recomputed on grouping, collapsed on full detach,
// and otherwise left stale on purpose (matching the original editor).
type Cluster struct {
	ID       int
	Title    string
	Color    string
	Locked   bool
	Position geometry.Point
	Rect     geometry.Rect
	Members  []int // ordered block ids, no duplicates

	onMoved func()
}

// NewCluster creates a cluster around the given group-time rect.
func NewCluster(id int, title string, rect geometry.Rect) *Cluster {
	return &Cluster{
		ID:    id,
		Title: title,
		Color: DefaultClusterColor,
		Rect:  rect,
	}
}

// SetMovedHook installs the position-change notification callback.
func (c *Cluster) SetMovedHook(fn func()) {
	c.onMoved = fn
}

// SceneRect returns the bounding rectangle in scene coordinates.
func (c *Cluster) SceneRect() geometry.Rect {
	return c.Rect.Translated(c.Position)
}

// Move places the cluster at p in scene space, carrying its members
// along. Locked clusters reject the move.
func (c *Cluster) Move(p geometry.Point) bool {
	if c.Locked {
		return false
	}
	c.Position = p
	c.OnPositionChanged()
	return true
}

// MoveBy translates the cluster by d, subject to the same lock rule.
func (c *Cluster) MoveBy(d geometry.Point) bool {
	return c.Move(c.Position.Add(d))
}

// Resize changes only the cluster's own rectangle. Member positions are
// deliberately not reflowed.
func (c *Cluster) Resize(s geometry.Size) bool {
	if !s.Positive() {
		return false
	}
	c.Rect.W = s.W
	c.Rect.H = s.H
	return true
}

// SetTitle replaces the cluster's title.
func (c *Cluster) SetTitle(title string) {
	c.Title = title
}

// Lock makes the cluster immovable. It stays selectable.
func (c *Cluster) Lock() { c.Locked = true }

// Unlock makes the cluster movable again.
func (c *Cluster) Unlock() { c.Locked = false }

// HasMember reports whether the block id is already a member.
func (c *Cluster) HasMember(id int) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}

// AddMember appends a block id, preserving order and uniqueness.
func (c *Cluster) AddMember(id int) {
	if !c.HasMember(id) {
		c.Members = append(c.Members, id)
	}
}

// RemoveMember drops a block id, preserving the order of the rest.
func (c *Cluster) RemoveMember(id int) {
	for i, m := range c.Members {
		if m == id {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return
		}
	}
}

// NodeKind tags the cluster variant.
func (c *Cluster) NodeKind() Kind { return KindCluster }

// BoundingRect returns the cluster's rectangle in scene coordinates.
func (c *Cluster) BoundingRect() geometry.Rect {
	return c.SceneRect()
}

// HitTest checks whether p (in scene coordinates) falls on the cluster.
func (c *Cluster) HitTest(p geometry.Point) bool {
	return c.SceneRect().Contains(p)
}

// OnPositionChanged fires the owner's change hook, if installed.
func (c *Cluster) OnPositionChanged() {
	if c.onMoved != nil {
		c.onMoved()
	}
}

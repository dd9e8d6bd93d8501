package scene

import "skema/geometry"

// Block is a positioned, sized, titled diagram node. Position is the
// top-left corner in the parent coordinate space: cluster-local when
// Parent is non-zero, scene space otherwise. Cross-references are held
// as ids and resolved through the editor core.
type Block struct {
	ID       int
	Title    string
	Content  string
	Position geometry.Point
	Size     geometry.Size
	Color    string
	Locked   bool
	Parent   int // owning cluster id, 0 when unparented

	onMoved func() // set by the owning editor at registration
}

// NewBlock creates a block with the default size, title and fill.
func NewBlock(id int) *Block {
	return &Block{
		ID:    id,
		Title: DefaultBlockTitle,
		Size:  geometry.Size{W: DefaultBlockWidth, H: DefaultBlockHeight},
		Color: DefaultBlockColor,
	}
}

// SetMovedHook installs the position-change notification callback.
func (b *Block) SetMovedHook(fn func()) {
	b.onMoved = fn
}

// Move places the block at p in its parent coordinate space. Locked
// blocks reject the move and report false.
func (b *Block) Move(p geometry.Point) bool {
	if b.Locked {
		return false
	}
	b.Position = p
	b.OnPositionChanged()
	return true
}

// MoveBy translates the block by d, subject to the same lock rule.
func (b *Block) MoveBy(d geometry.Point) bool {
	return b.Move(b.Position.Add(d))
}

// Resize changes the block's dimensions. Both dimensions must be
// positive; anchors are derived geometry so they follow automatically,
// but connections touching the block still need recomputing.
func (b *Block) Resize(s geometry.Size) bool {
	if !s.Positive() {
		return false
	}
	b.Size = s
	b.OnPositionChanged()
	return true
}

// SetTitle replaces the block's title.
func (b *Block) SetTitle(title string) {
	b.Title = title
}

// Lock makes the block immovable. It stays selectable.
func (b *Block) Lock() { b.Locked = true }

// Unlock makes the block movable again.
func (b *Block) Unlock() { b.Locked = false }

// AnchorOffset returns the anchor's center relative to the block's
// top-left corner: top=(w/2,0), bottom=(w/2,h), left=(0,h/2),
// right=(w,h/2). The handle's visual size is subtracted symmetrically
// when drawing, so the handle always centers on exactly this point.
func (b *Block) AnchorOffset(o Orientation) geometry.Point {
	w, h := b.Size.W, b.Size.H
	switch o {
	case Top:
		return geometry.Point{X: w / 2, Y: 0}
	case Bottom:
		return geometry.Point{X: w / 2, Y: h}
	case Left:
		return geometry.Point{X: 0, Y: h / 2}
	default:
		return geometry.Point{X: w, Y: h / 2}
	}
}

// NodeKind tags the block variant.
func (b *Block) NodeKind() Kind { return KindBlock }

// BoundingRect returns the block's rectangle in parent coordinates.
func (b *Block) BoundingRect() geometry.Rect {
	return geometry.NewRect(b.Position, b.Size)
}

// HitTest checks whether p (in parent coordinates) falls on the block.
func (b *Block) HitTest(p geometry.Point) bool {
	return b.BoundingRect().Contains(p)
}

// OnPositionChanged fires the owner's change hook, if installed.
func (b *Block) OnPositionChanged() {
	if b.onMoved != nil {
		b.onMoved()
	}
}

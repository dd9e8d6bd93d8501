package scene

import (
	"math"

	"skema/geometry"
)

// Connection is a directed edge between two anchors on two distinct
// blocks. While pending, End is nil and the free end of Line tracks the
// pointer; once committed, both ends are anchored and Line caches the
// resolved scene-space segment. Endpoints are held as ids and resolved
// through the editor core.
type Connection struct {
	Start AnchorRef
	End   *AnchorRef
	Line  Segment
}

// Committed reports whether the connection has an anchored end.
func (c *Connection) Committed() bool {
	return c.End != nil
}

// Touches reports whether either endpoint belongs to the given block.
func (c *Connection) Touches(blockID int) bool {
	if c.Start.Block == blockID {
		return true
	}
	return c.End != nil && c.End.Block == blockID
}

// NodeKind tags the connection-line variant.
func (c *Connection) NodeKind() Kind { return KindConnection }

// BoundingRect returns the scene-space rectangle spanned by the cached
// segment.
func (c *Connection) BoundingRect() geometry.Rect {
	x := math.Min(c.Line.A.X, c.Line.B.X)
	y := math.Min(c.Line.A.Y, c.Line.B.Y)
	return geometry.Rect{
		X: x,
		Y: y,
		W: math.Abs(c.Line.B.X - c.Line.A.X),
		H: math.Abs(c.Line.B.Y - c.Line.A.Y),
	}
}

// HitTest checks whether p lies within half an anchor handle of the
// connection's line.
func (c *Connection) HitTest(p geometry.Point) bool {
	return geometry.SegmentDistance(p, c.Line.A, c.Line.B) <= AnchorSize/2
}

// OnPositionChanged is a no-op: connection geometry is derived, the
// editor core recomputes it from the endpoint anchors.
func (c *Connection) OnPositionChanged() {}

// Anchor is the scene-node view of a single docking point. It exists so
// hit-testing can treat anchors as first-class canvas items; its
// position is pure derived geometry owned by the block.
type Anchor struct {
	Ref    AnchorRef
	Center geometry.Point // resolved scene position
}

// NodeKind tags the anchor variant.
func (a Anchor) NodeKind() Kind { return KindAnchor }

// BoundingRect returns the handle's visual square, centered on the
// anchor point.
func (a Anchor) BoundingRect() geometry.Rect {
	half := AnchorSize / 2
	return geometry.Rect{X: a.Center.X - half, Y: a.Center.Y - half, W: AnchorSize, H: AnchorSize}
}

// HitTest checks whether p falls on the handle.
func (a Anchor) HitTest(p geometry.Point) bool {
	return geometry.Dist(p, a.Center) <= AnchorSize
}

// OnPositionChanged is a no-op: anchors are derived from their block.
func (a Anchor) OnPositionChanged() {}

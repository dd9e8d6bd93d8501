// Package scene contains the fundamental types of the skema scene graph:
// blocks, clusters, connections and the anchor model that ties them together.
package scene

import "skema/geometry"

// Orientation identifies one of the four docking points on a block's
// perimeter.
type Orientation int

const (
	Top Orientation = iota
	Bottom
	Left
	Right
)

// Orientations lists all four anchor orientations in a stable order.
var Orientations = []Orientation{Top, Bottom, Left, Right}

// String returns the wire name of the orientation, as used in the
// document format.
func (o Orientation) String() string {
	switch o {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseOrientation converts a wire name back to an Orientation.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "top":
		return Top, true
	case "bottom":
		return Bottom, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	default:
		return 0, false
	}
}

// Opposite returns the orientation on the far side of the block.
func (o Orientation) Opposite() Orientation {
	switch o {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	default:
		return o
	}
}

// Model defaults shared by the editor, the codec and the renderers.
const (
	AnchorSize          = 8.0       // visual diameter of an anchor handle
	ClusterMargin       = 10.0      // bounding-rect margin on each side
	DefaultBlockColor   = "#ffffff" // new blocks are white
	DefaultClusterColor = "#ffeeaa"
	DefaultBlockWidth   = 150.0
	DefaultBlockHeight  = 80.0
	DefaultBlockTitle   = "New block"
)

// Kind tags the closed set of scene-node variants. Dispatch happens on
// the tag rather than through type hierarchies.
type Kind int

const (
	KindBlock Kind = iota
	KindCluster
	KindAnchor
	KindConnection
)

// Node is the capability surface shared by everything that lives on the
// canvas. BoundingRect and HitTest operate in the node's parent
// coordinate space; OnPositionChanged fires the owner's change hook so
// dependent geometry can be recomputed synchronously.
type Node interface {
	NodeKind() Kind
	BoundingRect() geometry.Rect
	HitTest(p geometry.Point) bool
	OnPositionChanged()
}

// AnchorRef identifies one docking point on one block.
type AnchorRef struct {
	Block       int
	Orientation Orientation
}

// Segment is a resolved scene-space line between two points.
type Segment struct {
	A, B geometry.Point
}

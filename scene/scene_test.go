package scene

import (
	"testing"

	"skema/geometry"
)

func TestOrientationRoundTrip(t *testing.T) {
	for _, o := range Orientations {
		parsed, ok := ParseOrientation(o.String())
		if !ok || parsed != o {
			t.Errorf("ParseOrientation(%q) = %v, %v", o.String(), parsed, ok)
		}
	}
	if _, ok := ParseOrientation("diagonal"); ok {
		t.Error("unknown orientation name should not parse")
	}
}

func TestOrientationOpposite(t *testing.T) {
	pairs := map[Orientation]Orientation{
		Top:    Bottom,
		Bottom: Top,
		Left:   Right,
		Right:  Left,
	}
	for o, want := range pairs {
		if got := o.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", o, got, want)
		}
	}
}

// The four anchor offsets are a pure function of block size, whatever
// the block's move history.
func TestAnchorOffsets(t *testing.T) {
	b := NewBlock(1)
	sizes := []geometry.Size{
		{W: 150, H: 80},
		{W: 1, H: 1},
		{W: 300, H: 45},
	}
	for _, s := range sizes {
		b.Resize(s)
		b.Move(geometry.Point{X: 123, Y: -45}) // must not affect offsets

		checks := map[Orientation]geometry.Point{
			Top:    {X: s.W / 2, Y: 0},
			Bottom: {X: s.W / 2, Y: s.H},
			Left:   {X: 0, Y: s.H / 2},
			Right:  {X: s.W, Y: s.H / 2},
		}
		for o, want := range checks {
			if got := b.AnchorOffset(o); got != want {
				t.Errorf("size %+v: AnchorOffset(%v) = %+v, want %+v", s, o, got, want)
			}
		}
	}
}

func TestBlockLockedMove(t *testing.T) {
	b := NewBlock(1)
	b.Position = geometry.Point{X: 100, Y: 100}

	b.Lock()
	if b.Move(geometry.Point{X: 200, Y: 200}) {
		t.Error("locked block accepted a move")
	}
	if b.Position != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("locked block moved to %+v", b.Position)
	}

	b.Unlock()
	if !b.MoveBy(geometry.Point{X: 30, Y: -10}) {
		t.Error("unlocked block rejected a move")
	}
	if b.Position != (geometry.Point{X: 130, Y: 90}) {
		t.Errorf("position after move = %+v, want (130,90)", b.Position)
	}
}

func TestBlockResizeValidation(t *testing.T) {
	b := NewBlock(1)
	orig := b.Size
	if b.Resize(geometry.Size{W: 0, H: 50}) {
		t.Error("zero width resize accepted")
	}
	if b.Resize(geometry.Size{W: 50, H: -1}) {
		t.Error("negative height resize accepted")
	}
	if b.Size != orig {
		t.Errorf("size changed by rejected resize: %+v", b.Size)
	}
	if !b.Resize(geometry.Size{W: 60, H: 40}) {
		t.Error("valid resize rejected")
	}
}

func TestBlockMovedHook(t *testing.T) {
	b := NewBlock(1)
	fired := 0
	b.SetMovedHook(func() { fired++ })

	b.Move(geometry.Point{X: 1, Y: 1})
	b.Resize(geometry.Size{W: 10, H: 10})
	if fired != 2 {
		t.Errorf("hook fired %d times, want 2", fired)
	}

	b.Lock()
	b.Move(geometry.Point{X: 2, Y: 2})
	if fired != 2 {
		t.Error("hook fired for a rejected move")
	}
}

func TestClusterMembers(t *testing.T) {
	c := NewCluster(1, "Cluster 1", geometry.Rect{W: 100, H: 100})
	c.AddMember(3)
	c.AddMember(7)
	c.AddMember(3) // duplicate, ignored
	if len(c.Members) != 2 || c.Members[0] != 3 || c.Members[1] != 7 {
		t.Errorf("members = %v, want [3 7]", c.Members)
	}
	c.RemoveMember(3)
	if len(c.Members) != 1 || c.Members[0] != 7 {
		t.Errorf("members after remove = %v, want [7]", c.Members)
	}
	if c.HasMember(3) {
		t.Error("removed member still reported")
	}
}

func TestClusterSceneRect(t *testing.T) {
	c := NewCluster(1, "Cluster 1", geometry.Rect{X: 90, Y: 40, W: 200, H: 100})
	c.Move(geometry.Point{X: 50, Y: 0})
	got := c.SceneRect()
	want := geometry.Rect{X: 140, Y: 40, W: 200, H: 100}
	if got != want {
		t.Errorf("SceneRect = %+v, want %+v", got, want)
	}
}

func TestClusterResizeDoesNotMove(t *testing.T) {
	c := NewCluster(1, "Cluster 1", geometry.Rect{X: 10, Y: 20, W: 100, H: 50})
	if !c.Resize(geometry.Size{W: 300, H: 200}) {
		t.Fatal("valid resize rejected")
	}
	if c.Rect.X != 10 || c.Rect.Y != 20 {
		t.Errorf("resize moved the rect origin to (%v,%v)", c.Rect.X, c.Rect.Y)
	}
	if c.Rect.W != 300 || c.Rect.H != 200 {
		t.Errorf("rect size = %vx%v, want 300x200", c.Rect.W, c.Rect.H)
	}
}

func TestConnectionHitTest(t *testing.T) {
	conn := &Connection{
		Line: Segment{A: geometry.Point{X: 0, Y: 0}, B: geometry.Point{X: 100, Y: 0}},
	}
	if !conn.HitTest(geometry.Point{X: 50, Y: 2}) {
		t.Error("point near the line should hit")
	}
	if conn.HitTest(geometry.Point{X: 50, Y: 20}) {
		t.Error("point far from the line should miss")
	}
}

func TestConnectionTouches(t *testing.T) {
	end := AnchorRef{Block: 2, Orientation: Left}
	conn := &Connection{Start: AnchorRef{Block: 1, Orientation: Right}, End: &end}
	if !conn.Touches(1) || !conn.Touches(2) {
		t.Error("connection should touch both endpoint blocks")
	}
	if conn.Touches(3) {
		t.Error("connection touches an unrelated block")
	}
	pending := &Connection{Start: AnchorRef{Block: 1, Orientation: Top}}
	if pending.Committed() {
		t.Error("connection without end reported committed")
	}
	if pending.Touches(2) {
		t.Error("pending connection touches a block it never referenced")
	}
}

func TestNodeKinds(t *testing.T) {
	var nodes = []struct {
		node Node
		want Kind
	}{
		{NewBlock(1), KindBlock},
		{NewCluster(1, "c", geometry.Rect{W: 1, H: 1}), KindCluster},
		{Anchor{}, KindAnchor},
		{&Connection{}, KindConnection},
	}
	for _, n := range nodes {
		if got := n.node.NodeKind(); got != n.want {
			t.Errorf("NodeKind = %v, want %v", got, n.want)
		}
	}
}

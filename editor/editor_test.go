package editor

import (
	"testing"

	"skema/geometry"
	"skema/scene"
)

// addBlockAt creates a block and pins it to a known position, since
// AddBlock places new blocks randomly.
func addBlockAt(t *testing.T, e *Editor, x, y float64) *scene.Block {
	t.Helper()
	b := e.AddBlock()
	if !e.MoveBlock(b.ID, geometry.Point{X: x, Y: y}) {
		t.Fatalf("failed to place block %d", b.ID)
	}
	return b
}

func TestAddBlockDefaults(t *testing.T) {
	e := New()
	b := e.AddBlock()

	if b.ID != 1 {
		t.Errorf("first block id = %d, want 1", b.ID)
	}
	if b.Size.W != scene.DefaultBlockWidth || b.Size.H != scene.DefaultBlockHeight {
		t.Errorf("default size = %+v", b.Size)
	}
	if b.Color != scene.DefaultBlockColor {
		t.Errorf("default color = %q", b.Color)
	}
	if b.Locked || b.Parent != 0 {
		t.Errorf("new block locked=%v parent=%d", b.Locked, b.Parent)
	}
	if b.Position.X < 0 || b.Position.X > 400 || b.Position.Y < 0 || b.Position.Y > 300 {
		t.Errorf("spawn position %+v outside default region", b.Position)
	}
	if e.CurrentBlock() != b.ID {
		t.Error("new block did not take the edit focus")
	}

	if e.AddBlock().ID != 2 {
		t.Error("ids are not monotonic")
	}
}

func TestDeleteCascadesConnections(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 0, 0)
	b := addBlockAt(t, e, 300, 0)
	c := addBlockAt(t, e, 600, 0)

	connect(t, e, a.ID, scene.Right, b.ID, scene.Left)
	connect(t, e, b.ID, scene.Right, c.ID, scene.Left)
	connect(t, e, a.ID, scene.Bottom, c.ID, scene.Bottom)

	// Deleting A removes exactly the two connections touching it.
	e.SelectBlock(a.ID)
	e.DeleteSelected()

	if e.Block(a.ID) != nil {
		t.Fatal("block A still registered")
	}
	conns := e.Connections()
	if len(conns) != 1 {
		t.Fatalf("connection count = %d, want 1", len(conns))
	}
	if conns[0].Start.Block != b.ID || conns[0].End.Block != c.ID {
		t.Error("surviving connection is not the B->C edge")
	}
}

func TestDeleteClusterKeepsBlocks(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 100, 100)
	b := addBlockAt(t, e, 300, 100)
	e.SelectBlock(a.ID)
	e.ToggleSelectBlock(b.ID)
	c, err := e.Group()
	if err != nil {
		t.Fatal(err)
	}
	e.MoveClusterBy(c.ID, geometry.Point{X: 40, Y: 0})

	wantA := e.ScenePosition(a)
	wantB := e.ScenePosition(b)

	e.SelectCluster(c.ID)
	e.DeleteSelected()

	if e.Cluster(c.ID) != nil {
		t.Fatal("cluster still registered")
	}
	if e.Block(a.ID) == nil || e.Block(b.ID) == nil {
		t.Fatal("deleting the cluster deleted its blocks")
	}
	if a.Parent != 0 || b.Parent != 0 {
		t.Error("blocks still parented after cluster deletion")
	}
	if a.Position != wantA || b.Position != wantB {
		t.Errorf("blocks jumped on cluster deletion: %+v %+v, want %+v %+v",
			a.Position, b.Position, wantA, wantB)
	}
}

func TestGroupNeedsTwoBlocks(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 0, 0)
	e.SelectBlock(a.ID)
	if _, err := e.Group(); err == nil {
		t.Error("grouping a single block should fail")
	}
	if len(e.Clusters()) != 0 {
		t.Error("failed group still created a cluster")
	}
}

func TestGroupBoundingRect(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 100, 100) // 150x80
	b := addBlockAt(t, e, 400, 150)
	e.SelectBlock(a.ID)
	e.ToggleSelectBlock(b.ID)

	c, err := e.Group()
	if err != nil {
		t.Fatal(err)
	}
	// Union of (100,100,150,80) and (400,150,150,80), expanded by 10.
	want := geometry.Rect{X: 90, Y: 90, W: 470, H: 150}
	if c.Rect != want {
		t.Errorf("cluster rect = %+v, want %+v", c.Rect, want)
	}
	if c.Title != "Cluster 1" {
		t.Errorf("cluster title = %q", c.Title)
	}
	if !c.HasMember(a.ID) || !c.HasMember(b.ID) {
		t.Error("members missing from cluster")
	}
	if a.Parent != c.ID || b.Parent != c.ID {
		t.Error("blocks not reparented")
	}
	// Cluster position starts at zero, so grouping must not move anything.
	if got := e.ScenePosition(a); got != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("block A jumped on grouping: %+v", got)
	}
}

func TestClusterMoveShiftsAnchors(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 100, 100)
	b := addBlockAt(t, e, 400, 100)
	e.SelectBlock(a.ID)
	e.ToggleSelectBlock(b.ID)
	c, err := e.Group()
	if err != nil {
		t.Fatal(err)
	}

	before := map[int][]scene.Anchor{
		a.ID: e.Anchors(a),
		b.ID: e.Anchors(b),
	}

	if !e.MoveClusterBy(c.ID, geometry.Point{X: 50, Y: 0}) {
		t.Fatal("cluster move rejected")
	}

	for _, blk := range []*scene.Block{a, b} {
		after := e.Anchors(blk)
		for i, anchor := range after {
			want := before[blk.ID][i].Center.Add(geometry.Point{X: 50, Y: 0})
			if anchor.Center != want {
				t.Errorf("block %d anchor %v = %+v, want %+v",
					blk.ID, anchor.Ref.Orientation, anchor.Center, want)
			}
		}
	}

	// Detaching afterwards must leave blocks at their shifted positions.
	preA := e.ScenePosition(a)
	preB := e.ScenePosition(b)
	e.SetCurrentCluster(c.ID)
	if !e.DetachClusterBlocks() {
		t.Fatal("detach failed")
	}
	if a.Parent != 0 || b.Parent != 0 {
		t.Error("blocks still parented after detach")
	}
	if a.Position != preA || b.Position != preB {
		t.Errorf("detach moved blocks: %+v %+v, want %+v %+v",
			a.Position, b.Position, preA, preB)
	}
	if !c.Rect.Empty() {
		t.Errorf("detach did not collapse the cluster rect: %+v", c.Rect)
	}
	if len(c.Members) != 0 {
		t.Errorf("members remain after detach: %v", c.Members)
	}
}

func TestAttachScansUnparentedBlocks(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 100, 100)
	b := addBlockAt(t, e, 200, 120)
	e.SelectBlock(a.ID)
	e.ToggleSelectBlock(b.ID)
	c, err := e.Group()
	if err != nil {
		t.Fatal(err)
	}
	rectBefore := c.Rect

	inside := addBlockAt(t, e, 150, 110)  // inside the cluster rect
	outside := addBlockAt(t, e, 900, 900) // far away

	e.SetCurrentCluster(c.ID)
	attached := e.AttachClusterBlocks()

	if len(attached) != 1 || attached[0] != inside.ID {
		t.Errorf("attached = %v, want [%d]", attached, inside.ID)
	}
	if inside.Parent != c.ID {
		t.Error("inside block not reparented")
	}
	if outside.Parent != 0 {
		t.Error("outside block was attached")
	}
	if got := e.ScenePosition(inside); got != (geometry.Point{X: 150, Y: 110}) {
		t.Errorf("attach moved the block to %+v", got)
	}
	// The bounding rect is deliberately left stale.
	if c.Rect != rectBefore {
		t.Errorf("attach recomputed the rect: %+v, want %+v", c.Rect, rectBefore)
	}

	// Attaching again is idempotent.
	if again := e.AttachClusterBlocks(); len(again) != 0 {
		t.Errorf("second attach grabbed %v", again)
	}
}

func TestLockedBlockMoves(t *testing.T) {
	e := New()
	b := addBlockAt(t, e, 100, 100)
	e.SetCurrentBlock(b.ID)
	e.FixCurrent()

	if e.MoveBlock(b.ID, geometry.Point{X: 500, Y: 500}) {
		t.Error("locked block accepted a move")
	}
	if b.Position != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("locked block at %+v", b.Position)
	}

	e.UnfixCurrent()
	if !e.MoveBlockBy(b.ID, geometry.Point{X: 7, Y: -3}) {
		t.Error("unlocked block rejected a move")
	}
	if b.Position != (geometry.Point{X: 107, Y: 97}) {
		t.Errorf("position after delta move = %+v, want (107,97)", b.Position)
	}
}

func TestChangeColor(t *testing.T) {
	e := New()
	b := e.AddBlock()

	if !e.ChangeColor("#112233") {
		t.Fatal("valid color rejected")
	}
	if b.Color != "#112233" {
		t.Errorf("block color = %q", b.Color)
	}
	if e.ChangeColor("not-a-color") {
		t.Error("junk color accepted")
	}
	if b.Color != "#112233" {
		t.Error("junk color changed the block")
	}

	e.NewFile()
	if e.ChangeColor("#112233") {
		t.Error("color change with no focus should be a no-op")
	}
}

func TestSaveEditFallback(t *testing.T) {
	e := New()
	b := e.AddBlock()
	e.SetCurrentBlock(b.ID)

	if !e.SaveEdit("Pump", "q = m \\cdot c", "200", "90") {
		t.Fatal("edit rejected")
	}
	if b.Title != "Pump" || b.Content != "q = m \\cdot c" {
		t.Errorf("title/content = %q/%q", b.Title, b.Content)
	}
	if b.Size != (geometry.Size{W: 200, H: 90}) {
		t.Errorf("size = %+v, want 200x90", b.Size)
	}

	// Junk dimensions fall back to the current geometry; the edit still
	// succeeds.
	if !e.SaveEdit("Pump 2", "", "wide", "-4") {
		t.Fatal("edit with junk size rejected entirely")
	}
	if b.Title != "Pump 2" {
		t.Error("title not applied on fallback")
	}
	if b.Size != (geometry.Size{W: 200, H: 90}) {
		t.Errorf("fallback size = %+v, want 200x90", b.Size)
	}
}

func TestEditLockFreezesFocus(t *testing.T) {
	e := New()
	a := e.AddBlock()
	b := e.AddBlock()

	e.SetCurrentBlock(a.ID)
	e.SetEditLock(true)
	e.SetCurrentBlock(b.ID)
	if e.CurrentBlock() != a.ID {
		t.Error("edit lock did not freeze the focus")
	}

	e.SetEditLock(false)
	e.SetCurrentBlock(b.ID)
	if e.CurrentBlock() != b.ID {
		t.Error("focus did not move after unlocking")
	}
}

func TestFocusIsExclusive(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 0, 0)
	b := addBlockAt(t, e, 300, 0)
	e.SelectBlock(a.ID)
	e.ToggleSelectBlock(b.ID)
	c, err := e.Group()
	if err != nil {
		t.Fatal(err)
	}

	e.SetCurrentCluster(c.ID)
	if e.CurrentBlock() != 0 || e.CurrentCluster() != c.ID {
		t.Error("cluster focus did not clear block focus")
	}
	e.SetCurrentBlock(a.ID)
	if e.CurrentCluster() != 0 || e.CurrentBlock() != a.ID {
		t.Error("block focus did not clear cluster focus")
	}
}

func TestMovePropagatesToConnections(t *testing.T) {
	e := New()
	a := addBlockAt(t, e, 100, 100)
	b := addBlockAt(t, e, 400, 100)
	connect(t, e, a.ID, scene.Right, b.ID, scene.Left)

	conn := e.Connections()[0]
	if conn.Line.A != (geometry.Point{X: 250, Y: 140}) {
		t.Fatalf("initial start endpoint = %+v", conn.Line.A)
	}

	// The cached segment updates synchronously with the move.
	e.MoveBlock(a.ID, geometry.Point{X: 0, Y: 0})
	if conn.Line.A != (geometry.Point{X: 150, Y: 40}) {
		t.Errorf("endpoint after move = %+v, want (150,40)", conn.Line.A)
	}
	if conn.Line.B != (geometry.Point{X: 400, Y: 140}) {
		t.Errorf("far endpoint moved: %+v", conn.Line.B)
	}
}

// connect commits a connection between two anchors or fails the test.
func connect(t *testing.T, e *Editor, fromBlock int, fromO scene.Orientation, toBlock int, toO scene.Orientation) {
	t.Helper()
	if !e.StartConnection(scene.AnchorRef{Block: fromBlock, Orientation: fromO}) {
		t.Fatalf("StartConnection from block %d failed", fromBlock)
	}
	if !e.EndConnection(scene.AnchorRef{Block: toBlock, Orientation: toO}) {
		t.Fatalf("EndConnection to block %d failed", toBlock)
	}
}

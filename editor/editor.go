// Package editor implements the scene graph manager: it owns every
// block, cluster and connection by id, assigns identities, enforces the
// model invariants and mediates all interactive mutation. Entities
// cross-reference each other by integer id only; this package is the
// single place those ids are resolved.
package editor

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"skema/geometry"
	"skema/scene"
)

// New blocks land at a random point inside this region, like the
// original editor dropped them near the canvas origin.
const (
	spawnRegionW = 400
	spawnRegionH = 300
)

// Editor is the scene graph manager. It is not safe for concurrent use;
// all mutation happens synchronously on the interaction thread.
type Editor struct {
	blocks      map[int]*scene.Block
	clusters    map[int]*scene.Cluster
	connections []*scene.Connection

	nextBlockID   int
	nextClusterID int

	// Edit focus: at most one of the two is non-zero.
	currentBlock   int
	currentCluster int
	editLocked     bool

	// Multi-selection, in click order.
	selectedBlocks   []int
	selectedClusters []int

	pending *scene.Connection

	rng *rand.Rand
}

// New creates an empty editor.
func New() *Editor {
	e := &Editor{
		rng: rand.New(rand.NewSource(rand.Int63())),
	}
	e.reset()
	return e
}

func (e *Editor) reset() {
	e.blocks = make(map[int]*scene.Block)
	e.clusters = make(map[int]*scene.Cluster)
	e.connections = nil
	e.nextBlockID = 1
	e.nextClusterID = 1
	e.currentBlock = 0
	e.currentCluster = 0
	e.editLocked = false
	e.selectedBlocks = nil
	e.selectedClusters = nil
	e.pending = nil
}

// NewFile discards the whole diagram: registries, id counters,
// selection and any pending connection.
func (e *Editor) NewFile() {
	e.reset()
}

// Block returns the block with the given id, or nil.
func (e *Editor) Block(id int) *scene.Block {
	return e.blocks[id]
}

// Cluster returns the cluster with the given id, or nil.
func (e *Editor) Cluster(id int) *scene.Cluster {
	return e.clusters[id]
}

// Blocks returns all blocks sorted by id.
func (e *Editor) Blocks() []*scene.Block {
	out := make([]*scene.Block, 0, len(e.blocks))
	for _, b := range e.blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clusters returns all clusters sorted by id.
func (e *Editor) Clusters() []*scene.Cluster {
	out := make([]*scene.Cluster, 0, len(e.clusters))
	for _, c := range e.clusters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Connections returns the committed connection set.
func (e *Editor) Connections() []*scene.Connection {
	return e.connections
}

// AddBlock creates a block at a random position within the default
// spawn region, registers it and gives it the edit focus.
func (e *Editor) AddBlock() *scene.Block {
	b := scene.NewBlock(e.nextBlockID)
	e.nextBlockID++
	b.Position = geometry.Point{
		X: float64(e.rng.Intn(spawnRegionW + 1)),
		Y: float64(e.rng.Intn(spawnRegionH + 1)),
	}
	e.register(b)
	e.SetCurrentBlock(b.ID)
	return b
}

// register wires a block into the arena and installs its change hook so
// dependent connection geometry is recomputed synchronously on every
// position-affecting mutation.
func (e *Editor) register(b *scene.Block) {
	e.blocks[b.ID] = b
	id := b.ID
	b.SetMovedHook(func() { e.updateConnectionsForBlock(id) })
	if b.ID >= e.nextBlockID {
		e.nextBlockID = b.ID + 1
	}
}

func (e *Editor) registerCluster(c *scene.Cluster) {
	e.clusters[c.ID] = c
	id := c.ID
	c.SetMovedHook(func() { e.updateConnectionsForCluster(id) })
	if c.ID >= e.nextClusterID {
		e.nextClusterID = c.ID + 1
	}
}

// ScenePosition resolves a block's position to scene space, composing
// the parent cluster's transform when the block is parented.
func (e *Editor) ScenePosition(b *scene.Block) geometry.Point {
	if b.Parent != 0 {
		if c := e.clusters[b.Parent]; c != nil {
			return b.Position.Add(c.Position)
		}
	}
	return b.Position
}

// SceneRect returns a block's bounding rectangle in scene space.
func (e *Editor) SceneRect(b *scene.Block) geometry.Rect {
	return geometry.NewRect(e.ScenePosition(b), b.Size)
}

// AnchorPosition resolves an anchor reference to its scene-space center.
func (e *Editor) AnchorPosition(ref scene.AnchorRef) (geometry.Point, bool) {
	b := e.blocks[ref.Block]
	if b == nil {
		return geometry.Point{}, false
	}
	return e.ScenePosition(b).Add(b.AnchorOffset(ref.Orientation)), true
}

// Anchors returns the four resolved anchors of a block.
func (e *Editor) Anchors(b *scene.Block) []scene.Anchor {
	base := e.ScenePosition(b)
	out := make([]scene.Anchor, 0, len(scene.Orientations))
	for _, o := range scene.Orientations {
		out = append(out, scene.Anchor{
			Ref:    scene.AnchorRef{Block: b.ID, Orientation: o},
			Center: base.Add(b.AnchorOffset(o)),
		})
	}
	return out
}

// MoveBlock places a block at p in its parent coordinate space. Locked
// blocks stay put and the move reports false.
func (e *Editor) MoveBlock(id int, p geometry.Point) bool {
	b := e.blocks[id]
	if b == nil {
		return false
	}
	return b.Move(p)
}

// MoveBlockBy translates a block by d in its parent coordinate space.
func (e *Editor) MoveBlockBy(id int, d geometry.Point) bool {
	b := e.blocks[id]
	if b == nil {
		return false
	}
	return b.MoveBy(d)
}

// MoveBlockToScene places a block at a scene-space position, converting
// into the parent cluster's coordinate space when the block is parented.
func (e *Editor) MoveBlockToScene(id int, p geometry.Point) bool {
	b := e.blocks[id]
	if b == nil {
		return false
	}
	if b.Parent != 0 {
		if c := e.clusters[b.Parent]; c != nil {
			p = p.Sub(c.Position)
		}
	}
	return b.Move(p)
}

// MoveCluster places a cluster at p in scene space, carrying members.
func (e *Editor) MoveCluster(id int, p geometry.Point) bool {
	c := e.clusters[id]
	if c == nil {
		return false
	}
	return c.Move(p)
}

// MoveClusterBy translates a cluster by d in scene space.
func (e *Editor) MoveClusterBy(id int, d geometry.Point) bool {
	c := e.clusters[id]
	if c == nil {
		return false
	}
	return c.MoveBy(d)
}

// updateConnectionsForBlock synchronously recomputes the cached segment
// of every connection touching the block, plus a pending connection
// anchored on it.
func (e *Editor) updateConnectionsForBlock(id int) {
	for _, conn := range e.connections {
		if conn.Touches(id) {
			e.refreshConnection(conn)
		}
	}
	if e.pending != nil && e.pending.Start.Block == id {
		if p, ok := e.AnchorPosition(e.pending.Start); ok {
			e.pending.Line.A = p
		}
	}
}

func (e *Editor) updateConnectionsForCluster(id int) {
	c := e.clusters[id]
	if c == nil {
		return
	}
	for _, bid := range c.Members {
		e.updateConnectionsForBlock(bid)
	}
}

// refreshConnection re-resolves both anchored endpoints of a connection.
func (e *Editor) refreshConnection(conn *scene.Connection) {
	if p, ok := e.AnchorPosition(conn.Start); ok {
		conn.Line.A = p
	}
	if conn.End != nil {
		if p, ok := e.AnchorPosition(*conn.End); ok {
			conn.Line.B = p
		}
	}
}

// ChangeColor applies a "#rrggbb" color to whichever of the current
// block or cluster holds the edit focus. Invalid colors and an empty
// focus are no-ops.
func (e *Editor) ChangeColor(hex string) bool {
	col, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	normalized := col.Hex()
	if b := e.blocks[e.currentBlock]; b != nil {
		b.Color = normalized
		return true
	}
	if c := e.clusters[e.currentCluster]; c != nil {
		c.Color = normalized
		return true
	}
	return false
}

// FixCurrent locks the focused block or cluster in place. Locked
// objects remain selectable but immovable.
func (e *Editor) FixCurrent() {
	if b := e.blocks[e.currentBlock]; b != nil {
		b.Lock()
		return
	}
	if c := e.clusters[e.currentCluster]; c != nil {
		c.Lock()
	}
}

// UnfixCurrent unlocks the focused block or cluster.
func (e *Editor) UnfixCurrent() {
	if b := e.blocks[e.currentBlock]; b != nil {
		b.Unlock()
		return
	}
	if c := e.clusters[e.currentCluster]; c != nil {
		c.Unlock()
	}
}

// SaveEdit applies the edit-panel fields to the focused object. Width
// and height arrive as raw text; non-numeric or non-positive input
// falls back to the object's current dimensions, so the edit still
// succeeds with unchanged geometry. Cluster edits ignore content.
func (e *Editor) SaveEdit(title, content, widthText, heightText string) bool {
	if b := e.blocks[e.currentBlock]; b != nil {
		b.SetTitle(title)
		b.Content = content
		b.Resize(parseSize(widthText, heightText, b.Size))
		return true
	}
	if c := e.clusters[e.currentCluster]; c != nil {
		c.SetTitle(title)
		c.Resize(parseSize(widthText, heightText, geometry.Size{W: c.Rect.W, H: c.Rect.H}))
		return true
	}
	return false
}

func parseSize(widthText, heightText string, fallback geometry.Size) geometry.Size {
	w, errW := strconv.ParseFloat(widthText, 64)
	h, errH := strconv.ParseFloat(heightText, 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return fallback
	}
	return geometry.Size{W: w, H: h}
}

// DeleteSelected removes every selected block (cascading to all
// connections touching it and to its cluster membership) and every
// selected cluster (detaching members first; member blocks survive).
// The result is independent of selection order.
func (e *Editor) DeleteSelected() {
	for _, id := range append([]int(nil), e.selectedBlocks...) {
		e.deleteBlock(id)
	}
	for _, id := range append([]int(nil), e.selectedClusters...) {
		e.deleteCluster(id)
	}
	e.selectedBlocks = nil
	e.selectedClusters = nil
}

func (e *Editor) deleteBlock(id int) {
	b := e.blocks[id]
	if b == nil {
		return
	}
	kept := e.connections[:0]
	for _, conn := range e.connections {
		if !conn.Touches(id) {
			kept = append(kept, conn)
		}
	}
	e.connections = kept
	if e.pending != nil && e.pending.Start.Block == id {
		e.pending = nil
	}
	if c := e.clusters[b.Parent]; c != nil {
		c.RemoveMember(id)
	}
	delete(e.blocks, id)
	if e.currentBlock == id {
		e.currentBlock = 0
	}
}

func (e *Editor) deleteCluster(id int) {
	c := e.clusters[id]
	if c == nil {
		return
	}
	e.detach(c)
	delete(e.clusters, id)
	if e.currentCluster == id {
		e.currentCluster = 0
	}
}

// Group collects the currently selected blocks into a new cluster. At
// least two blocks must be selected; otherwise nothing happens and an
// error describes the insufficient selection.
func (e *Editor) Group() (*scene.Cluster, error) {
	members := make([]*scene.Block, 0, len(e.selectedBlocks))
	for _, id := range e.selectedBlocks {
		if b := e.blocks[id]; b != nil {
			members = append(members, b)
		}
	}
	if len(members) < 2 {
		return nil, fmt.Errorf("need at least 2 blocks selected to group, have %d", len(members))
	}

	var rect geometry.Rect
	for _, b := range members {
		rect = rect.United(e.SceneRect(b))
	}
	rect = rect.Expanded(scene.ClusterMargin)

	c := scene.NewCluster(e.nextClusterID, fmt.Sprintf("Cluster %d", e.nextClusterID), rect)
	e.nextClusterID++
	e.registerCluster(c)

	// The cluster's own translation starts at zero, so reparenting a
	// block keeps its resolved scene position: local = scene - position.
	for _, b := range members {
		e.reparent(b, c)
	}
	return c, nil
}

// reparent moves a block into the cluster's coordinate space without
// changing its resolved scene position.
func (e *Editor) reparent(b *scene.Block, c *scene.Cluster) {
	scenePos := e.ScenePosition(b)
	if old := e.clusters[b.Parent]; old != nil {
		old.RemoveMember(b.ID)
	}
	b.Parent = c.ID
	b.Position = scenePos.Sub(c.Position)
	c.AddMember(b.ID)
}

// DetachClusterBlocks releases every member of the focused cluster back
// to scene space, keeping each block exactly where it was, and
// collapses the cluster's rectangle to empty. The cluster itself stays.
func (e *Editor) DetachClusterBlocks() bool {
	c := e.clusters[e.currentCluster]
	if c == nil {
		return false
	}
	e.detach(c)
	return true
}

func (e *Editor) detach(c *scene.Cluster) {
	for _, id := range c.Members {
		b := e.blocks[id]
		if b == nil {
			continue
		}
		scenePos := e.ScenePosition(b)
		b.Parent = 0
		b.Position = scenePos
	}
	c.Members = nil
	c.Rect = geometry.Rect{}
}

// AttachClusterBlocks scans all unparented blocks whose scene position
// falls inside the focused cluster's current bounding rectangle and
// reparents them in. Blocks already inside are untouched; the
// rectangle is deliberately not recomputed.
func (e *Editor) AttachClusterBlocks() []int {
	c := e.clusters[e.currentCluster]
	if c == nil {
		return nil
	}
	rect := c.SceneRect()
	var attached []int
	for _, b := range e.Blocks() {
		if b.Parent == 0 && rect.Contains(b.Position) {
			e.reparent(b, c)
			attached = append(attached, b.ID)
		}
	}
	return attached
}

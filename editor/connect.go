package editor

import (
	"skema/geometry"
	"skema/scene"
)

// Interactive connection drawing. The machine has two states: Idle (no
// connection in progress) and Pending (exactly one connection tracking
// the pointer). Commit and cancel both return to Idle; there is never
// more than one pending connection system-wide.

// ConnState is the interaction state of connection drawing.
type ConnState int

const (
	ConnIdle ConnState = iota
	ConnPending
)

// ConnectionState reports whether a connection is being drawn.
func (e *Editor) ConnectionState() ConnState {
	if e.pending != nil {
		return ConnPending
	}
	return ConnIdle
}

// PendingConnection returns the in-progress connection, or nil.
func (e *Editor) PendingConnection() *scene.Connection {
	return e.pending
}

// StartConnection begins drawing from the given anchor. Legal only from
// Idle; while a connection is already pending the call is a no-op and
// reports false, as does an anchor on a missing block.
func (e *Editor) StartConnection(ref scene.AnchorRef) bool {
	if e.pending != nil {
		return false
	}
	start, ok := e.AnchorPosition(ref)
	if !ok {
		return false
	}
	e.pending = &scene.Connection{
		Start: ref,
		Line:  scene.Segment{A: start, B: start},
	}
	return true
}

// TrackConnection updates the pending connection's free end to the
// current pointer position in scene coordinates. The anchored end is
// re-resolved too, so the line follows its block if that moves mid-drag.
func (e *Editor) TrackConnection(p geometry.Point) {
	if e.pending == nil {
		return
	}
	if start, ok := e.AnchorPosition(e.pending.Start); ok {
		e.pending.Line.A = start
	}
	e.pending.Line.B = p
}

// EndConnection finishes the pending connection at the target anchor.
// A target on the start block cancels instead (self-connections are
// forbidden). Returns true only when a connection was committed; either
// way the machine is Idle afterwards.
func (e *Editor) EndConnection(ref scene.AnchorRef) bool {
	if e.pending == nil {
		return false
	}
	if ref.Block == e.pending.Start.Block || e.blocks[ref.Block] == nil {
		e.CancelConnection()
		return false
	}
	end := ref
	e.pending.End = &end
	e.refreshConnection(e.pending)
	e.connections = append(e.connections, e.pending)
	e.pending = nil
	return true
}

// CancelConnection discards the pending connection. Triggered when the
// pointer is released over empty canvas.
func (e *Editor) CancelConnection() {
	e.pending = nil
}

// DeleteConnection removes the committed connection at the given index.
// Clicking its line is the only independent deletion path a connection
// has; everything else is cascade from block deletion.
func (e *Editor) DeleteConnection(i int) bool {
	if i < 0 || i >= len(e.connections) {
		return false
	}
	e.connections = append(e.connections[:i], e.connections[i+1:]...)
	return true
}

// ConnectionAt hit-tests the committed connections against a scene
// point and returns the index of the first hit, or -1.
func (e *Editor) ConnectionAt(p geometry.Point) int {
	for i, conn := range e.connections {
		if conn.HitTest(p) {
			return i
		}
	}
	return -1
}

// AnchorAt hit-tests every block's anchors against a scene point and
// returns the first handle under it.
func (e *Editor) AnchorAt(p geometry.Point) (scene.AnchorRef, bool) {
	for _, b := range e.Blocks() {
		for _, a := range e.Anchors(b) {
			if a.HitTest(p) {
				return a.Ref, true
			}
		}
	}
	return scene.AnchorRef{}, false
}

// BlockAt returns the topmost block whose scene rectangle contains p,
// or nil. Higher ids are considered on top, matching creation order.
func (e *Editor) BlockAt(p geometry.Point) *scene.Block {
	blocks := e.Blocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		if e.SceneRect(blocks[i]).Contains(p) {
			return blocks[i]
		}
	}
	return nil
}

// ClusterAt returns the topmost cluster whose scene rectangle contains
// p, or nil. Clusters sit behind blocks, so callers test blocks first.
func (e *Editor) ClusterAt(p geometry.Point) *scene.Cluster {
	clusters := e.Clusters()
	for i := len(clusters) - 1; i >= 0; i-- {
		if clusters[i].HitTest(p) {
			return clusters[i]
		}
	}
	return nil
}

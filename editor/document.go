package editor

import (
	"skema/document"
	"skema/geometry"
	"skema/scene"
)

// Snapshot serializes the current state. Block coordinates are written
// resolved to scene space; pending connections are never persisted.
func (e *Editor) Snapshot() *document.Document {
	doc := &document.Document{}
	for _, b := range e.Blocks() {
		pos := e.ScenePosition(b)
		doc.Blocks = append(doc.Blocks, document.Block{
			ID:      b.ID,
			Title:   b.Title,
			Content: b.Content,
			X:       pos.X,
			Y:       pos.Y,
			Width:   b.Size.W,
			Height:  b.Size.H,
			Color:   b.Color,
			Locked:  b.Locked,
		})
	}
	for _, c := range e.Clusters() {
		doc.Clusters = append(doc.Clusters, document.Cluster{
			ID:       c.ID,
			Title:    c.Title,
			Color:    c.Color,
			BlockIDs: append([]int(nil), c.Members...),
			Locked:   c.Locked,
		})
	}
	for _, conn := range e.connections {
		if conn.End == nil {
			continue
		}
		doc.Connections = append(doc.Connections, document.Connection{
			StartBlock:  conn.Start.Block,
			StartAnchor: conn.Start.Orientation.String(),
			EndBlock:    conn.End.Block,
			EndAnchor:   conn.End.Orientation.String(),
		})
	}
	return doc
}

// Load fully replaces the current state with the document's contents:
// blocks first, then clusters resolving membership against the loaded
// blocks, then connections resolving block ids and anchor names.
// Dangling references are skipped silently; a connection to a missing
// block or unknown anchor name is dropped, never fatal. Explicit ids
// bump the id counters forward so retired ids are not reused.
func (e *Editor) Load(doc *document.Document) {
	e.reset()

	for _, rec := range doc.Blocks {
		b := scene.NewBlock(rec.ID)
		b.Title = rec.Title
		b.Content = rec.Content
		b.Position = geometry.Point{X: rec.X, Y: rec.Y}
		if s := (geometry.Size{W: rec.Width, H: rec.Height}); s.Positive() {
			b.Size = s
		}
		if rec.Color != "" {
			b.Color = rec.Color
		}
		b.Locked = rec.Locked
		e.register(b)
	}

	for _, rec := range doc.Clusters {
		var members []*scene.Block
		for _, id := range rec.BlockIDs {
			if b := e.blocks[id]; b != nil && b.Parent == 0 {
				members = append(members, b)
			}
		}
		if len(members) == 0 {
			continue
		}
		var rect geometry.Rect
		for _, b := range members {
			rect = rect.United(e.SceneRect(b))
		}
		rect = rect.Expanded(scene.ClusterMargin)

		c := scene.NewCluster(rec.ID, rec.Title, rect)
		if rec.Color != "" {
			c.Color = rec.Color
		}
		c.Locked = rec.Locked
		e.registerCluster(c)
		for _, b := range members {
			e.reparent(b, c)
		}
	}

	for _, rec := range doc.Connections {
		startO, okStart := scene.ParseOrientation(rec.StartAnchor)
		endO, okEnd := scene.ParseOrientation(rec.EndAnchor)
		if !okStart || !okEnd {
			continue
		}
		if e.blocks[rec.StartBlock] == nil || e.blocks[rec.EndBlock] == nil {
			continue
		}
		if rec.StartBlock == rec.EndBlock {
			continue
		}
		end := scene.AnchorRef{Block: rec.EndBlock, Orientation: endO}
		conn := &scene.Connection{
			Start: scene.AnchorRef{Block: rec.StartBlock, Orientation: startO},
			End:   &end,
		}
		e.refreshConnection(conn)
		e.connections = append(e.connections, conn)
	}
}

// PasteBlock inserts a copy of the record as a brand-new unparented
// block with a fresh id, offset slightly from the original so the copy
// is visible, and focuses it.
func (e *Editor) PasteBlock(rec document.Block) *scene.Block {
	b := scene.NewBlock(e.nextBlockID)
	e.nextBlockID++
	b.Title = rec.Title
	b.Content = rec.Content
	b.Position = geometry.Point{X: rec.X + scene.ClusterMargin, Y: rec.Y + scene.ClusterMargin}
	if s := (geometry.Size{W: rec.Width, H: rec.Height}); s.Positive() {
		b.Size = s
	}
	if rec.Color != "" {
		b.Color = rec.Color
	}
	e.register(b)
	e.SelectBlock(b.ID)
	return b
}

// Open loads a document file, replacing the current diagram only after
// the whole file parses. On error the in-memory state is untouched.
func (e *Editor) Open(path string) error {
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	e.Load(doc)
	return nil
}

// Save writes the current diagram to a file.
func (e *Editor) Save(path string) error {
	return document.Save(path, e.Snapshot())
}

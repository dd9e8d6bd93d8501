// Package render draws a document snapshot to a raster image: clusters
// behind, then connection lines, then blocks with their anchors on top.
// It consumes positions, sizes, colors and titles and emits nothing
// back into the model.
package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"skema/document"
	"skema/geometry"
	"skema/scene"
)

const (
	margin    = 20.0
	titleSize = 13.0
)

// Image renders the document to an in-memory image. An empty document
// is an error; there is nothing to size the canvas from.
func Image(doc *document.Document) (image.Image, error) {
	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("render: document has no blocks")
	}

	blocks := make(map[int]document.Block, len(doc.Blocks))
	var bounds geometry.Rect
	for _, b := range doc.Blocks {
		blocks[b.ID] = b
		bounds = bounds.United(blockRect(b))
	}
	for _, c := range doc.Clusters {
		if r, ok := clusterRect(c, blocks); ok {
			bounds = bounds.United(r)
		}
	}
	bounds = bounds.Expanded(margin)

	dc := gg.NewContext(int(bounds.W), int(bounds.H))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	face, err := loadFace(titleSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	// World-to-image transform is a pure translation.
	origin := bounds.TopLeft()

	for _, c := range doc.Clusters {
		r, ok := clusterRect(c, blocks)
		if !ok {
			continue
		}
		drawRectWithTitle(dc, r.Translated(geometry.Point{X: -origin.X, Y: -origin.Y}), c.Color, scene.DefaultClusterColor, c.Title)
	}

	dc.SetLineWidth(2)
	for _, conn := range doc.Connections {
		start, okS := anchorPoint(blocks, conn.StartBlock, conn.StartAnchor)
		end, okE := anchorPoint(blocks, conn.EndBlock, conn.EndAnchor)
		if !okS || !okE {
			continue
		}
		dc.SetRGB(0, 0.4, 0)
		dc.DrawLine(start.X-origin.X, start.Y-origin.Y, end.X-origin.X, end.Y-origin.Y)
		dc.Stroke()
	}

	for _, b := range doc.Blocks {
		r := blockRect(b).Translated(geometry.Point{X: -origin.X, Y: -origin.Y})
		drawRectWithTitle(dc, r, b.Color, scene.DefaultBlockColor, b.Title)
		for _, o := range scene.Orientations {
			p, _ := anchorPoint(blocks, b.ID, o.String())
			dc.SetRGB(0, 0, 1)
			dc.DrawCircle(p.X-origin.X, p.Y-origin.Y, scene.AnchorSize/2)
			dc.Fill()
		}
	}

	return dc.Image(), nil
}

// PNG renders the document and writes it to a file.
func PNG(doc *document.Document, path string) error {
	img, err := Image(doc)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

func blockRect(b document.Block) geometry.Rect {
	return geometry.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}

// clusterRect derives the cluster's rectangle from its resolved members
// the same way the editor does at group time. Members that no longer
// exist are ignored; a cluster with none is not drawn.
func clusterRect(c document.Cluster, blocks map[int]document.Block) (geometry.Rect, bool) {
	var r geometry.Rect
	found := false
	for _, id := range c.BlockIDs {
		if b, ok := blocks[id]; ok {
			r = r.United(blockRect(b))
			found = true
		}
	}
	if !found {
		return geometry.Rect{}, false
	}
	return r.Expanded(scene.ClusterMargin), true
}

func anchorPoint(blocks map[int]document.Block, id int, anchor string) (geometry.Point, bool) {
	b, ok := blocks[id]
	if !ok {
		return geometry.Point{}, false
	}
	o, ok := scene.ParseOrientation(anchor)
	if !ok {
		return geometry.Point{}, false
	}
	switch o {
	case scene.Top:
		return geometry.Point{X: b.X + b.Width/2, Y: b.Y}, true
	case scene.Bottom:
		return geometry.Point{X: b.X + b.Width/2, Y: b.Y + b.Height}, true
	case scene.Left:
		return geometry.Point{X: b.X, Y: b.Y + b.Height/2}, true
	default:
		return geometry.Point{X: b.X + b.Width, Y: b.Y + b.Height/2}, true
	}
}

func drawRectWithTitle(dc *gg.Context, r geometry.Rect, hex, fallback, title string) {
	fill, err := colorful.Hex(hex)
	if err != nil {
		fill, _ = colorful.Hex(fallback)
	}
	dc.SetColor(fill)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Stroke()
	if title != "" {
		c := r.Center()
		dc.DrawStringAnchored(title, c.X, c.Y, 0.5, 0.5)
	}
}

func loadFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

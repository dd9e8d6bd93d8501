package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"skema/editor"
	"skema/geometry"
	"skema/scene"
)

// draw renders the whole scene back to front: cluster rectangles, then
// connection lines, then blocks with their anchors, then the pending
// connection and the status bar.
func (v *View) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()

	for _, c := range v.ed.Clusters() {
		v.drawCluster(c)
	}
	for _, conn := range v.ed.Connections() {
		v.drawSegment(conn.Line, tcell.StyleDefault.Foreground(tcell.ColorGreen))
	}
	for _, b := range v.ed.Blocks() {
		v.drawBlock(b)
	}
	if pending := v.ed.PendingConnection(); pending != nil {
		v.drawSegment(pending.Line, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	v.drawStatusBar(width, height)
	v.screen.Show()
}

func (v *View) cellRect(r geometry.Rect) (x1, y1, x2, y2 int) {
	x1, y1 = v.vp.CellAt(r.TopLeft())
	x2, y2 = v.vp.CellAt(geometry.Point{X: r.X + r.W, Y: r.Y + r.H})
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return x1, y1, x2, y2
}

func (v *View) drawCluster(c *scene.Cluster) {
	r := c.SceneRect()
	if r.Empty() {
		return
	}
	x1, y1, x2, y2 := v.cellRect(r)
	style := tcell.StyleDefault.Background(hexColor(c.Color, scene.DefaultClusterColor))
	if v.ed.IsClusterSelected(c.ID) {
		style = style.Background(highlight(c.Color, scene.DefaultClusterColor))
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			v.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	title := c.Title
	if c.Locked {
		title = "◆ " + title
	}
	v.drawCentered(title, x1, x2, y1, style.Foreground(tcell.ColorBlack))
}

func (v *View) drawBlock(b *scene.Block) {
	rect := v.ed.SceneRect(b)
	x1, y1, x2, y2 := v.cellRect(rect)
	fill := hexColor(b.Color, scene.DefaultBlockColor)
	if v.ed.IsBlockSelected(b.ID) {
		fill = highlight(b.Color, scene.DefaultBlockColor)
	}
	style := tcell.StyleDefault.Background(fill).Foreground(tcell.ColorBlack)

	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			ch := ' '
			switch {
			case y == y1 && x == x1:
				ch = '┌'
			case y == y1 && x == x2:
				ch = '┐'
			case y == y2 && x == x1:
				ch = '└'
			case y == y2 && x == x2:
				ch = '┘'
			case y == y1 || y == y2:
				ch = '─'
			case x == x1 || x == x2:
				ch = '│'
			}
			v.screen.SetContent(x, y, ch, nil, style)
		}
	}

	title := b.Title
	if b.Locked {
		title = "◆ " + title
	}
	v.drawCentered(title, x1, x2, (y1+y2)/2, style)

	anchorStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for _, a := range v.ed.Anchors(b) {
		col, row := v.vp.CellAt(a.Center)
		v.screen.SetContent(col, row, '●', nil, anchorStyle)
	}
}

// drawCentered writes text centered between columns x1..x2 on one row,
// truncated to fit.
func (v *View) drawCentered(text string, x1, x2, y int, style tcell.Style) {
	inner := x2 - x1 - 1
	if inner < 1 {
		return
	}
	text = runewidth.Truncate(text, inner, "…")
	w := runewidth.StringWidth(text)
	x := x1 + 1 + (inner-w)/2
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// drawSegment rasterizes a scene-space line segment onto cells.
func (v *View) drawSegment(s scene.Segment, style tcell.Style) {
	x1, y1 := v.vp.CellAt(s.A)
	x2, y2 := v.vp.CellAt(s.B)

	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		v.screen.SetContent(x, y, '·', nil, style)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (v *View) drawStatusBar(width, height int) {
	style := tcell.StyleDefault.Reverse(true)
	mode := "IDLE"
	if v.ed.ConnectionState() == editor.ConnPending {
		mode = "CONNECT"
	}
	status := v.status
	if v.editing {
		mode = "EDIT"
		status = string(v.editBuffer) + "▌"
	}
	name := v.filename
	if name == "" {
		name = "[untitled]"
	}
	lock := ""
	if v.ed.EditLocked() {
		lock = " [edit-lock]"
	}
	left := fmt.Sprintf(" %s  %s  %d blocks  %d clusters  %d connections%s ",
		mode, name, len(v.ed.Blocks()), len(v.ed.Clusters()), len(v.ed.Connections()), lock)
	line := left
	if status != "" {
		line += "· " + status
	}
	line = runewidth.Truncate(line, width, "")
	x := 0
	for _, r := range line {
		v.screen.SetContent(x, height-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, height-1, ' ', nil, style)
	}
}

// hexColor converts a "#rrggbb" string to a terminal color, falling
// back to the model default on junk.
func hexColor(hex, fallback string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallback)
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// highlight blends the color toward a selection tint so selected items
// stand out without losing their fill.
func highlight(hex, fallback string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallback)
	}
	tint, _ := colorful.Hex("#5599ff")
	r, g, b := c.BlendRgb(tint, 0.4).RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

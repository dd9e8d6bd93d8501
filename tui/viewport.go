// Package tui is the interactive terminal view over the editor core. It
// owns the scene-to-cell transform, maps pointer and key events onto
// editor operations, and draws the current scene state. All model
// mutation goes through the editor; this package holds only view state.
package tui

import (
	"math"

	"skema/geometry"
)

// Terminal cells are roughly twice as tall as they are wide, so one
// cell row covers twice the scene distance of a cell column.
const cellAspect = 2.0

const (
	defaultScale = 10.0 // scene units per cell column
	zoomFactor   = 1.15
	minScale     = 1.0
	maxScale     = 100.0
)

// Viewport maps between scene coordinates and terminal cells. Offset is
// the scene point at cell (0,0); Scale is scene units per cell column.
type Viewport struct {
	Offset geometry.Point
	Scale  float64
}

// NewViewport returns a viewport at the scene origin.
func NewViewport() Viewport {
	return Viewport{Scale: defaultScale}
}

// SceneAt returns the scene point at the center of the given cell.
func (v Viewport) SceneAt(col, row int) geometry.Point {
	return geometry.Point{
		X: v.Offset.X + (float64(col)+0.5)*v.Scale,
		Y: v.Offset.Y + (float64(row)+0.5)*v.Scale*cellAspect,
	}
}

// CellAt returns the cell containing the given scene point.
func (v Viewport) CellAt(p geometry.Point) (col, row int) {
	col = int(math.Floor((p.X - v.Offset.X) / v.Scale))
	row = int(math.Floor((p.Y - v.Offset.Y) / (v.Scale * cellAspect)))
	return col, row
}

// PanCells shifts the viewport by whole cells.
func (v *Viewport) PanCells(dc, dr int) {
	v.Offset.X += float64(dc) * v.Scale
	v.Offset.Y += float64(dr) * v.Scale * cellAspect
}

// Zoom scales the view by the given factor (>1 zooms in), keeping the
// scene point under the anchor cell fixed.
func (v *Viewport) Zoom(factor float64, col, row int) {
	anchor := v.SceneAt(col, row)
	scale := v.Scale / factor
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	v.Scale = scale
	v.Offset.X = anchor.X - (float64(col)+0.5)*v.Scale
	v.Offset.Y = anchor.Y - (float64(row)+0.5)*v.Scale*cellAspect
}

// Package preview renders a block's rich-text source to an image. The
// editor core treats it as opaque: text in, image out, or an error. It
// stands in for the heavyweight formula renderer the original editor
// shelled out to.
package preview

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
)

// ErrEmptySource is returned when there is nothing to render.
var ErrEmptySource = errors.New("preview: empty source")

const (
	fontSize = 20.0
	padding  = 8.0
)

// Render draws the source text onto a padded white context and returns
// the image. Empty or whitespace-only input is an error; the caller
// surfaces it as a notice and the editor state is untouched.
func Render(source string) (image.Image, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}

	face, err := loadFace(fontSize)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(source, "\n")

	// Measure first with a throwaway context, then draw at final size.
	measure := gg.NewContext(1, 1)
	measure.SetFontFace(face)
	var maxW float64
	lineH := measure.FontHeight() * 1.2
	for _, line := range lines {
		w, _ := measure.MeasureString(line)
		if w > maxW {
			maxW = w
		}
	}

	width := int(maxW + 2*padding)
	height := int(lineH*float64(len(lines)) + 2*padding)
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("preview: degenerate render size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(face)
	for i, line := range lines {
		dc.DrawString(line, padding, padding+lineH*float64(i)+measure.FontHeight())
	}
	return dc.Image(), nil
}

// loadFace parses the bundled italic face, the closest stand-in for
// typeset formula output.
func loadFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("preview: parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

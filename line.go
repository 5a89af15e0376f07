package eink

import (
	"image"
	"image/color"
)

// Line is a horizontal or vertical stroke centered in its area.
type Line struct {
	// Color defaults to black.
	Color string
	// Width defaults to 1 pixel.
	Width    int
	Vertical bool
}

// NewLine creates a line element.
func NewLine(l Line, opts ...Option) *Element {
	return New(&l, opts...)
}

// Kind returns "line".
func (l *Line) Kind() string { return "line" }

// Render draws the stroke over white.
func (l *Line) Render(rc RenderContext) (*image.Gray, error) {
	name := l.Color
	if name == "" {
		name = Black
	}
	c, err := ParseColor(name)
	if err != nil {
		return nil, err
	}
	width := l.Width
	if width <= 0 {
		width = 1
	}

	w, h := rc.Area.Width, rc.Area.Height
	img := newBitmap(w, h, color.Gray{Y: 255})
	if l.Vertical {
		x := (w - width) / 2
		fillRect(img, image.Rect(x, 0, x+width, h), c)
	} else {
		y := (h - width) / 2
		fillRect(img, image.Rect(0, y, w, y+width), c)
	}
	return img, nil
}

// Package frame holds the grayscale frame buffer shared by the display
// backends. A Frame is safe for concurrent use.
package frame

import (
	"image"
	"image/color"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// White is the color of a cleared frame.
var White = color.Gray{Y: 255}

// Frame is a width x height grayscale buffer with a global inversion flag
// and the bounding box of pixels changed since the last TakeDirty.
type Frame struct {
	mu       sync.Mutex
	img      *image.Gray
	inverted bool
	dirty    image.Rectangle
}

// New returns a cleared frame.
func New(width, height int) *Frame {
	f := &Frame{img: image.NewGray(image.Rect(0, 0, max(width, 0), max(height, 0)))}
	fill(f.img, White)
	f.dirty = f.img.Bounds()
	return f
}

// Size returns the frame dimensions.
func (f *Frame) Size() (width, height int) {
	b := f.img.Bounds()
	return b.Dx(), b.Dy()
}

// Bounds returns the frame rectangle.
func (f *Frame) Bounds() image.Rectangle {
	return f.img.Bounds()
}

// Blit copies src onto the frame with its top-left corner at (x, y),
// inverting the copied pixels when asked. It returns the clipped
// rectangle that changed.
func (f *Frame) Blit(src *image.Gray, x, y int, inverted bool) image.Rectangle {
	if src == nil {
		return image.Rectangle{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	sb := src.Bounds()
	r := image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Intersect(f.img.Bounds())
	if r.Empty() {
		return r
	}
	sp := sb.Min.Add(r.Min.Sub(image.Pt(x, y)))
	if inverted {
		for row := 0; row < r.Dy(); row++ {
			d := f.img.Pix[f.img.PixOffset(r.Min.X, r.Min.Y+row):]
			s := src.Pix[src.PixOffset(sp.X, sp.Y+row):]
			for i := 0; i < r.Dx(); i++ {
				d[i] = 255 - s[i]
			}
		}
	} else {
		xdraw.Draw(f.img, r, src, sp, xdraw.Src)
	}
	f.dirty = f.dirty.Union(r)
	return r
}

// Clear blanks the frame to white.
func (f *Frame) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	fill(f.img, White)
	f.dirty = f.img.Bounds()
}

// SetInverted sets the global inversion flag and reports whether it changed.
// A change marks the whole frame dirty.
func (f *Frame) SetInverted(on bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inverted == on {
		return false
	}
	f.inverted = on
	f.dirty = f.img.Bounds()
	return true
}

// Inverted reports the global inversion flag.
func (f *Frame) Inverted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inverted
}

// Gray returns the displayed value at (x, y), global inversion applied.
func (f *Frame) Gray(x, y int) uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !image.Pt(x, y).In(f.img.Bounds()) {
		return White.Y
	}
	v := f.img.Pix[f.img.PixOffset(x, y)]
	if f.inverted {
		v = 255 - v
	}
	return v
}

// Snapshot returns a copy of r as displayed, global inversion applied.
// The copy keeps frame coordinates.
func (f *Frame) Snapshot(r image.Rectangle) *image.Gray {
	f.mu.Lock()
	defer f.mu.Unlock()
	r = r.Intersect(f.img.Bounds())
	out := image.NewGray(r)
	xdraw.Draw(out, r, f.img, r.Min, xdraw.Src)
	if f.inverted {
		for i, v := range out.Pix {
			out.Pix[i] = 255 - v
		}
	}
	return out
}

// Full returns a displayed copy of the whole frame.
func (f *Frame) Full() *image.Gray {
	return f.Snapshot(f.img.Bounds())
}

// RGBA writes the displayed frame into dst, one entry per pixel in row
// order. dst must hold at least width*height entries.
func (f *Frame) RGBA(dst []color.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range f.img.Pix {
		if f.inverted {
			v = 255 - v
		}
		dst[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
}

// MarkDirty marks the whole frame as changed.
func (f *Frame) MarkDirty() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = f.img.Bounds()
}

// TakeDirty returns and resets the changed region.
func (f *Frame) TakeDirty() image.Rectangle {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.dirty
	f.dirty = image.Rectangle{}
	return r
}

func fill(img *image.Gray, c color.Gray) {
	for i := range img.Pix {
		img.Pix[i] = c.Y
	}
}

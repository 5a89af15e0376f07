package eink

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// newBitmap returns a w x h bitmap filled with c, origin at (0, 0).
func newBitmap(w, h int, c color.Gray) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, max(w, 0), max(h, 0)))
	if c.Y != 0 {
		for i := range img.Pix {
			img.Pix[i] = c.Y
		}
	}
	return img
}

// paste copies src onto dst with src's origin at (x, y) in dst's
// coordinates, clipped to dst, inverting the copied pixels if asked.
func paste(dst, src *image.Gray, x, y int, inverted bool) {
	if src == nil {
		return
	}
	sb := src.Bounds()
	r := image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	sp := sb.Min.Add(r.Min.Sub(image.Pt(x, y)))
	if !inverted {
		xdraw.Draw(dst, r, src, sp, xdraw.Src)
		return
	}
	for row := 0; row < r.Dy(); row++ {
		d := dst.Pix[dst.PixOffset(r.Min.X, r.Min.Y+row):]
		s := src.Pix[src.PixOffset(sp.X, sp.Y+row):]
		for i := 0; i < r.Dx(); i++ {
			d[i] = 255 - s[i]
		}
	}
}

// invertBitmap returns an inverted copy of img.
func invertBitmap(img *image.Gray) *image.Gray {
	out := image.NewGray(img.Bounds())
	paste(out, img, img.Bounds().Min.X, img.Bounds().Min.Y, true)
	return out
}

// fillRect paints r (in img coordinates) with c.
func fillRect(img *image.Gray, r image.Rectangle, c color.Gray) {
	xdraw.Draw(img, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

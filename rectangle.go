package eink

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847

// Rectangle is a filled box with an optional outline.
type Rectangle struct {
	Style Style
}

// NewRectangle creates a rectangle element.
func NewRectangle(st Style, opts ...Option) *Element {
	return New(&Rectangle{Style: st}, opts...)
}

// Kind returns "rectangle".
func (r *Rectangle) Kind() string { return "rectangle" }

func (r *Rectangle) instanceStyle() Style { return r.Style }

// Render draws the box.
func (r *Rectangle) Render(rc RenderContext) (*image.Gray, error) {
	return drawBox(rc.Area.Width, rc.Area.Height, rc.Style())
}

// drawBox renders the background, outline and corner radius of st into a
// new w x h bitmap.
func drawBox(w, h int, st Style) (*image.Gray, error) {
	bg, err := ParseColor(st.Background)
	if err != nil {
		return nil, err
	}
	ow := max(st.OutlineWidth, 0)
	var fg color.Gray
	if ow > 0 {
		if fg, err = ParseColor(st.Outline); err != nil {
			return nil, err
		}
	}

	if st.Radius > 0 {
		img := newBitmap(w, h, color.Gray{Y: 255})
		bounds := img.Bounds()
		if ow > 0 {
			fillMask(img, roundedMask(w, h, bounds, float32(st.Radius)), fg)
		}
		inner := bounds.Inset(ow)
		fillMask(img, roundedMask(w, h, inner, float32(max(st.Radius-ow, 0))), bg)
		return img, nil
	}

	img := newBitmap(w, h, bg)
	strokeSides(img, st, fg)
	return img, nil
}

// strokeSides draws the outline of st on the selected sides of img.
func strokeSides(img *image.Gray, st Style, fg color.Gray) {
	ow := max(st.OutlineWidth, 0)
	if ow == 0 {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	sides := st.Sides
	if sides == 0 {
		sides = AllSides
	}
	if sides&SideTop != 0 {
		fillRect(img, image.Rect(0, 0, w, ow), fg)
	}
	if sides&SideBottom != 0 {
		fillRect(img, image.Rect(0, h-ow, w, h), fg)
	}
	if sides&SideLeft != 0 {
		fillRect(img, image.Rect(0, 0, ow, h), fg)
	}
	if sides&SideRight != 0 {
		fillRect(img, image.Rect(w-ow, 0, w, h), fg)
	}
}

// roundedMask rasterizes a rounded rectangle covering r into a w x h mask.
func roundedMask(w, h int, r image.Rectangle, radius float32) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if r.Empty() {
		return mask
	}
	x0, y0 := float32(r.Min.X), float32(r.Min.Y)
	x1, y1 := float32(r.Max.X), float32(r.Max.Y)
	radius = min(radius, (x1-x0)/2, (y1-y0)/2)
	k := radius * kappa

	z := vector.NewRasterizer(w, h)
	z.MoveTo(x0+radius, y0)
	z.LineTo(x1-radius, y0)
	z.CubeTo(x1-radius+k, y0, x1, y0+radius-k, x1, y0+radius)
	z.LineTo(x1, y1-radius)
	z.CubeTo(x1, y1-radius+k, x1-radius+k, y1, x1-radius, y1)
	z.LineTo(x0+radius, y1)
	z.CubeTo(x0+radius-k, y1, x0, y1-radius+k, x0, y1-radius)
	z.LineTo(x0, y0+radius)
	z.CubeTo(x0, y0+radius-k, x0+radius-k, y0, x0+radius, y0)
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func fillMask(img *image.Gray, mask *image.Alpha, c color.Gray) {
	xdraw.DrawMask(img, img.Bounds(), image.NewUniform(c), image.Point{}, mask, image.Point{}, xdraw.Over)
}

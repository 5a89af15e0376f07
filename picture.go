package eink

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	xdraw "golang.org/x/image/draw"
)

// Picture draws an image centered in its area over white.
type Picture struct {
	Image image.Image
	// Resize scales the image to fit the area, keeping its aspect ratio.
	Resize bool
}

// NewPicture creates a picture element.
func NewPicture(img image.Image, resize bool, opts ...Option) *Element {
	return New(&Picture{Image: img, Resize: resize}, opts...)
}

// Kind returns "picture".
func (p *Picture) Kind() string { return "picture" }

// Render draws the image.
func (p *Picture) Render(rc RenderContext) (*image.Gray, error) {
	return drawPicture(rc.Area.Width, rc.Area.Height, p.Image, p.Resize), nil
}

func drawPicture(w, h int, src image.Image, resize bool) *image.Gray {
	img := newBitmap(w, h, color.Gray{Y: 255})
	if src == nil {
		return img
	}
	sb := src.Bounds()
	dw, dh := sb.Dx(), sb.Dy()
	if resize && dw > 0 && dh > 0 {
		if dw*h > dh*w {
			dw, dh = w, dh*w/dw
		} else {
			dw, dh = dw*h/dh, h
		}
	}
	x, y := (w-dw)/2, (h-dh)/2
	dst := image.Rect(x, y, x+dw, y+dh)
	if resize {
		xdraw.CatmullRom.Scale(img, dst, src, sb, xdraw.Over, nil)
	} else {
		xdraw.Draw(img, dst, src, sb.Min, xdraw.Over)
	}
	return img
}

// Icon is a picture loaded from a PNG or JPEG file and scaled to its area.
type Icon struct {
	Path string

	loaded string
	img    image.Image
}

// NewIcon creates an icon element. The file is read on first render.
func NewIcon(path string, opts ...Option) *Element {
	return New(&Icon{Path: path}, opts...)
}

// Kind returns "icon".
func (i *Icon) Kind() string { return "icon" }

// Render loads the file if the path changed and draws it.
func (i *Icon) Render(rc RenderContext) (*image.Gray, error) {
	if i.img == nil || i.loaded != i.Path {
		img, err := loadImage(i.Path)
		if err != nil {
			return nil, err
		}
		i.img, i.loaded = img, i.Path
	}
	return drawPicture(rc.Area.Width, rc.Area.Height, i.img, true), nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

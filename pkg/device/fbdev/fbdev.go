// Package fbdev paints to a Linux framebuffer such as /dev/fb0. Panels
// that refresh on their own when the framebuffer changes need nothing
// else; Refresh only rewrites the memory when the global inversion flips.
package fbdev

import (
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/grindlemire/go-eink/internal/debug"
	"github.com/grindlemire/go-eink/internal/frame"
)

// Bitfield locates one color channel inside a pixel.
type Bitfield struct {
	Offset uint32
	Length uint32
}

// Layout describes the framebuffer memory.
type Layout struct {
	Width, Height int
	BitsPerPixel  int
	// Stride is the length of one line in bytes.
	Stride           int
	Red, Green, Blue Bitfield
}

// Validate checks that the layout can be painted.
func (l Layout) Validate() error {
	switch l.BitsPerPixel {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported depth %d bpp", l.BitsPerPixel)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", l.Width, l.Height)
	}
	if l.Stride < l.Width*l.BitsPerPixel/8 {
		return fmt.Errorf("line length %d too short for %d pixels", l.Stride, l.Width)
	}
	return nil
}

// pack encodes a gray value as one pixel.
func (l Layout) pack(v uint8) uint32 {
	if l.BitsPerPixel == 8 {
		return uint32(v)
	}
	return channel(v, l.Red) | channel(v, l.Green) | channel(v, l.Blue)
}

func channel(v uint8, f Bitfield) uint32 {
	if f.Length == 0 {
		return 0
	}
	c := uint32(v)
	if f.Length < 8 {
		c >>= 8 - f.Length
	}
	return c << f.Offset
}

// Device paints a frame into framebuffer memory.
type Device struct {
	frame  *frame.Frame
	layout Layout
	mem    []byte
	unmap  func() error

	mu  sync.Mutex
	log *logrus.Entry
}

// NewDevice paints into mem laid out as l. mem usually comes from Open.
func NewDevice(mem []byte, l Layout) (*Device, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if need := l.Stride * l.Height; len(mem) < need {
		return nil, fmt.Errorf("framebuffer holds %d bytes, need %d", len(mem), need)
	}
	return &Device{
		frame:  frame.New(l.Width, l.Height),
		layout: l,
		mem:    mem,
		log:    debug.With("fbdev"),
	}, nil
}

// Layout returns the memory layout.
func (d *Device) Layout() Layout {
	return d.layout
}

// Size returns the resolution.
func (d *Device) Size() (width, height int) {
	return d.frame.Size()
}

// Blit copies img onto the frame and into the framebuffer.
func (d *Device) Blit(img *image.Gray, x, y int, inverted bool) error {
	r := d.frame.Blit(img, x, y, inverted)
	if !r.Empty() {
		d.flush(r)
	}
	return nil
}

// Refresh rewrites the framebuffer when the global inversion changed.
func (d *Device) Refresh(inverted, flashing bool) error {
	if d.frame.SetInverted(inverted) {
		d.flush(d.frame.Bounds())
	}
	d.log.WithField("flashing", flashing).Debug("refresh")
	return nil
}

// Clear blanks the frame.
func (d *Device) Clear() error {
	d.frame.Clear()
	d.flush(d.frame.Bounds())
	return nil
}

// Close unmaps the framebuffer opened by Open. Later paints are dropped.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mem = nil
	if d.unmap == nil {
		return nil
	}
	err := d.unmap()
	d.unmap = nil
	return err
}

func (d *Device) flush(r image.Rectangle) {
	snap := d.frame.Snapshot(r)
	r = snap.Rect
	bpp := d.layout.BitsPerPixel / 8

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mem == nil {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := snap.Pix[snap.PixOffset(r.Min.X, y):]
		off := y*d.layout.Stride + r.Min.X*bpp
		for x := 0; x < r.Dx(); x++ {
			v := d.layout.pack(src[x])
			for b := 0; b < bpp; b++ {
				d.mem[off+b] = byte(v >> (8 * b))
			}
			off += bpp
		}
	}
}

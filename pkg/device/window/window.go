// Package window emulates an e-ink panel in a desktop window drawn with
// raylib. Left clicks are reported as taps.
//
// raylib must be driven from the main goroutine, so Run blocks main while
// the stack runs elsewhere.
package window

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"

	"github.com/grindlemire/go-eink/internal/debug"
	"github.com/grindlemire/go-eink/internal/frame"
	"github.com/grindlemire/go-eink/pkg/touch"
)

// Option configures a Device.
type Option func(*Device)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(d *Device) {
		d.title = title
	}
}

// WithScale draws every frame pixel as scale x scale screen pixels.
func WithScale(scale float32) Option {
	return func(d *Device) {
		if scale > 0 {
			d.scale = scale
		}
	}
}

// Device shows a frame in a raylib window.
type Device struct {
	frame *frame.Frame
	title string
	scale float32
	fps   int32

	// flash makes the next drawn frame black, like a full waveform.
	flash atomic.Bool

	touches   chan touch.Point
	closeOnce sync.Once
	log       *logrus.Entry
}

// New creates a device. The window opens in Run.
func New(width, height int, opts ...Option) *Device {
	d := &Device{
		frame:   frame.New(width, height),
		title:   "eink",
		scale:   1,
		fps:     30,
		touches: make(chan touch.Point, 16),
		log:     debug.With("window"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Size returns the frame size in pixels.
func (d *Device) Size() (width, height int) {
	return d.frame.Size()
}

// Blit copies img onto the frame. The window picks it up on its next frame.
func (d *Device) Blit(img *image.Gray, x, y int, inverted bool) error {
	d.frame.Blit(img, x, y, inverted)
	return nil
}

// Refresh applies the global inversion. A flashing refresh shows one
// black frame first.
func (d *Device) Refresh(inverted, flashing bool) error {
	d.frame.SetInverted(inverted)
	d.frame.MarkDirty()
	if flashing {
		d.flash.Store(true)
	}
	return nil
}

// Clear blanks the frame.
func (d *Device) Clear() error {
	d.frame.Clear()
	return nil
}

// Touches returns the taps made with the left mouse button.
func (d *Device) Touches() touch.Chan {
	return d.touches
}

// Close closes the touch channel. The window itself closes when Run returns.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		close(d.touches)
	})
	return nil
}

// Run opens the window and draws until it is closed or ctx is done. It
// must be called from the main goroutine.
func (d *Device) Run(ctx context.Context) error {
	defer d.Close()

	w, h := d.frame.Size()
	rl.InitWindow(int32(float32(w)*d.scale), int32(float32(h)*d.scale), d.title)
	defer rl.CloseWindow()
	if !rl.IsWindowReady() {
		return errors.New("raylib window is not ready")
	}
	rl.SetTargetFPS(d.fps)

	img := rl.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, w, h)))
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(tex)

	pixels := make([]color.RGBA, w*h)
	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !d.frame.TakeDirty().Empty() {
			d.frame.RGBA(pixels)
			rl.UpdateTexture(tex, pixels)
		}
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			pos := rl.GetMousePosition()
			d.click(int(pos.X/d.scale), int(pos.Y/d.scale))
		}

		rl.BeginDrawing()
		if d.flash.Swap(false) {
			rl.ClearBackground(rl.Black)
		} else {
			rl.ClearBackground(rl.White)
			rl.DrawTextureEx(tex, rl.NewVector2(0, 0), 0, d.scale, rl.White)
		}
		rl.EndDrawing()
	}
	d.log.Debug("window closed")
	return nil
}

func (d *Device) click(x, y int) {
	if !image.Pt(x, y).In(d.frame.Bounds()) {
		return
	}
	select {
	case d.touches <- touch.Point{X: x, Y: y}:
	default:
		d.log.WithFields(logrus.Fields{"x": x, "y": y}).Warn("touch channel full, dropping click")
	}
}

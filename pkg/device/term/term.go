// Package term emulates an e-ink panel in a terminal. Every cell shows two
// vertically stacked pixel blocks using the upper half block glyph, and
// left clicks are reported as taps.
package term

import (
	"context"
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/grindlemire/go-eink/internal/debug"
	"github.com/grindlemire/go-eink/internal/frame"
	"github.com/grindlemire/go-eink/pkg/touch"
)

const upperHalf = '▀'

// Device draws a frame onto a tcell screen.
type Device struct {
	frame  *frame.Frame
	screen tcell.Screen

	mu      sync.Mutex
	scale   int
	buttons tcell.ButtonMask

	touches   chan touch.Point
	closeOnce sync.Once
	log       *logrus.Entry
}

// New opens the controlling terminal.
func New(width, height int) (*Device, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(screen, width, height), nil
}

// NewWithScreen draws onto an initialized screen.
func NewWithScreen(screen tcell.Screen, width, height int) *Device {
	screen.EnableMouse()
	screen.HideCursor()
	d := &Device{
		frame:   frame.New(width, height),
		screen:  screen,
		touches: make(chan touch.Point, 16),
		log:     debug.With("term"),
	}
	d.resize()
	return d
}

// Size returns the frame size in pixels.
func (d *Device) Size() (width, height int) {
	return d.frame.Size()
}

// Blit copies img onto the frame and redraws the covered cells.
func (d *Device) Blit(img *image.Gray, x, y int, inverted bool) error {
	r := d.frame.Blit(img, x, y, inverted)
	if !r.Empty() {
		d.draw(r)
		d.screen.Show()
	}
	return nil
}

// Refresh applies the global inversion and redraws the screen. A flashing
// refresh also repaints every terminal cell.
func (d *Device) Refresh(inverted, flashing bool) error {
	d.frame.SetInverted(inverted)
	d.draw(d.frame.Bounds())
	if flashing {
		d.screen.Sync()
		return nil
	}
	d.screen.Show()
	return nil
}

// Clear blanks the frame.
func (d *Device) Clear() error {
	d.frame.Clear()
	d.draw(d.frame.Bounds())
	d.screen.Show()
	return nil
}

// Touches returns the taps made with the left mouse button. The channel is
// closed when the device closes.
func (d *Device) Touches() touch.Chan {
	return d.touches
}

// Run polls terminal events until ctx is done or the user quits with Esc
// or Ctrl-C. The screen is finalized on return.
func (d *Device) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go d.screen.ChannelEvents(events, quit)
	defer close(quit)
	defer d.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !d.handle(ev) {
				return nil
			}
		}
	}
}

// Close finalizes the screen and closes the touch channel.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.screen.Fini()
		close(d.touches)
	})
	return nil
}

// handle processes one event and reports whether to keep running.
func (d *Device) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		}
	case *tcell.EventResize:
		d.resize()
		d.draw(d.frame.Bounds())
		d.screen.Sync()
	case *tcell.EventMouse:
		d.mouse(ev)
	}
	return true
}

func (d *Device) mouse(ev *tcell.EventMouse) {
	d.mu.Lock()
	pressed := ev.Buttons()&tcell.Button1 != 0 && d.buttons&tcell.Button1 == 0
	d.buttons = ev.Buttons()
	d.mu.Unlock()
	if !pressed {
		return
	}
	cx, cy := ev.Position()
	p, ok := d.pixel(cx, cy)
	if !ok {
		return
	}
	select {
	case d.touches <- p:
	default:
		d.log.WithFields(logrus.Fields{"x": p.X, "y": p.Y}).Warn("touch channel full, dropping click")
	}
}

// resize picks the smallest scale that fits the frame in the terminal.
func (d *Device) resize() {
	cols, rows := d.screen.Size()
	w, h := d.frame.Size()
	d.mu.Lock()
	d.scale = fitScale(w, h, cols, rows)
	d.mu.Unlock()
	d.screen.Clear()
}

// fitScale returns how many pixels one cell column covers. A cell row
// covers twice that.
func fitScale(width, height, cols, rows int) int {
	s := 1
	if cols > 0 {
		s = max(s, ceilDiv(width, cols))
	}
	if rows > 0 {
		s = max(s, ceilDiv(height, 2*rows))
	}
	return s
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func (d *Device) cellScale() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scale
}

// pixel maps a cell to the frame pixel at its center.
func (d *Device) pixel(cx, cy int) (touch.Point, bool) {
	s := d.cellScale()
	p := touch.Point{X: cx*s + s/2, Y: cy*2*s + s}
	if !image.Pt(p.X, p.Y).In(d.frame.Bounds()) {
		return touch.Point{}, false
	}
	return p, true
}

// draw sets every cell overlapping r.
func (d *Device) draw(r image.Rectangle) {
	s := d.cellScale()
	c0, c1 := r.Min.X/s, ceilDiv(r.Max.X, s)
	r0, r1 := r.Min.Y/(2*s), ceilDiv(r.Max.Y, 2*s)
	snap := d.frame.Snapshot(image.Rect(c0*s, r0*2*s, c1*s, r1*2*s))
	for cy := r0; cy < r1; cy++ {
		for cx := c0; cx < c1; cx++ {
			top := average(snap, image.Rect(cx*s, cy*2*s, (cx+1)*s, cy*2*s+s))
			bottom := average(snap, image.Rect(cx*s, cy*2*s+s, (cx+1)*s, (cy+1)*2*s))
			st := tcell.StyleDefault.Foreground(gray(top)).Background(gray(bottom))
			d.screen.SetContent(cx, cy, upperHalf, nil, st)
		}
	}
}

func gray(v uint8) tcell.Color {
	return tcell.NewRGBColor(int32(v), int32(v), int32(v))
}

// average returns the mean of r within img. Pixels outside img count as
// white.
func average(img *image.Gray, r image.Rectangle) uint8 {
	n := r.Dx() * r.Dy()
	if n <= 0 {
		return frame.White.Y
	}
	in := r.Intersect(img.Bounds())
	sum := (n - in.Dx()*in.Dy()) * int(frame.White.Y)
	for y := in.Min.Y; y < in.Max.Y; y++ {
		row := img.Pix[img.PixOffset(in.Min.X, y):]
		for x := 0; x < in.Dx(); x++ {
			sum += int(row[x])
		}
	}
	return uint8(sum / n)
}

package touch

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grindlemire/go-eink/internal/debug"
)

const (
	// maxDropped is the number of consecutive dropped packets tolerated
	// before Next gives up.
	maxDropped = 4
	// maxIncomplete is the number of consecutive packets allowed to end
	// without completing a tap.
	maxIncomplete = 5
)

// ErrDecode is matched by every *DecodeError.
var ErrDecode = errors.New("touch decode failed")

// DecodeError reports a tap that could not be assembled. The decoder has
// already discarded its state; calling Next again resumes scanning.
type DecodeError struct {
	Reason   string
	Attempts int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("touch: %s after %d packets", e.Reason, e.Attempts)
}

// Unwrap lets errors.Is match ErrDecode.
func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// Point is a decoded tap in view coordinates.
type Point struct {
	X, Y int
}

type config struct {
	format   Format
	rotate   bool
	window   time.Duration
	halfSize int
	now      func() time.Time
	grab     bool
}

func defaultConfig() config {
	return config{
		format:   NativeFormat(),
		rotate:   true,
		window:   DefaultDebounce,
		halfSize: DefaultDeadZone,
		now:      time.Now,
	}
}

// Option configures a Decoder or Listener.
type Option func(*config)

// WithFormat sets the input_event record size.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithoutRotation keeps raw coordinates, for sources that already report
// in view orientation.
func WithoutRotation() Option {
	return func(c *config) {
		c.rotate = false
	}
}

// WithDebounce sets the debounce window and the half size of the dead zone.
func WithDebounce(window time.Duration, halfSize int) Option {
	return func(c *config) {
		c.window = window
		c.halfSize = halfSize
	}
}

// WithClock replaces time.Now for debouncing.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithGrab requests exclusive access to the device (EVIOCGRAB) in Open.
func WithGrab() Option {
	return func(c *config) {
		c.grab = true
	}
}

// Decoder turns a stream of input_event records into taps.
type Decoder struct {
	r         io.Reader
	format    Format
	rotate    bool
	viewWidth int
	buf       []byte
	packet    []Event
	log       *logrus.Entry
}

// NewDecoder reads records from r. viewWidth is the width of the view in
// the rotated orientation.
func NewDecoder(r io.Reader, viewWidth int, opts ...Option) *Decoder {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return newDecoder(r, viewWidth, c)
}

func newDecoder(r io.Reader, viewWidth int, c config) *Decoder {
	return &Decoder{
		r:         r,
		format:    c.format,
		rotate:    c.rotate,
		viewWidth: viewWidth,
		buf:       make([]byte, Format24.Size()),
		log:       debug.With("touch"),
	}
}

// readPacket collects events up to and including the next SYN_REPORT.
// A SYN_DROPPED discards the packet and everything up to the next
// SYN_REPORT, in which case ok is false.
func (d *Decoder) readPacket() (packet []Event, ok bool, err error) {
	d.packet = d.packet[:0]
	dropping := false
	for {
		e, err := ReadEvent(d.r, d.format, d.buf)
		if err != nil {
			return nil, false, err
		}
		if e.Type == EvSyn && e.Code == SynDropped {
			dropping = true
			d.packet = d.packet[:0]
			continue
		}
		isReport := e.Type == EvSyn && e.Code == SynReport
		if dropping {
			if isReport {
				return nil, false, nil
			}
			continue
		}
		d.packet = append(d.packet, e)
		if isReport {
			return d.packet, true, nil
		}
	}
}

// tap accumulates state across packets.
type tap struct {
	x, y              int
	pressed, released bool
}

func (t *tap) apply(packet []Event) {
	for _, e := range packet {
		switch e.Type {
		case EvKey:
			if e.Code == BtnTouch {
				t.press(e.Value)
			}
		case EvAbs:
			switch e.Code {
			case AbsX, AbsMTPositionX:
				t.x = int(e.Value)
			case AbsY, AbsMTPositionY:
				t.y = int(e.Value)
			case AbsMTPressure, AbsMTTouchMajor:
				// Some firmware never sends BTN_TOUCH.
				t.press(e.Value)
			}
		}
	}
}

func (t *tap) press(v int32) {
	if v > 0 {
		t.pressed = true
	} else {
		t.released = true
	}
}

func (t *tap) complete() bool {
	return t.x >= 0 && t.y >= 0 && t.pressed && t.released
}

// Next blocks until a full tap has been read and returns its rotated
// position. It returns a *DecodeError when packets keep being dropped or
// keep ending without a complete tap, and the reader's error otherwise.
func (d *Decoder) Next() (Point, error) {
	t := tap{x: -1, y: -1}
	dropped, incomplete := 0, 0
	for {
		packet, ok, err := d.readPacket()
		if err != nil {
			return Point{}, err
		}
		if !ok {
			dropped++
			d.log.Debugf("dropped packet (%d in a row)", dropped)
			if dropped > maxDropped {
				return Point{}, &DecodeError{Reason: "sync dropped repeatedly", Attempts: dropped}
			}
			continue
		}
		dropped = 0

		t.apply(packet)
		if t.complete() {
			return d.orient(t.x, t.y), nil
		}
		incomplete++
		if incomplete >= maxIncomplete {
			return Point{}, &DecodeError{Reason: "incomplete touch packet", Attempts: incomplete}
		}
	}
}

// orient maps raw panel axes onto the view.
func (d *Decoder) orient(x, y int) Point {
	if !d.rotate {
		return Point{X: x, Y: y}
	}
	return Point{X: d.viewWidth - y, Y: x}
}

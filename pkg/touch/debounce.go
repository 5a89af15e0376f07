package touch

import "time"

const (
	DefaultDebounce = 200 * time.Millisecond
	DefaultDeadZone = 7
)

// Debouncer suppresses repeated taps. A tap is rejected only when it lands
// inside the dead zone around the last accepted tap and the window has not
// yet elapsed. Every accepted tap re-centers the zone and restarts the window.
type Debouncer struct {
	window   time.Duration
	halfSize int
	now      func() time.Time

	primed bool
	last   time.Time
	x0, y0 int
	x1, y1 int
}

// NewDebouncer returns a Debouncer. A nil now uses time.Now.
func NewDebouncer(window time.Duration, halfSize int, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	return &Debouncer{window: window, halfSize: halfSize, now: now}
}

// Allow reports whether p should be dispatched.
func (d *Debouncer) Allow(p Point) bool {
	t := d.now()
	if d.primed && d.inZone(p) && t.Sub(d.last) < d.window {
		return false
	}
	d.primed = true
	d.last = t
	d.x0, d.y0 = p.X-d.halfSize, p.Y-d.halfSize
	d.x1, d.y1 = p.X+d.halfSize, p.Y+d.halfSize
	return true
}

func (d *Debouncer) inZone(p Point) bool {
	return p.X >= d.x0 && p.X < d.x1 && p.Y >= d.y0 && p.Y < d.y1
}

package eink

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/grindlemire/go-eink/internal/debug"
)

func TestMain(m *testing.M) {
	debug.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newTestStack returns a stack over a w x h mock device driven by a fake clock.
func newTestStack(t *testing.T, w, h int, opts ...StackOption) (*Stack, *MockDevice, *fakeClock) {
	t.Helper()
	dev := NewMockDevice(w, h)
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	s, err := NewStack(dev, append([]StackOption{WithClock(clock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}
	return s, dev, clock
}

// solid returns a borderless rectangle filled with color.
func solid(color string, opts ...Option) *Element {
	return NewRectangle(Style{Background: color, OutlineWidth: -1}, opts...)
}

func grayAt(t *testing.T, dev *MockDevice, x, y int) uint8 {
	t.Helper()
	return dev.Frame().GrayAt(x, y).Y
}

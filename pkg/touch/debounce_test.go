package touch

import (
	"bytes"
	"io"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestDebouncer_Allow(t *testing.T) {
	type step struct {
		after time.Duration
		p     Point
		allow bool
	}
	type tc struct {
		steps []step
	}

	tests := map[string]tc{
		"same point within window": {
			steps: []step{
				{p: Point{100, 100}, allow: true},
				{after: 50 * time.Millisecond, p: Point{100, 100}, allow: false},
			},
		},
		"same point after window": {
			steps: []step{
				{p: Point{100, 100}, allow: true},
				{after: 250 * time.Millisecond, p: Point{100, 100}, allow: true},
			},
		},
		"far point within window": {
			steps: []step{
				{p: Point{100, 100}, allow: true},
				{after: 10 * time.Millisecond, p: Point{200, 100}, allow: true},
			},
		},
		"dead zone edge": {
			steps: []step{
				{p: Point{100, 100}, allow: true},
				{after: time.Millisecond, p: Point{106, 93}, allow: false},
				{after: time.Millisecond, p: Point{107, 100}, allow: true},
			},
		},
		"accepted touch re-centers the zone": {
			steps: []step{
				{p: Point{100, 100}, allow: true},
				{after: 10 * time.Millisecond, p: Point{300, 300}, allow: true},
				{after: 10 * time.Millisecond, p: Point{100, 100}, allow: true},
				{after: 10 * time.Millisecond, p: Point{300, 300}, allow: true},
			},
		},
		"rejected touch does not reset the timer": {
			steps: []step{
				{p: Point{100, 100}, allow: true},
				{after: 150 * time.Millisecond, p: Point{100, 100}, allow: false},
				{after: 60 * time.Millisecond, p: Point{100, 100}, allow: true},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1000, 0)}
			d := NewDebouncer(DefaultDebounce, DefaultDeadZone, clock.now)
			for i, s := range tt.steps {
				clock.advance(s.after)
				if got := d.Allow(s.p); got != s.allow {
					t.Errorf("step %d: Allow(%+v) = %v, want %v", i, s.p, got, s.allow)
				}
			}
		})
	}
}

func TestListener_DebouncesAndSkipsDecodeErrors(t *testing.T) {
	var events []Event
	events = append(events, tapEvents(10, 10)...)
	events = append(events, tapEvents(10, 10)...)
	for i := 0; i < maxIncomplete; i++ {
		events = append(events, abs(AbsY, 1), syn(SynReport))
	}
	events = append(events, tapEvents(50, 50)...)

	var b []byte
	for _, e := range events {
		b = AppendEvent(b, Format24, e)
	}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	l := NewListener(bytes.NewReader(b), 100, WithFormat(Format24), WithClock(clock.now))

	var got []Point
	for {
		p, err := l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		got = append(got, p)
	}

	want := []Point{{X: 90, Y: 10}, {X: 50, Y: 50}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestListener_SeparatedTapsBothDispatch(t *testing.T) {
	var b []byte
	for _, e := range append(tapEvents(10, 10), tapEvents(10, 10)...) {
		b = AppendEvent(b, Format24, e)
	}
	times := []time.Time{time.Unix(1000, 0), time.Unix(1000, 0).Add(300 * time.Millisecond)}
	i := 0
	now := func() time.Time {
		t := times[i]
		i++
		return t
	}
	l := NewListener(bytes.NewReader(b), 100, WithFormat(Format24), WithClock(now))

	for n := 0; n < 2; n++ {
		if _, err := l.Next(); err != nil {
			t.Fatalf("tap %d: %v", n, err)
		}
	}
	if _, err := l.Next(); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestChan(t *testing.T) {
	ch := make(chan Point, 1)
	ch <- Point{X: 1, Y: 2}
	close(ch)

	src := Chan(ch)
	if p, err := src.Next(); err != nil || p != (Point{X: 1, Y: 2}) {
		t.Errorf("Next() = %+v, %v", p, err)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

package touch

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func stream(f Format, events ...Event) *bytes.Reader {
	var b []byte
	for _, e := range events {
		b = AppendEvent(b, f, e)
	}
	return bytes.NewReader(b)
}

func key(code uint16, v int32) Event { return Event{Type: EvKey, Code: code, Value: v} }
func abs(code uint16, v int32) Event { return Event{Type: EvAbs, Code: code, Value: v} }
func syn(code uint16) Event          { return Event{Type: EvSyn, Code: code} }

// tapEvents is a press packet followed by a release packet.
func tapEvents(x, y int32) []Event {
	return []Event{
		key(BtnTouch, 1), abs(AbsX, x), abs(AbsY, y), syn(SynReport),
		key(BtnTouch, 0), syn(SynReport),
	}
}

func TestDecoder_Next(t *testing.T) {
	type tc struct {
		events   []Event
		expected Point
	}

	tests := map[string]tc{
		"button touch": {
			events:   tapEvents(100, 200),
			expected: Point{X: 1080 - 200, Y: 100},
		},
		"multitouch with pressure": {
			events: []Event{
				abs(AbsMTPositionX, 10), abs(AbsMTPositionY, 20), abs(AbsMTPressure, 50),
				syn(SynMTReport), syn(SynReport),
				abs(AbsMTPressure, 0), syn(SynMTReport), syn(SynReport),
			},
			expected: Point{X: 1060, Y: 10},
		},
		"touch major as press": {
			events: []Event{
				abs(AbsMTTouchMajor, 3), abs(AbsMTPositionX, 500), abs(AbsMTPositionY, 40), syn(SynReport),
				abs(AbsMTTouchMajor, 0), syn(SynReport),
			},
			expected: Point{X: 1040, Y: 500},
		},
		"single packet": {
			events: []Event{
				key(BtnTouch, 1), abs(AbsX, 1), abs(AbsY, 2), key(BtnTouch, 0), syn(SynReport),
			},
			expected: Point{X: 1078, Y: 1},
		},
		"later position wins": {
			events: []Event{
				key(BtnTouch, 1), abs(AbsX, 1), abs(AbsY, 2), syn(SynReport),
				abs(AbsX, 7), abs(AbsY, 8), key(BtnTouch, 0), syn(SynReport),
			},
			expected: Point{X: 1072, Y: 7},
		},
		"sync dropped discards up to next report": {
			events: append([]Event{
				key(BtnTouch, 1), abs(AbsX, 999), syn(SynDropped), abs(AbsY, 999), syn(SynReport),
			}, tapEvents(30, 40)...),
			expected: Point{X: 1040, Y: 30},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for _, f := range []Format{Format16, Format24} {
				d := NewDecoder(stream(f, tt.events...), 1080, WithFormat(f))
				got, err := d.Next()
				if err != nil {
					t.Fatalf("format %d: Next() error: %v", f, err)
				}
				if got != tt.expected {
					t.Errorf("format %d: Next() = %+v, want %+v", f, got, tt.expected)
				}
			}
		})
	}
}

func TestDecoder_Rotation(t *testing.T) {
	raw := [][2]int32{{0, 0}, {10, 20}, {1071, 1439}, {540, 720}}
	for _, r := range raw {
		d := NewDecoder(stream(Format24, tapEvents(r[0], r[1])...), 1080, WithFormat(Format24))
		got, err := d.Next()
		if err != nil {
			t.Fatal(err)
		}
		want := Point{X: 1080 - int(r[1]), Y: int(r[0])}
		if got != want {
			t.Errorf("raw %v decoded to %+v, want %+v", r, got, want)
		}
	}
}

func TestDecoder_WithoutRotation(t *testing.T) {
	d := NewDecoder(stream(Format24, tapEvents(10, 20)...), 1080, WithFormat(Format24), WithoutRotation())
	got, err := d.Next()
	if err != nil {
		t.Fatal(err)
	}
	if got != (Point{X: 10, Y: 20}) {
		t.Errorf("Next() = %+v", got)
	}
}

func TestDecoder_IncompletePackets(t *testing.T) {
	var events []Event
	for i := 0; i < maxIncomplete; i++ {
		events = append(events, abs(AbsX, int32(i)), syn(SynReport))
	}
	events = append(events, tapEvents(5, 6)...)
	d := NewDecoder(stream(Format24, events...), 100, WithFormat(Format24))

	_, err := d.Next()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Next() error = %v, want *DecodeError", err)
	}
	if de.Attempts != maxIncomplete {
		t.Errorf("Attempts = %d, want %d", de.Attempts, maxIncomplete)
	}
	if !errors.Is(err, ErrDecode) {
		t.Error("DecodeError does not match ErrDecode")
	}

	// The decoder resumes with the next tap.
	got, err := d.Next()
	if err != nil {
		t.Fatalf("Next() after decode error: %v", err)
	}
	if got != (Point{X: 94, Y: 5}) {
		t.Errorf("Next() = %+v", got)
	}
}

func TestDecoder_DroppedRepeatedly(t *testing.T) {
	var events []Event
	for i := 0; i <= maxDropped; i++ {
		events = append(events, syn(SynDropped), abs(AbsX, 1), syn(SynReport))
	}
	d := NewDecoder(stream(Format16, events...), 100, WithFormat(Format16))

	_, err := d.Next()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Next() error = %v, want *DecodeError", err)
	}
	if de.Attempts != maxDropped+1 {
		t.Errorf("Attempts = %d, want %d", de.Attempts, maxDropped+1)
	}
}

func TestDecoder_EOF(t *testing.T) {
	d := NewDecoder(stream(Format24, key(BtnTouch, 1)), 100, WithFormat(Format24))
	if _, err := d.Next(); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}

	// A truncated record is not a clean end of stream.
	d = NewDecoder(bytes.NewReader(make([]byte, 10)), 100, WithFormat(Format24))
	if _, err := d.Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Next() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadEvent_RoundTrip(t *testing.T) {
	e := Event{Sec: 1700000000, Usec: 123456, Type: EvAbs, Code: AbsMTPositionY, Value: -3}
	for _, f := range []Format{Format16, Format24} {
		b := AppendEvent(nil, f, e)
		if len(b) != f.Size() {
			t.Fatalf("format %d: encoded %d bytes", f, len(b))
		}
		got, err := ReadEvent(bytes.NewReader(b), f, make([]byte, 24))
		if err != nil {
			t.Fatal(err)
		}
		if got != e {
			t.Errorf("format %d: ReadEvent() = %+v, want %+v", f, got, e)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("16"); err != nil || f != Format16 {
		t.Errorf("ParseFormat(16) = %v, %v", f, err)
	}
	if _, err := ParseFormat("32"); err == nil {
		t.Error("ParseFormat(32) expected error")
	}
}

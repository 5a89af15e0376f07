package touch

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/grindlemire/go-eink/internal/debug"
)

// Source produces taps. Next blocks until a tap is available and returns
// io.EOF once the source is exhausted.
type Source interface {
	Next() (Point, error)
}

// Chan adapts a channel into a Source. Emulated devices feed clicks this way.
type Chan <-chan Point

// Next receives the next point, or io.EOF once the channel is closed.
func (c Chan) Next() (Point, error) {
	p, ok := <-c
	if !ok {
		return Point{}, io.EOF
	}
	return p, nil
}

// Listener decodes and debounces taps from an evdev stream.
type Listener struct {
	dec     *Decoder
	deb     *Debouncer
	file    *os.File
	grabbed bool
	log     *logrus.Entry
}

// NewListener reads records from r.
func NewListener(r io.Reader, viewWidth int, opts ...Option) *Listener {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return &Listener{
		dec: newDecoder(r, viewWidth, c),
		deb: NewDebouncer(c.window, c.halfSize, c.now),
		log: debug.With("touch"),
	}
}

// Open opens an evdev node such as /dev/input/event1. With WithGrab the
// device is grabbed so no other reader receives its events.
func Open(path string, viewWidth int, opts ...Option) (*Listener, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open touch device: %w", err)
	}
	l := NewListener(f, viewWidth, opts...)
	l.file = f
	if c.grab {
		if err := grab(f, true); err != nil {
			f.Close()
			return nil, fmt.Errorf("grab %s: %w", path, err)
		}
		l.grabbed = true
	}
	return l, nil
}

// Next returns the next accepted tap. Decode errors are logged and
// skipped; debounced taps are dropped. Read errors end the listener.
func (l *Listener) Next() (Point, error) {
	for {
		p, err := l.dec.Next()
		var de *DecodeError
		if errors.As(err, &de) {
			l.log.WithError(err).Debug("discarding touch packet")
			continue
		}
		if err != nil {
			return Point{}, err
		}
		if !l.deb.Allow(p) {
			l.log.WithFields(logrus.Fields{"x": p.X, "y": p.Y}).Debug("debounced")
			continue
		}
		return p, nil
	}
}

// Close releases the grab and closes the device opened by Open.
func (l *Listener) Close() error {
	if l.file == nil {
		return nil
	}
	var errs []error
	if l.grabbed {
		errs = append(errs, grab(l.file, false))
		l.grabbed = false
	}
	errs = append(errs, l.file.Close())
	l.file = nil
	return errors.Join(errs...)
}

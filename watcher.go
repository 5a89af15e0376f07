package eink

import (
	"errors"
	"io"
	"time"

	"github.com/grindlemire/go-eink/internal/debug"
	"github.com/grindlemire/go-eink/pkg/touch"
)

// Watcher represents an event source that feeds the stack's loop.
// Watchers registered before Run are started by Run; watchers registered
// while it runs start immediately.
type Watcher interface {
	// Start begins the watcher goroutine.
	// The eventQueue channel and stopCh are provided by the Stack.
	Start(eventQueue chan<- func(), stopCh <-chan struct{})
}

// Watch registers w with the stack.
func (s *Stack) Watch(w Watcher) {
	if s.running {
		w.Start(s.eventQueue, s.stopCh)
		return
	}
	s.watchers = append(s.watchers, w)
}

// ChannelWatcher watches a channel and calls handler for each value.
type ChannelWatcher[T any] struct {
	ch      <-chan T
	handler func(T)
}

// NewChannelWatcher creates a watcher that calls fn for each value received on ch.
// The handler is called on the stack's loop, not in a separate goroutine.
func NewChannelWatcher[T any](ch <-chan T, fn func(T)) *ChannelWatcher[T] {
	return &ChannelWatcher[T]{
		ch:      ch,
		handler: fn,
	}
}

// Watch creates a channel watcher. The handler is called on the loop
// whenever data arrives on the channel.
func Watch[T any](ch <-chan T, handler func(T)) Watcher {
	return NewChannelWatcher(ch, handler)
}

// Start the watcher.
func (w *ChannelWatcher[T]) Start(eventQueue chan<- func(), stopCh <-chan struct{}) {
	go func() {
		for {
			select {
			case <-stopCh:
				return
			case val, ok := <-w.ch:
				if !ok {
					return // Channel closed
				}
				select {
				case eventQueue <- func() {
					w.handler(val)
				}:
				case <-stopCh:
					return
				}
			}
		}
	}()
}

// timerWatcher fires at a regular interval.
type timerWatcher struct {
	interval time.Duration
	handler  func()
}

// OnTimer creates a timer watcher that fires at the given interval.
// The handler is called on the loop.
func OnTimer(interval time.Duration, handler func()) Watcher {
	return &timerWatcher{interval: interval, handler: handler}
}

// Start the watcher.
func (w *timerWatcher) Start(eventQueue chan<- func(), stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				select {
				case eventQueue <- w.handler:
				case <-stopCh:
					return
				}
			}
		}
	}()
}

// touchWatcher reads taps from a source and dispatches them on the loop.
type touchWatcher struct {
	src      touch.Source
	dispatch func(x, y int)
}

// WatchTouches registers a watcher that dispatches every tap from src.
// The source is read on its own goroutine; the watcher exits when the
// source returns an error.
func (s *Stack) WatchTouches(src touch.Source) Watcher {
	w := &touchWatcher{
		src: src,
		dispatch: func(x, y int) {
			s.Dispatch(x, y)
		},
	}
	s.Watch(w)
	return w
}

// Start the watcher.
func (w *touchWatcher) Start(eventQueue chan<- func(), stopCh <-chan struct{}) {
	go func() {
		for {
			p, err := w.src.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					debug.With("touch").Warnf("touch source: %v", err)
				}
				return
			}
			select {
			case eventQueue <- func() {
				w.dispatch(p.X, p.Y)
			}:
			case <-stopCh:
				return
			}
		}
	}()
}

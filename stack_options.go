package eink

import "fmt"

// StackOption is a functional option for configuring a Stack.
type StackOption func(*Stack) error

// WithStyles sets per-kind style overrides, consulted after an element's
// own style and before DefaultStyles.
func WithStyles(styles map[string]Style) StackOption {
	return func(s *Stack) error {
		for kind, st := range styles {
			s.styles[kind] = st
		}
		return nil
	}
}

// WithClock replaces the wall clock used by the task queue.
func WithClock(c Clock) StackOption {
	return func(s *Stack) error {
		if c == nil {
			return fmt.Errorf("clock must not be nil")
		}
		s.clock = c
		return nil
	}
}

// WithTaskQueueSize sets the capacity of the cross-goroutine queue used by
// Post. Default is 256. Must be at least 1.
func WithTaskQueueSize(size int) StackOption {
	return func(s *Stack) error {
		if size < 1 {
			return fmt.Errorf("task queue size must be at least 1")
		}
		s.queueSize = size
		return nil
	}
}

// WithDisplayInverted starts the stack with the whole display inverted.
func WithDisplayInverted() StackOption {
	return func(s *Stack) error {
		s.inverted = true
		return nil
	}
}

// WithDefaultSearch sets the column search used by layouts that do not
// choose one.
func WithDefaultSearch(search Search) StackOption {
	return func(s *Stack) error {
		if search != SearchLinear && search != SearchDichotomy {
			return fmt.Errorf("default search must be SearchLinear or SearchDichotomy")
		}
		s.search = search
		return nil
	}
}

// UpdateOption adjusts a single Add or Update.
type UpdateOption func(*change)

type change struct {
	onTop        bool
	fastPath     bool
	skipGenerate bool
	skipPaint    bool
}

func newChange(opts []UpdateOption) change {
	var c change
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// OnTop keeps an added element above everything added later without it.
func OnTop() UpdateOption {
	return func(c *change) {
		c.onTop = true
	}
}

// FastPath regenerates only the updated element and blits it over the
// current frame. Only valid when nothing overlaps the element.
func FastPath() UpdateOption {
	return func(c *change) {
		c.fastPath = true
	}
}

// SkipGenerate leaves the element invalidated without regenerating or
// painting it.
func SkipGenerate() UpdateOption {
	return func(c *change) {
		c.skipGenerate = true
	}
}

// SkipPaint regenerates but does not push anything to the device.
func SkipPaint() UpdateOption {
	return func(c *change) {
		c.skipPaint = true
	}
}

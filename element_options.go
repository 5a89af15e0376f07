package eink

import "time"

// Option configures an Element.
type Option func(*Element)

// WithArea sets the element's absolute area. Elements inside a layout get
// their area from the layout and do not need one.
func WithArea(r Rect) Option {
	return func(e *Element) {
		e.area, e.hasArea = r, true
	}
}

// WithOnClick sets the click handler. It runs on the stack's loop with the
// raw tap coordinates.
func WithOnClick(fn func(e *Element, x, y int)) Option {
	return func(e *Element) {
		e.onClick = fn
	}
}

// WithInvertOnClick flashes the element inverted for d after each click.
// A d of zero or less leaves it inverted until the next click.
func WithInvertOnClick(d time.Duration) Option {
	return func(e *Element) {
		e.invertOnClick = true
		e.invertDuration = d
	}
}

// WithInverted starts the element inverted.
func WithInverted() Option {
	return func(e *Element) {
		e.inverted = true
	}
}

// WithStyle sets element-level style overrides.
func WithStyle(s Style) Option {
	return func(e *Element) {
		e.style = s
	}
}

// WithData attaches arbitrary user data.
func WithData(v any) Option {
	return func(e *Element) {
		e.data = v
	}
}

package eink

import (
	"fmt"
	"math"

	"github.com/grindlemire/go-eink/internal/layout"
)

// Popup is a layout that places itself on the screen: its size is given
// by two dimensions and its center by fractions of the screen size.
type Popup struct {
	Layout
	Width, Height Dim
	// CenterX and CenterY locate the popup's center, 0 to 1.
	CenterX, CenterY float64
}

// NewPopup creates a popup element. Without options it is W*0.8 by H*0.5,
// centered horizontally, with its center 30% down the screen.
func NewPopup(rows []Row, opts ...Option) *Element {
	p := &Popup{
		Layout:  Layout{Rows: rows},
		Width:   Expr("W*0.8"),
		Height:  Expr("H*0.5"),
		CenterX: 0.5,
		CenterY: 0.3,
	}
	p.normalize()
	e := New(p, opts...)
	p.self = e
	return e
}

// WithPopupSize sets the popup's width and height. It has no effect on
// other kinds.
func WithPopupSize(width, height Dim) Option {
	return func(e *Element) {
		if p, ok := e.kind.(*Popup); ok {
			p.Width, p.Height = width, height
		}
	}
}

// WithPopupCenter sets the popup's center as fractions of the screen.
func WithPopupCenter(x, y float64) Option {
	return func(e *Element) {
		if p, ok := e.kind.(*Popup); ok {
			p.CenterX, p.CenterY = x, y
		}
	}
}

// Kind returns "popup".
func (p *Popup) Kind() string { return "popup" }

// place computes the absolute area, kept on screen.
func (p *Popup) place(env layout.Env) (Rect, error) {
	if env.ScreenW == 0 && env.ScreenH == 0 {
		return Rect{}, fmt.Errorf("popup: %w", ErrNoArea)
	}
	w, err := layout.Eval(p.Width, env)
	if err != nil {
		return Rect{}, err
	}
	h, err := layout.Eval(p.Height, env)
	if err != nil {
		return Rect{}, err
	}
	w, h = min(max(w, 0), env.ScreenW), min(max(h, 0), env.ScreenH)
	x := int(math.Round(p.CenterX*float64(env.ScreenW))) - w/2
	y := int(math.Round(p.CenterY*float64(env.ScreenH))) - h/2
	x = min(max(x, 0), env.ScreenW-w)
	y = min(max(y, 0), env.ScreenH-h)
	return NewRect(x, y, w, h), nil
}

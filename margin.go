package eink

import "image"

// Margin is a transparent placeholder. Layouts create margins for gaps and
// for nil cells; margins are never returned by hit-testing.
type Margin struct{}

// NewMargin creates a margin element.
func NewMargin() *Element {
	return New(Margin{})
}

// Kind returns "margin".
func (Margin) Kind() string { return "margin" }

// Render returns nil: a margin has no pixels of its own.
func (Margin) Render(RenderContext) (*image.Gray, error) {
	return nil, nil
}

func isMargin(e *Element) bool {
	_, ok := e.kind.(Margin)
	return ok
}

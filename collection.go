package eink

import (
	"fmt"
	"image"

	"github.com/grindlemire/go-eink/internal/layout"
)

// Item is one child of a collection and its size along the axis.
type Item struct {
	Elem *Element
	Size Dim
}

// Collection lays its items out along a single axis.
type Collection struct {
	Axis       Axis
	Items      []Item
	Background string

	areas []Rect
}

// NewCollection creates a collection element. Empty items become margins.
func NewCollection(axis Axis, items []Item, opts ...Option) *Element {
	for i := range items {
		if items[i].Elem == nil {
			items[i].Elem = NewMargin()
		}
	}
	return New(&Collection{Axis: axis, Items: items}, opts...)
}

// Kind returns "collection".
func (c *Collection) Kind() string { return "collection" }

func (c *Collection) instanceStyle() Style { return Style{Background: c.Background} }

// Children returns the item elements in order.
func (c *Collection) Children() []*Element {
	out := make([]*Element, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Elem
	}
	return out
}

// Areas returns the rectangle of every item as of the last render.
func (c *Collection) Areas() []Rect {
	return append([]Rect(nil), c.areas...)
}

// Render divides the area along the axis and composites the items.
func (c *Collection) Render(rc RenderContext) (*image.Gray, error) {
	sizes := make([]Dim, len(c.Items))
	for i, it := range c.Items {
		sizes[i] = it.Size
	}
	areas, err := layout.Line(sizes, rc.Area, c.Axis, rc.env)
	if err != nil {
		return nil, err
	}
	c.areas = areas

	canvas, err := drawBox(rc.Area.Width, rc.Area.Height, rc.Style())
	if err != nil {
		return nil, err
	}
	for i, it := range c.Items {
		img, err := rc.Render(it.Elem, areas[i])
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		paste(canvas, img, areas[i].X-rc.Area.X, areas[i].Y-rc.Area.Y, it.Elem.inverted)
	}
	return canvas, nil
}

// Hit returns the item at (x, y), skipping margins.
func (c *Collection) Hit(x, y int) *Element {
	for i, area := range c.areas {
		if i < len(c.Items) && area.Contains(x, y) {
			if isMargin(c.Items[i].Elem) {
				return nil
			}
			return c.Items[i].Elem
		}
	}
	return nil
}

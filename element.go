package eink

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/grindlemire/go-eink/internal/layout"
)

// DefaultInvertDuration is how long a click inversion lasts.
const DefaultInvertDuration = 200 * time.Millisecond

// ErrNoArea is returned when an element without an area is generated.
var ErrNoArea = errors.New("element has no area")

// Renderable is the contract every element kind implements. Render must
// return a bitmap of exactly rc.Area's size, or nil for a transparent
// element, and must produce identical output for identical inputs.
type Renderable interface {
	Kind() string
	Render(rc RenderContext) (*image.Gray, error)
}

// Container is a Renderable that owns child elements.
type Container interface {
	Renderable
	// Children returns the direct children in no particular order.
	Children() []*Element
	// Hit returns the direct child at (x, y), or nil.
	Hit(x, y int) *Element
}

// clicker is implemented by kinds with built-in click behavior that runs
// before the element's own click handler.
type clicker interface {
	click(s *Stack, e *Element, x, y int)
}

// placer is implemented by kinds that compute their own area when none
// was given.
type placer interface {
	place(env layout.Env) (Rect, error)
}

// RenderContext is passed to Renderable.Render.
type RenderContext struct {
	// Area is the absolute area being rendered.
	Area Rect
	// Elem is the element being rendered.
	Elem *Element

	env   layout.Env
	stack *Stack
}

// Style returns the effective style of the element being rendered.
func (rc RenderContext) Style() Style {
	var table map[string]Style
	if rc.stack != nil {
		table = rc.stack.styles
	}
	return resolveStyle(rc.Elem, table)
}

// Env returns the dimension environment with the area as own size.
func (rc RenderContext) Env() layout.Env {
	return rc.env.Within(rc.Area)
}

// Eval resolves a non-flexible dimension against the area.
func (rc RenderContext) Eval(d Dim) (int, error) {
	return layout.Eval(d, rc.Env())
}

// Render generates child into area, reusing its cache when possible.
func (rc RenderContext) Render(child *Element, area Rect) (*image.Gray, error) {
	return child.generate(rc.stack, rc.env, area)
}

// Element is a node of the UI tree.
type Element struct {
	handle Handle
	parent Handle
	stack  *Stack

	kind Renderable

	area    Rect
	hasArea bool
	bitmap  *image.Gray
	dirty   bool
	// drawn is the area the bitmap was last generated for.
	drawn    Rect
	hasDrawn bool

	inverted       bool
	onClick        func(e *Element, x, y int)
	invertOnClick  bool
	invertDuration time.Duration

	style Style
	data  any
}

// New creates an element of the given kind.
func New(kind Renderable, opts ...Option) *Element {
	e := &Element{
		kind:           kind,
		dirty:          true,
		invertDuration: DefaultInvertDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle returns the element's handle, or the zero handle when detached.
func (e *Element) Handle() Handle {
	return e.handle
}

// Kind returns the element's renderable.
func (e *Element) Kind() Renderable {
	return e.kind
}

// Stack returns the stack the element is attached to, or nil.
func (e *Element) Stack() *Stack {
	return e.stack
}

// Parent returns the enclosing element, or nil for top-level and detached elements.
func (e *Element) Parent() *Element {
	if e.stack == nil || e.parent.IsZero() {
		return nil
	}
	p, _ := e.stack.arena.get(e.parent)
	return p
}

// Area returns the element's absolute area and whether it has one.
func (e *Element) Area() (Rect, bool) {
	return e.area, e.hasArea
}

// SetArea moves the element and invalidates its bitmap.
func (e *Element) SetArea(r Rect) {
	if e.hasArea && e.area == r {
		return
	}
	e.area, e.hasArea = r, true
	e.Invalidate()
}

// Bitmap returns the cached bitmap, which may be nil or stale.
func (e *Element) Bitmap() *image.Gray {
	return e.bitmap
}

// Dirty reports whether the cached bitmap must be regenerated.
func (e *Element) Dirty() bool {
	return e.dirty
}

// IsLayout reports whether the element owns children.
func (e *Element) IsLayout() bool {
	_, ok := e.kind.(Container)
	return ok
}

// Children returns the direct children of a container, or nil.
func (e *Element) Children() []*Element {
	if c, ok := e.kind.(Container); ok {
		return c.Children()
	}
	return nil
}

// Inverted reports the element's local inversion flag.
func (e *Element) Inverted() bool {
	return e.inverted
}

// Data returns the user data attached with WithData.
func (e *Element) Data() any {
	return e.data
}

// SetData replaces the user data.
func (e *Element) SetData(v any) {
	e.data = v
}

// LocalStyle returns the element-level style overrides.
func (e *Element) LocalStyle() Style {
	return e.style
}

// SetStyle replaces the element-level style overrides.
func (e *Element) SetStyle(s Style) {
	e.style = s
	e.Invalidate()
}

// OnClick replaces the click handler.
func (e *Element) OnClick(fn func(e *Element, x, y int)) {
	e.onClick = fn
}

// Generate renders the element into its current area. The cached bitmap
// is returned when nothing changed since the last call.
func (e *Element) Generate() (*image.Gray, error) {
	var env layout.Env
	if e.stack != nil {
		env = e.stack.env()
	}
	if !e.hasArea {
		if p, ok := e.kind.(placer); ok {
			area, err := p.place(env)
			if err != nil {
				return nil, err
			}
			e.area, e.hasArea = area, true
		} else {
			return nil, fmt.Errorf("%s: %w", e.kind.Kind(), ErrNoArea)
		}
	}
	return e.generate(e.stack, env, e.area)
}

// GenerateAt moves the element to area and renders it.
func (e *Element) GenerateAt(area Rect) (*image.Gray, error) {
	e.SetArea(area)
	return e.Generate()
}

func (e *Element) generate(s *Stack, env layout.Env, area Rect) (*image.Gray, error) {
	if e.hasArea && e.area == area && !e.dirty {
		return e.bitmap, nil
	}
	e.area, e.hasArea = area, true
	if env.ScreenW == 0 && env.ScreenH == 0 {
		// Detached with no screen: the area stands in for it.
		env = layout.ScreenEnv(area.Width, area.Height)
	}
	img, err := e.kind.Render(RenderContext{Area: area, Elem: e, env: env, stack: s})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", e.kind.Kind(), err)
	}
	e.bitmap = img
	e.dirty = false
	e.drawn, e.hasDrawn = area, true
	return img, nil
}

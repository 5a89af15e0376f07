package eink

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grindlemire/go-eink/internal/debug"
	"github.com/grindlemire/go-eink/internal/layout"
)

// LevelTop moves an element to the top of the stack in SetLevel.
const LevelTop = -1

var (
	// ErrNotAttached is returned for elements that are not on the stack.
	ErrNotAttached = errors.New("element is not attached to the stack")
	// ErrAttached is returned when adding an element owned by another stack.
	ErrAttached = errors.New("element is attached to another stack")
	// ErrStopped is returned by Run after Stop.
	ErrStopped = errors.New("stack stopped")
)

// Stack is the compositor: an ordered list of top-level elements painted
// back to front onto a Device. The last element is topmost for painting
// and for hit-testing.
//
// All methods except Post must be called from the goroutine running the
// stack's loop (Run or Tick).
type Stack struct {
	dev           Device
	width, height int

	arena arena
	elems []*Element
	// trees lists the handles registered under each top-level element.
	trees map[Handle][]Handle
	// onTop counts the trailing elements added with OnTop.
	onTop int

	inverted bool
	batch    bool
	styles   map[string]Style
	search   Search

	keyboard *Element

	clock      Clock
	queueSize  int
	eventQueue chan func()
	tasks      taskQueue
	taskSeq    uint64
	stopCh     chan struct{}
	stopOnce   sync.Once
	running    bool
	watchers   []Watcher

	log *logrus.Entry
}

// NewStack creates a Stack painting to dev.
func NewStack(dev Device, opts ...StackOption) (*Stack, error) {
	if dev == nil {
		return nil, fmt.Errorf("device must not be nil")
	}
	w, h := dev.Size()
	s := &Stack{
		dev:       dev,
		width:     w,
		height:    h,
		trees:     make(map[Handle][]Handle),
		styles:    make(map[string]Style),
		search:    SearchDichotomy,
		clock:     realClock{},
		queueSize: 256,
		stopCh:    make(chan struct{}),
		log:       debug.With("stack"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.eventQueue = make(chan func(), s.queueSize)
	return s, nil
}

// Device returns the display the stack paints to.
func (s *Stack) Device() Device {
	return s.dev
}

// Size returns the screen size.
func (s *Stack) Size() (width, height int) {
	return s.width, s.height
}

// Screen returns the full-screen rectangle.
func (s *Stack) Screen() Rect {
	return NewRect(0, 0, s.width, s.height)
}

func (s *Stack) env() layout.Env {
	return layout.ScreenEnv(s.width, s.height)
}

// Styles returns the stack's per-kind style table. Changes apply to
// elements generated afterwards.
func (s *Stack) Styles() map[string]Style {
	return s.styles
}

// Elements returns the top-level elements back to front.
func (s *Stack) Elements() []*Element {
	return slices.Clone(s.elems)
}

// Level returns the position of e in the stack, or -1.
func (s *Stack) Level(e *Element) int {
	return slices.Index(s.elems, e)
}

// Find returns the element behind h if it is still attached.
func (s *Stack) Find(h Handle) (*Element, bool) {
	return s.arena.get(h)
}

// Inverted reports the global inversion state.
func (s *Stack) Inverted() bool {
	return s.inverted
}

// Add generates e and paints it. An element already on the stack is
// regenerated and repainted in place. Other elements are inserted above
// everything except the elements added with OnTop.
func (s *Stack) Add(e *Element, opts ...UpdateOption) error {
	if e.stack != nil && e.stack != s && e.stack.arena.live(e.handle) {
		return ErrAttached
	}
	c := newChange(opts)

	if s.Level(e) >= 0 {
		old, hadArea := e.drawn, e.hasDrawn
		s.sync(e)
		e.Invalidate()
		if c.skipGenerate {
			return nil
		}
		if _, err := e.Generate(); err != nil {
			return err
		}
		return s.paintChange(c, old, hadArea, e.area)
	}

	s.sync(e)
	if c.onTop {
		s.elems = append(s.elems, e)
		s.onTop++
	} else {
		s.elems = slices.Insert(s.elems, len(s.elems)-s.onTop, e)
	}
	s.log.Debugf("add %s %s at level %d", e.kind.Kind(), e.handle, s.Level(e))
	if c.skipGenerate {
		return nil
	}
	img, err := e.Generate()
	if err != nil {
		s.drop(e)
		return err
	}
	if c.skipPaint || s.batch {
		return nil
	}
	if s.Level(e) == len(s.elems)-1 && img != nil {
		return s.dev.Blit(img, e.area.X, e.area.Y, e.inverted)
	}
	return s.Paint(&e.area)
}

// Remove takes e off the stack and repaints the area it covered from the
// elements beneath it. Pending tasks that target e or its children become
// no-ops.
func (s *Stack) Remove(e *Element) error {
	if s.Level(e) < 0 {
		return ErrNotAttached
	}
	area, hadArea := e.drawn, e.hasDrawn
	s.drop(e)
	if !hadArea || s.batch {
		return nil
	}
	return s.Paint(&area)
}

// drop unlinks e and releases every handle of its tree.
func (s *Stack) drop(e *Element) {
	i := s.Level(e)
	if i < 0 {
		return
	}
	if i >= len(s.elems)-s.onTop {
		s.onTop--
	}
	s.elems = slices.Delete(s.elems, i, i+1)
	h := e.handle
	for _, member := range s.trees[h] {
		s.detach(member)
	}
	delete(s.trees, h)
	s.log.Debugf("remove %s %s", e.kind.Kind(), h)
}

// Clear removes every element and blanks the display.
func (s *Stack) Clear() error {
	for len(s.elems) > 0 {
		s.drop(s.elems[len(s.elems)-1])
	}
	return s.dev.Clear()
}

// SetLevel moves e to position level, or to the top with LevelTop, and
// repaints it. An element moved to the top, or among the OnTop elements,
// joins them and stays above later additions. One moved below them leaves
// the group.
func (s *Stack) SetLevel(e *Element, level int) error {
	i := s.Level(e)
	if i < 0 {
		return ErrNotAttached
	}
	if i >= len(s.elems)-s.onTop {
		s.onTop--
	}
	s.elems = slices.Delete(s.elems, i, i+1)
	if level < 0 || level > len(s.elems) {
		level = len(s.elems)
	}
	if level > len(s.elems)-s.onTop || level == len(s.elems) {
		s.onTop++
	}
	s.elems = slices.Insert(s.elems, level, e)
	if !e.hasArea || s.batch {
		return nil
	}
	return s.Paint(&e.area)
}

// Update runs mutate on e, invalidates it and its enclosing elements, and
// redraws. By default the outermost enclosing element is regenerated and
// the union of e's old and new areas is repainted through the compositor.
// With FastPath only e is regenerated and blitted directly.
func (s *Stack) Update(e *Element, mutate func(*Element), opts ...UpdateOption) error {
	top := s.topOf(e)
	if top == nil {
		return ErrNotAttached
	}
	c := newChange(opts)
	old, hadArea := e.drawn, e.hasDrawn
	if mutate != nil {
		mutate(e)
	}
	if !s.arena.live(top.handle) {
		// The mutation took the tree off the stack.
		return nil
	}
	e.Invalidate()
	s.sync(top)
	if c.skipGenerate {
		return nil
	}

	if c.fastPath {
		img, err := e.Generate()
		if err != nil {
			return err
		}
		if c.skipPaint || s.batch || img == nil {
			return nil
		}
		return s.dev.Blit(img, e.area.X, e.area.Y, s.effectiveInverted(e))
	}

	if _, err := top.Generate(); err != nil {
		return err
	}
	return s.paintChange(c, old, hadArea, e.area)
}

func (s *Stack) paintChange(c change, old Rect, hadArea bool, area Rect) error {
	if c.skipPaint || s.batch {
		return nil
	}
	if hadArea {
		area = area.Union(old)
	}
	return s.Paint(&area)
}

// topOf returns the top-level element enclosing e, or nil if e is not
// attached to s.
func (s *Stack) topOf(e *Element) *Element {
	if e.stack != s || !s.arena.live(e.handle) {
		return nil
	}
	for p := e.Parent(); p != nil; p = p.Parent() {
		e = p
	}
	if s.Level(e) < 0 {
		return nil
	}
	return e
}

// effectiveInverted reports whether e appears inverted on the frame,
// counting the inversion of every enclosing element.
func (s *Stack) effectiveInverted(e *Element) bool {
	inv := false
	for ; e != nil; e = e.Parent() {
		inv = inv != e.inverted
	}
	return inv
}

// sync registers top and every element reachable from it, keeping the
// handles of elements already registered, and releases the handles of
// elements that are no longer part of the tree.
func (s *Stack) sync(top *Element) {
	var seen []Handle
	s.attach(top, Handle{}, &seen)

	keep := make(map[Handle]struct{}, len(seen))
	for _, h := range seen {
		keep[h] = struct{}{}
	}
	for _, h := range s.trees[top.handle] {
		if _, ok := keep[h]; !ok {
			s.detach(h)
		}
	}
	s.trees[top.handle] = seen
}

func (s *Stack) attach(e *Element, parent Handle, seen *[]Handle) {
	if e.stack != s || !s.arena.live(e.handle) {
		e.handle = s.arena.alloc(e)
		e.stack = s
	}
	e.parent = parent
	*seen = append(*seen, e.handle)
	for _, child := range e.Children() {
		if child != nil {
			s.attach(child, e.handle, seen)
		}
	}
}

func (s *Stack) detach(h Handle) {
	if e, ok := s.arena.get(h); ok {
		e.handle, e.parent, e.stack = Handle{}, Handle{}, nil
	}
	s.arena.release(h)
}

// Paint composites the stack over area, or the whole screen when area is
// nil, and blits the result. Dirty elements are regenerated first.
func (s *Stack) Paint(area *Rect) error {
	img, target, err := s.compose(area, false)
	if err != nil || img == nil {
		return err
	}
	return s.dev.Blit(img, target.X, target.Y, false)
}

// Capture returns the composited stack over area without painting it.
// regenerate forces every element to be regenerated.
func (s *Stack) Capture(area *Rect, regenerate bool) (*image.Gray, error) {
	img, _, err := s.compose(area, regenerate)
	return img, err
}

// compose paints every element intersecting the target back to front onto
// a white canvas. Elements without an area are skipped. The canvas is nil
// when the target lies off screen.
func (s *Stack) compose(area *Rect, regenerate bool) (*image.Gray, Rect, error) {
	target := s.Screen()
	if area != nil {
		target = area.Intersect(target)
	}
	if target.IsEmpty() {
		return nil, target, nil
	}
	canvas := newBitmap(target.Width, target.Height, color.Gray{Y: 255})
	for _, e := range s.elems {
		if !e.hasArea || !e.area.Intersects(target) {
			continue
		}
		if regenerate {
			e.Invalidate()
		}
		img, err := e.Generate()
		if err != nil {
			return nil, target, err
		}
		paste(canvas, img, e.area.X-target.X, e.area.Y-target.Y, e.inverted)
	}
	return canvas, target, nil
}

// StartBatch suspends painting. Add, Remove and Update only generate
// until StopBatch.
func (s *Stack) StartBatch() {
	s.batch = true
}

// StopBatch resumes painting and repaints the whole screen once.
func (s *Stack) StopBatch() error {
	if !s.batch {
		return nil
	}
	s.batch = false
	return s.Paint(nil)
}

// Refresh issues a full flashing refresh of the panel.
func (s *Stack) Refresh() error {
	return s.dev.Refresh(s.inverted, true)
}

// Invert toggles the global inversion and refreshes the panel.
func (s *Stack) Invert() error {
	s.inverted = !s.inverted
	return s.dev.Refresh(s.inverted, false)
}

// InvertElement flips e's local inversion and repaints it. When d is
// positive the flip is undone after d, unless e has been removed by then.
// Each pending revert flips once, so overlapping inversions settle back on
// the state e had before the first one.
func (s *Stack) InvertElement(e *Element, d time.Duration) error {
	if s.topOf(e) == nil {
		return ErrNotAttached
	}
	e.inverted = !e.inverted
	e.invalidateParents()
	if err := s.Paint(&e.area); err != nil {
		return err
	}
	if d > 0 {
		s.After(d, e.handle, func() {
			e.inverted = !e.inverted
			e.invalidateParents()
			if err := s.Paint(&e.area); err != nil {
				s.log.Warnf("revert inversion of %s: %v", e.handle, err)
			}
		})
	}
	return nil
}

// InvertRegion blits area inverted without touching any element, and
// restores it after d when d is positive.
func (s *Stack) InvertRegion(area Rect, d time.Duration) error {
	img, target, err := s.compose(&area, false)
	if err != nil || img == nil {
		return err
	}
	if err := s.dev.Blit(img, target.X, target.Y, true); err != nil {
		return err
	}
	if d > 0 {
		s.After(d, Handle{}, func() {
			if err := s.Paint(&target); err != nil {
				s.log.Warnf("revert inverted region %v: %v", target, err)
			}
		})
	}
	return nil
}

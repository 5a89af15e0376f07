package eink

import (
	"fmt"
	"image"
	"maps"
	"slices"
)

// Keyboard is the on-screen keyboard. Each view is a layout of keys that
// is rendered once and reused until it changes.
type Keyboard struct {
	Keymaps map[View]Keymap
	// OnKeyPress receives every key press except padding.
	OnKeyPress func(k KeyType, r rune)

	self  *Element
	view  View
	views map[View]*Element
}

// NewKeyboard creates a keyboard element showing ViewStandard.
func NewKeyboard(keymaps map[View]Keymap, opts ...Option) *Element {
	kb := &Keyboard{
		Keymaps: keymaps,
		view:    ViewStandard,
		views:   make(map[View]*Element, len(keymaps)),
	}
	for v, km := range keymaps {
		kb.views[v] = kb.build(km)
	}
	e := New(kb, opts...)
	kb.self = e
	return e
}

func (kb *Keyboard) build(km Keymap) *Element {
	var rows []Row
	rows = append(rows, Spacer(km.Spacing))
	for _, keys := range km.Rows {
		cells := []Cell{Gap(km.Spacing)}
		for _, k := range keys {
			cells = append(cells, C(kb.newKey(k), keyWidth(k)), Gap(km.Spacing))
		}
		rows = append(rows, R(Flex(), cells...), Spacer(km.Spacing))
	}
	return NewLayout(rows)
}

func keyWidth(k Key) Dim {
	if isZeroDim(k.Width) {
		return Flex()
	}
	return k.Width
}

func (kb *Keyboard) newKey(k Key) *Element {
	kc := &keyCap{Button: Button{Text: k.Label()}, key: k, board: kb}
	switch {
	case k.Padding:
		kc.Style = Style{Outline: White}
	case k.Type != KeyChar:
		kc.Style = Style{Background: Gray(12)}
	}
	var opts []Option
	if !k.Padding && !k.changesView() {
		opts = append(opts, WithInvertOnClick(DefaultInvertDuration))
	}
	return New(kc, opts...)
}

// Kind returns "keyboard".
func (kb *Keyboard) Kind() string { return "keyboard" }

// View returns the view being shown.
func (kb *Keyboard) View() View {
	return kb.view
}

// SetView switches the view being shown.
func (kb *Keyboard) SetView(v View) error {
	if _, ok := kb.views[v]; !ok {
		return fmt.Errorf("keyboard has no %q view", v)
	}
	if kb.view != v {
		kb.view = v
		if kb.self != nil {
			kb.self.Invalidate()
		}
	}
	return nil
}

// Children returns the layout of every view, in name order.
func (kb *Keyboard) Children() []*Element {
	out := make([]*Element, 0, len(kb.views))
	for _, v := range slices.Sorted(maps.Keys(kb.views)) {
		out = append(out, kb.views[v])
	}
	return out
}

// Hit returns the layout of the current view.
func (kb *Keyboard) Hit(x, y int) *Element {
	e, ok := kb.views[kb.view]
	if !ok || !e.hasArea || !e.area.Contains(x, y) {
		return nil
	}
	return e
}

// Render renders the current view over the keyboard's background.
func (kb *Keyboard) Render(rc RenderContext) (*image.Gray, error) {
	st := rc.Style()
	view, ok := kb.views[kb.view]
	if !ok {
		return drawBox(rc.Area.Width, rc.Area.Height, st)
	}
	if l := view.kind.(*Layout); l.Background != st.Background {
		l.Background = st.Background
		view.dirty = true
	}
	return rc.Render(view, rc.Area)
}

// keyCap is one key of a keyboard view.
type keyCap struct {
	Button
	key   Key
	board *Keyboard
}

// Kind returns "key".
func (k *keyCap) Kind() string { return "key" }

func (k *keyCap) click(s *Stack, e *Element, x, y int) {
	if k.key.Padding {
		return
	}
	kb := k.board
	if k.key.changesView() {
		next := ViewCaps
		if k.key.Type == KeyAlt {
			next = ViewAlt
		}
		if kb.view == next {
			next = ViewStandard
		}
		err := s.Update(kb.self, func(*Element) {
			if err := kb.SetView(next); err != nil {
				s.log.Warnf("keyboard: %v", err)
			}
		}, FastPath())
		if err != nil {
			s.log.Warnf("keyboard view %s: %v", next, err)
		}
	}
	if kb.OnKeyPress != nil {
		kb.OnKeyPress(k.key.Type, k.key.Char)
	}
}

// InitKeyboard creates the stack's on-screen keyboard in area, or in the
// bottom third of the screen when area is nil. It replaces any previous
// keyboard.
func (s *Stack) InitKeyboard(area *Rect) error {
	a := NewRect(0, s.height-s.height/3, s.width, s.height/3)
	if area != nil {
		a = *area
	}
	if s.keyboard != nil {
		if err := s.HideKeyboard(); err != nil {
			return err
		}
	}
	s.keyboard = NewKeyboard(EnUS(), WithArea(a))
	return nil
}

// Keyboard returns the stack's keyboard element, or nil before InitKeyboard.
func (s *Stack) Keyboard() *Element {
	return s.keyboard
}

// ShowKeyboard puts the keyboard on top of the stack and routes its key
// presses to onKey.
func (s *Stack) ShowKeyboard(onKey func(k KeyType, r rune)) error {
	if s.keyboard == nil {
		if err := s.InitKeyboard(nil); err != nil {
			return err
		}
	}
	s.keyboard.kind.(*Keyboard).OnKeyPress = onKey
	if s.Level(s.keyboard) >= 0 {
		return nil
	}
	return s.Add(s.keyboard, OnTop())
}

// HideKeyboard takes the keyboard off the stack.
func (s *Stack) HideKeyboard() error {
	if s.keyboard == nil || s.Level(s.keyboard) < 0 {
		return nil
	}
	s.keyboard.kind.(*Keyboard).OnKeyPress = nil
	return s.Remove(s.keyboard)
}

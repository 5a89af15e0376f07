package eink

import (
	"testing"
	"time"
)

// findKey returns the key element of the keyboard's current view.
func findKey(t *testing.T, s *Stack, typ KeyType, r rune) *Element {
	t.Helper()
	kb := s.Keyboard().Kind().(*Keyboard)
	for _, e := range kb.views[kb.View()].Children() {
		k, ok := e.Kind().(*keyCap)
		if !ok || k.key.Padding || k.key.Type != typ {
			continue
		}
		if typ == KeyChar && k.key.Char != r {
			continue
		}
		return e
	}
	t.Fatalf("no key %v %q in view %s", typ, r, kb.View())
	return nil
}

// press dispatches a tap at the center of e and checks that e got it.
func press(t *testing.T, s *Stack, e *Element) {
	t.Helper()
	area, ok := e.Area()
	if !ok {
		t.Fatal("element has no area")
	}
	x, y := area.Center()
	if got := s.Dispatch(x, y); got != e {
		t.Fatalf("Dispatch(%d, %d) hit %v, want %v", x, y, got, e)
	}
}

func TestKeyboard_PressesReachHandler(t *testing.T) {
	s, _, _ := newTestStack(t, 600, 800)
	var got []rune
	if err := s.ShowKeyboard(func(k KeyType, r rune) {
		if k == KeyChar {
			got = append(got, r)
		}
	}); err != nil {
		t.Fatalf("ShowKeyboard: %v", err)
	}

	area, _ := s.Keyboard().Area()
	if area != NewRect(0, 534, 600, 266) {
		t.Errorf("keyboard area = %+v, want the bottom third", area)
	}

	for _, r := range "hey" {
		press(t, s, findKey(t, s, KeyChar, r))
	}
	press(t, s, findKey(t, s, KeyCaps, 0))
	if v := s.Keyboard().Kind().(*Keyboard).View(); v != ViewCaps {
		t.Fatalf("View() = %s, want caps", v)
	}
	press(t, s, findKey(t, s, KeyChar, 'Q'))
	press(t, s, findKey(t, s, KeyAlt, 0))
	press(t, s, findKey(t, s, KeyChar, '7'))

	if string(got) != "heyQ7" {
		t.Errorf("typed %q, want %q", string(got), "heyQ7")
	}
}

func TestKeyboard_ViewKeysDoNotInvert(t *testing.T) {
	s, _, _ := newTestStack(t, 600, 800)
	if err := s.ShowKeyboard(nil); err != nil {
		t.Fatalf("ShowKeyboard: %v", err)
	}
	caps := findKey(t, s, KeyCaps, 0)
	press(t, s, caps)
	if caps.Inverted() || s.Pending() != 0 {
		t.Error("view keys should not flash")
	}

	q := findKey(t, s, KeyChar, 'Q')
	press(t, s, q)
	if !q.Inverted() || s.Pending() != 1 {
		t.Error("character keys should flash")
	}
}

func TestKeyboard_HideReleasesKeys(t *testing.T) {
	s, _, clock := newTestStack(t, 600, 800)
	if err := s.ShowKeyboard(nil); err != nil {
		t.Fatalf("ShowKeyboard: %v", err)
	}
	home := s.Keyboard()
	if err := s.Add(solid(Black, WithArea(NewRect(0, 0, 600, 800)))); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Elements()[len(s.Elements())-1] != home {
		t.Fatal("keyboard should stay on top of later elements")
	}

	key := findKey(t, s, KeyChar, 'a')
	press(t, s, key)
	if err := s.HideKeyboard(); err != nil {
		t.Fatalf("HideKeyboard: %v", err)
	}
	if !key.Handle().IsZero() {
		t.Error("hidden keyboard keys should be detached")
	}
	clock.Advance(time.Second)
	if n := s.Tick(); n != 0 {
		t.Errorf("Tick() ran %d tasks, want 0", n)
	}
}

func TestPrompt_TypesAndAnswers(t *testing.T) {
	s, _, _ := newTestStack(t, 600, 800)
	ch, err := s.Prompt(Dialog{Title: "Name"})
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	popup := s.Elements()[0]
	if area, _ := popup.Area(); area != NewRect(60, 40, 480, 400) {
		t.Errorf("popup area = %+v", area)
	}

	var field *Element
	for _, e := range popup.Children() {
		if _, ok := e.Kind().(*Input); ok {
			field = e
		}
	}
	press(t, s, field)
	if s.Level(s.Keyboard()) < 0 {
		t.Fatal("clicking the field should show the keyboard")
	}

	for _, r := range "hi" {
		press(t, s, findKey(t, s, KeyChar, r))
	}
	if got := field.Kind().(*Input).Text; got != "hi" {
		t.Errorf("field text = %q, want %q", got, "hi")
	}

	press(t, s, findKey(t, s, KeyReturn, 0))
	select {
	case got := <-ch:
		if got != "hi" {
			t.Errorf("prompt answered %q, want %q", got, "hi")
		}
	default:
		t.Fatal("prompt did not answer")
	}
	if len(s.Elements()) != 0 {
		t.Errorf("stack has %d elements after answering, want 0", len(s.Elements()))
	}
	if _, open := <-ch; open {
		t.Error("channel should be closed after the answer")
	}
}

func TestConfirm_Answers(t *testing.T) {
	type tc struct {
		button string
		want   bool
	}

	tests := map[string]tc{
		"ok":     {button: "Yes", want: true},
		"cancel": {button: "Cancel", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _, _ := newTestStack(t, 600, 800)
			ch, err := s.Confirm(Dialog{Title: "Delete?", Body: "This cannot be undone.", ConfirmText: "Yes"})
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			popup := s.Elements()[0]

			var btn *Element
			for _, e := range popup.Children() {
				if b, ok := e.Kind().(*Button); ok && b.Text == tt.button {
					btn = e
				}
			}
			if btn == nil {
				t.Fatalf("no %q button", tt.button)
			}
			press(t, s, btn)

			select {
			case got := <-ch:
				if got != tt.want {
					t.Errorf("answer = %v, want %v", got, tt.want)
				}
			default:
				t.Fatal("confirm did not answer")
			}
			if s.Level(popup) >= 0 {
				t.Error("popup should remove itself")
			}
		})
	}
}

func TestPopup_Place(t *testing.T) {
	type tc struct {
		opts []Option
		want Rect
	}

	tests := map[string]tc{
		"defaults":      {want: NewRect(60, 40, 480, 400)},
		"small at top":  {opts: []Option{WithPopupSize(Px(100), Px(50)), WithPopupCenter(0.5, 0)}, want: NewRect(250, 0, 100, 50)},
		"clamped right": {opts: []Option{WithPopupSize(Expr("W/2"), Px(100)), WithPopupCenter(1, 0.5)}, want: NewRect(300, 350, 300, 100)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _, _ := newTestStack(t, 600, 800)
			p := NewPopup([]Row{R(Flex(), C(solid(Black), Flex()))}, tt.opts...)
			if err := s.Add(p); err != nil {
				t.Fatalf("Add: %v", err)
			}
			if got, _ := p.Area(); got != tt.want {
				t.Errorf("area = %+v, want %+v", got, tt.want)
			}
		})
	}
}

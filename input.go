package eink

import (
	"errors"
	"image"
	"slices"
	"unicode/utf8"
)

// cursorMark is drawn at the cursor when it is not at the end of the text.
const cursorMark = '|'

// Input is an editable text field. Clicking it shows the stack's keyboard
// and routes key presses into the field.
type Input struct {
	Button
	Multiline bool
	// OnReturn is called with the text when return is pressed in a
	// single-line field.
	OnReturn func(text string)

	cursor int
}

// NewInput creates an input element with the cursor after text.
func NewInput(text string, opts ...Option) *Element {
	in := &Input{Button: Button{Text: text}, cursor: utf8.RuneCountInString(text)}
	return New(in, opts...)
}

// Kind returns "input".
func (in *Input) Kind() string { return "input" }

// Cursor returns the cursor position in runes.
func (in *Input) Cursor() int {
	return in.cursor
}

// SetCursor moves the cursor, clamped to the text.
func (in *Input) SetCursor(n int) {
	in.cursor = min(max(n, 0), utf8.RuneCountInString(in.Text))
}

func (in *Input) display() string {
	runes := []rune(in.Text)
	if in.cursor >= len(runes) {
		return in.Text
	}
	return string(slices.Insert(runes, in.cursor, cursorMark))
}

// Render draws the text with the cursor.
func (in *Input) Render(rc RenderContext) (*image.Gray, error) {
	return renderLabel(rc, in.display())
}

// Key applies one key press.
func (in *Input) Key(k KeyType, r rune) {
	runes := []rune(in.Text)
	in.cursor = min(max(in.cursor, 0), len(runes))
	switch k {
	case KeyChar:
		runes = slices.Insert(runes, in.cursor, r)
		in.cursor++
	case KeyBackspace:
		if in.cursor > 0 {
			runes = slices.Delete(runes, in.cursor-1, in.cursor)
			in.cursor--
		}
	case KeyDelete:
		if in.cursor < len(runes) {
			runes = slices.Delete(runes, in.cursor, in.cursor+1)
		}
	case KeyReturn:
		if in.Multiline {
			runes = slices.Insert(runes, in.cursor, '\n')
			in.cursor++
		} else if in.OnReturn != nil {
			in.OnReturn(in.Text)
			return
		}
	}
	in.Text = string(runes)
}

func (in *Input) click(s *Stack, e *Element, x, y int) {
	in.cursor = utf8.RuneCountInString(in.Text)
	err := s.ShowKeyboard(func(k KeyType, r rune) {
		err := s.Update(e, func(*Element) { in.Key(k, r) })
		if err != nil && !errors.Is(err, ErrNotAttached) {
			s.log.Warnf("input: %v", err)
		}
	})
	if err != nil {
		s.log.Warnf("show keyboard: %v", err)
	}
}

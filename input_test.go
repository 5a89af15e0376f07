package eink

import (
	"testing"
)

func TestInput_Key(t *testing.T) {
	type press struct {
		k KeyType
		r rune
	}

	type tc struct {
		text       string
		cursor     int
		multiline  bool
		presses    []press
		wantText   string
		wantCursor int
		wantReturn string
	}

	tests := map[string]tc{
		"insert at end": {
			text:       "ab",
			cursor:     2,
			presses:    []press{{KeyChar, 'c'}},
			wantText:   "abc",
			wantCursor: 3,
		},
		"insert in middle": {
			text:       "ac",
			cursor:     1,
			presses:    []press{{KeyChar, 'b'}},
			wantText:   "abc",
			wantCursor: 2,
		},
		"backspace": {
			text:       "héllo",
			cursor:     2,
			presses:    []press{{KeyBackspace, 0}},
			wantText:   "hllo",
			wantCursor: 1,
		},
		"backspace at start": {
			text:       "x",
			cursor:     0,
			presses:    []press{{KeyBackspace, 0}},
			wantText:   "x",
			wantCursor: 0,
		},
		"delete": {
			text:       "abc",
			cursor:     1,
			presses:    []press{{KeyDelete, 0}},
			wantText:   "ac",
			wantCursor: 1,
		},
		"delete at end": {
			text:       "abc",
			cursor:     3,
			presses:    []press{{KeyDelete, 0}},
			wantText:   "abc",
			wantCursor: 3,
		},
		"return multiline": {
			text:       "ab",
			cursor:     1,
			multiline:  true,
			presses:    []press{{KeyReturn, 0}},
			wantText:   "a\nb",
			wantCursor: 2,
		},
		"return single line": {
			text:       "done",
			cursor:     4,
			presses:    []press{{KeyReturn, 0}},
			wantText:   "done",
			wantCursor: 4,
			wantReturn: "done",
		},
		"control is ignored": {
			text:       "a",
			cursor:     1,
			presses:    []press{{KeyControl, 0}},
			wantText:   "a",
			wantCursor: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var returned string
			in := NewInput(tt.text).Kind().(*Input)
			in.Multiline = tt.multiline
			in.OnReturn = func(s string) { returned = s }
			in.SetCursor(tt.cursor)

			for _, p := range tt.presses {
				in.Key(p.k, p.r)
			}
			if in.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", in.Text, tt.wantText)
			}
			if in.Cursor() != tt.wantCursor {
				t.Errorf("Cursor() = %d, want %d", in.Cursor(), tt.wantCursor)
			}
			if returned != tt.wantReturn {
				t.Errorf("OnReturn got %q, want %q", returned, tt.wantReturn)
			}
		})
	}
}

func TestInput_Display(t *testing.T) {
	in := NewInput("abc").Kind().(*Input)
	if got := in.display(); got != "abc" {
		t.Errorf("display() = %q, want no cursor at end", got)
	}
	in.SetCursor(1)
	if got := in.display(); got != "a|bc" {
		t.Errorf("display() = %q, want %q", got, "a|bc")
	}
}

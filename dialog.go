package eink

// Dialog describes a Confirm or Prompt popup.
type Dialog struct {
	Title string
	// Body is the message of a confirm and the initial text of a prompt.
	Body string
	// ConfirmText and CancelText default to "OK" and "Cancel".
	ConfirmText string
	CancelText  string
	// Multiline lets a prompt's return key insert newlines.
	Multiline bool
}

func (d Dialog) confirmText() string {
	if d.ConfirmText == "" {
		return "OK"
	}
	return d.ConfirmText
}

func (d Dialog) cancelText() string {
	if d.CancelText == "" {
		return "Cancel"
	}
	return d.CancelText
}

var (
	titleStyle = Style{Font: FontBold, OutlineWidth: -1}
	bodyStyle  = Style{OutlineWidth: -1, Wrap: On}
)

func dialogButton(text string, fn func()) *Element {
	return NewButton(text,
		WithInvertOnClick(DefaultInvertDuration),
		WithOnClick(func(*Element, int, int) { fn() }),
	)
}

// answerRow lays out buttons side by side with gaps between them.
func answerRow(buttons ...*Element) Row {
	gap := Gap(Expr("w*0.05"))
	cells := []Cell{gap}
	for _, b := range buttons {
		cells = append(cells, C(b, Flex()), gap)
	}
	return R(Flex(), cells...)
}

// Confirm shows a popup with the dialog's title and body and two buttons.
// The channel yields true for confirm and false for cancel, once, after
// the popup has been removed.
func (s *Stack) Confirm(d Dialog, opts ...Option) (<-chan bool, error) {
	ch := make(chan bool, 1)
	var (
		popup *Element
		done  bool
	)
	answer := func(v bool) {
		if done {
			return
		}
		done = true
		if err := s.Remove(popup); err != nil {
			s.log.Warnf("confirm: %v", err)
		}
		ch <- v
		close(ch)
	}

	popup = NewPopup([]Row{
		R(Expr("?*1.5"), C(New(&Button{Text: d.Title, Style: titleStyle}), Flex())),
		R(Expr("?*3"), C(New(&Button{Text: d.Body, Style: bodyStyle}), Flex())),
		answerRow(
			dialogButton(d.cancelText(), func() { answer(false) }),
			dialogButton(d.confirmText(), func() { answer(true) }),
		),
		Spacer(Expr("h*0.03")),
	}, opts...)
	if err := s.Add(popup); err != nil {
		return nil, err
	}
	return ch, nil
}

// Prompt shows a popup with the dialog's title, a text field and a
// confirm button. The field opens the keyboard when clicked. The channel
// yields the entered text once, after the popup and keyboard are gone.
func (s *Stack) Prompt(d Dialog, opts ...Option) (<-chan string, error) {
	ch := make(chan string, 1)
	var (
		popup *Element
		done  bool
	)
	answer := func(text string) {
		if done {
			return
		}
		done = true
		if err := s.HideKeyboard(); err != nil {
			s.log.Warnf("prompt: %v", err)
		}
		if err := s.Remove(popup); err != nil {
			s.log.Warnf("prompt: %v", err)
		}
		ch <- text
		close(ch)
	}

	field := NewInput(d.Body)
	in := field.kind.(*Input)
	in.Multiline = d.Multiline
	in.OnReturn = answer

	popup = NewPopup([]Row{
		R(Expr("?*1.5"), C(New(&Button{Text: d.Title, Style: titleStyle}), Flex())),
		R(Expr("?*3"), Gap(Expr("w*0.05")), C(field, Flex()), Gap(Expr("w*0.05"))),
		Spacer(Expr("h*0.03")),
		answerRow(dialogButton(d.confirmText(), func() { answer(in.Text) })),
		Spacer(Expr("h*0.03")),
	}, opts...)
	if err := s.Add(popup); err != nil {
		return nil, err
	}
	return ch, nil
}

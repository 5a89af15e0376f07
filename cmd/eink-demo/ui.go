package main

import (
	"fmt"
	"time"

	"github.com/grindlemire/go-eink"
)

// demo holds the elements the handlers update.
type demo struct {
	stack  *eink.Stack
	status *eink.Element
	clock  *eink.Element
	notes  int
}

func buildDemo(s *eink.Stack) error {
	d := &demo{stack: s}
	w, h := s.Size()

	d.clock = eink.NewButton(clockText(time.Now()),
		eink.WithArea(eink.NewRect(0, 0, w, h/10)),
		eink.WithStyle(eink.Style{Font: eink.FontBold, Sides: eink.SideBottom}),
	)
	d.status = eink.NewButton("Tap a button",
		eink.WithArea(eink.NewRect(0, h-h/10, w, h/10)),
		eink.WithStyle(eink.Style{Sides: eink.SideTop, AlignX: eink.AlignStart}),
	)
	menu := eink.NewButtonList([]eink.ButtonSpec{
		{Text: "Say hello", OnClick: d.hello},
		{Text: "Write a note", OnClick: d.note},
		{Text: "Invert screen", OnClick: d.invert},
		{Text: "Full refresh", OnClick: d.refresh},
		{Text: "Quit", OnClick: d.quit, Style: eink.Style{Font: eink.FontBold, Radius: 12}},
	}, eink.Edges{
		Top:    eink.Expr("H*0.03"),
		Bottom: eink.Expr("H*0.03"),
		Left:   eink.Expr("W*0.1"),
		Right:  eink.Expr("W*0.1"),
	}, eink.Expr("H*0.02"), eink.WithArea(eink.NewRect(0, h/10, w, h-2*(h/10))))

	s.StartBatch()
	for _, e := range []*eink.Element{d.clock, menu, d.status} {
		if err := s.Add(e); err != nil {
			return err
		}
	}
	if err := s.StopBatch(); err != nil {
		return err
	}
	if err := s.InitKeyboard(nil); err != nil {
		return err
	}

	s.Watch(eink.OnTimer(time.Minute, d.tick))
	return nil
}

func clockText(t time.Time) string {
	return t.Format("Mon 2 Jan 15:04")
}

func (d *demo) setText(e *eink.Element, text string) {
	err := d.stack.Update(e, func(e *eink.Element) {
		e.Kind().(*eink.Button).Text = text
	})
	if err != nil {
		d.report(err)
	}
}

func (d *demo) say(text string) {
	d.setText(d.status, text)
}

func (d *demo) report(err error) {
	d.say("Error: " + err.Error())
}

func (d *demo) tick() {
	d.setText(d.clock, clockText(time.Now()))
}

func (d *demo) hello(*eink.Element, int, int) {
	answers, err := d.stack.Confirm(eink.Dialog{
		Title:       "Hello",
		Body:        "This panel is driven by a retained element stack.",
		ConfirmText: "Nice",
		CancelText:  "Meh",
	})
	if err != nil {
		d.report(err)
		return
	}
	d.stack.Watch(eink.Watch(answers, func(ok bool) {
		if ok {
			d.say("Glad you like it")
		} else {
			d.say("Noted")
		}
	}))
}

func (d *demo) note(*eink.Element, int, int) {
	answers, err := d.stack.Prompt(eink.Dialog{Title: "Note"})
	if err != nil {
		d.report(err)
		return
	}
	d.stack.Watch(eink.Watch(answers, func(text string) {
		if text == "" {
			d.say("Empty note discarded")
			return
		}
		d.notes++
		d.say(fmt.Sprintf("Note %d: %s", d.notes, text))
	}))
}

func (d *demo) invert(*eink.Element, int, int) {
	if err := d.stack.Invert(); err != nil {
		d.report(err)
	}
}

func (d *demo) refresh(*eink.Element, int, int) {
	if err := d.stack.Refresh(); err != nil {
		d.report(err)
	}
}

func (d *demo) quit(*eink.Element, int, int) {
	answers, err := d.stack.Confirm(eink.Dialog{Title: "Quit", Body: "Leave the demo?", ConfirmText: "Quit"})
	if err != nil {
		d.report(err)
		return
	}
	d.stack.Watch(eink.Watch(answers, func(ok bool) {
		if ok {
			d.stack.Stop()
		}
	}))
}

package eink

import "image"

// Button is text over a rectangle.
type Button struct {
	Text  string
	Style Style
}

// NewButton creates a button element.
func NewButton(text string, opts ...Option) *Element {
	return New(&Button{Text: text}, opts...)
}

// Kind returns "button".
func (b *Button) Kind() string { return "button" }

func (b *Button) instanceStyle() Style { return b.Style }

// Render draws the box, then the text inside it.
func (b *Button) Render(rc RenderContext) (*image.Gray, error) {
	return renderLabel(rc, b.Text)
}

func renderLabel(rc RenderContext, text string) (*image.Gray, error) {
	st := rc.Style()
	img, err := drawBox(rc.Area.Width, rc.Area.Height, st)
	if err != nil {
		return nil, err
	}
	size, err := rc.Eval(st.FontSize)
	if err != nil {
		return nil, err
	}
	if err := drawText(img, textBox(rc.Area.Width, rc.Area.Height, st), text, st, size); err != nil {
		return nil, err
	}
	return img, nil
}

package eink

// ButtonSpec describes one button of a ButtonList.
type ButtonSpec struct {
	Text    string
	OnClick func(e *Element, x, y int)
	Style   Style
	Data    any
}

// Edges holds a size for each side of a box.
type Edges struct {
	Top, Bottom, Left, Right Dim
}

// NewButtonList builds a layout with one button per row. The buttons share
// the height left after the edges and the spacing between them.
func NewButtonList(specs []ButtonSpec, edges Edges, spacing Dim, opts ...Option) *Element {
	var rows []Row
	if !isZeroDim(edges.Top) {
		rows = append(rows, Spacer(edges.Top))
	}
	for i, spec := range specs {
		if i > 0 && !isZeroDim(spacing) {
			rows = append(rows, Spacer(spacing))
		}
		btn := New(&Button{Text: spec.Text, Style: spec.Style},
			WithOnClick(spec.OnClick),
			WithInvertOnClick(DefaultInvertDuration),
			WithData(spec.Data),
		)
		var cells []Cell
		if !isZeroDim(edges.Left) {
			cells = append(cells, Gap(edges.Left))
		}
		cells = append(cells, C(btn, Flex()))
		if !isZeroDim(edges.Right) {
			cells = append(cells, Gap(edges.Right))
		}
		rows = append(rows, R(Flex(), cells...))
	}
	if !isZeroDim(edges.Bottom) {
		rows = append(rows, Spacer(edges.Bottom))
	}
	return NewLayout(rows, opts...)
}

func isZeroDim(d Dim) bool {
	return d == Dim{}
}

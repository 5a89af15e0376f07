package eink

import (
	"fmt"
	"image"
	"sort"

	"github.com/grindlemire/go-eink/internal/layout"
)

// Search selects how a layout finds the column under a tap.
type Search uint8

const (
	// SearchDefault uses the stack's default search.
	SearchDefault Search = iota
	// SearchLinear scans every column.
	SearchLinear
	// SearchDichotomy bisects the columns of the row, which always start
	// at increasing x.
	SearchDichotomy
)

// Cell is one child of a row and its width.
type Cell struct {
	Elem  *Element
	Width Dim
}

// Row is one row of a layout: its height and its cells left to right.
type Row struct {
	Height Dim
	Cells  []Cell
}

// C returns a cell holding e.
func C(e *Element, width Dim) Cell {
	return Cell{Elem: e, Width: width}
}

// Gap returns an empty cell of the given width.
func Gap(width Dim) Cell {
	return Cell{Width: width}
}

// R returns a row.
func R(height Dim, cells ...Cell) Row {
	return Row{Height: height, Cells: cells}
}

// Spacer returns a row holding only a margin.
func Spacer(height Dim) Row {
	return R(height, Gap(Flex()))
}

// Layout divides its area into rows of cells and composites its children
// over its background.
type Layout struct {
	Rows       []Row
	Background string
	Search     Search

	self *Element
	grid layout.Grid
}

// NewLayout creates a layout element. Empty cells become margins.
func NewLayout(rows []Row, opts ...Option) *Element {
	l := &Layout{Rows: rows}
	l.normalize()
	e := New(l, opts...)
	l.self = e
	return e
}

func (l *Layout) normalize() {
	for i := range l.Rows {
		for j := range l.Rows[i].Cells {
			if l.Rows[i].Cells[j].Elem == nil {
				l.Rows[i].Cells[j].Elem = NewMargin()
			}
		}
	}
}

// Kind returns "layout".
func (l *Layout) Kind() string { return "layout" }

func (l *Layout) instanceStyle() Style { return Style{Background: l.Background} }

// Validate reports layouts that use the same element in two cells.
func (l *Layout) Validate() error {
	seen := make(map[*Element]bool)
	for i, row := range l.Rows {
		for j, c := range row.Cells {
			if c.Elem == nil {
				return fmt.Errorf("row %d cell %d: no element", i, j)
			}
			if seen[c.Elem] {
				return fmt.Errorf("row %d cell %d: element used twice", i, j)
			}
			seen[c.Elem] = true
		}
	}
	return nil
}

// SetRows replaces the rows. Use it inside Stack.Update so that the new
// children get registered.
func (l *Layout) SetRows(rows []Row) {
	l.Rows = rows
	l.normalize()
	l.grid = layout.Grid{}
}

// Children returns the cell elements row by row.
func (l *Layout) Children() []*Element {
	var out []*Element
	for _, row := range l.Rows {
		for _, c := range row.Cells {
			out = append(out, c.Elem)
		}
	}
	return out
}

// AreaMatrix returns the rectangle of every cell as of the last render.
func (l *Layout) AreaMatrix() [][]Rect {
	out := make([][]Rect, len(l.grid.Cells))
	for i, row := range l.grid.Cells {
		out[i] = append([]Rect(nil), row...)
	}
	return out
}

func (l *Layout) tracks() []layout.Track {
	tracks := make([]layout.Track, len(l.Rows))
	for i, row := range l.Rows {
		t := layout.Track{Size: row.Height, Cells: make([]Dim, len(row.Cells))}
		for j, c := range row.Cells {
			t.Cells[j] = c.Width
		}
		tracks[i] = t
	}
	return tracks
}

// Render allocates the grid, renders every cell into its rectangle and
// pastes the results over the background.
func (l *Layout) Render(rc RenderContext) (*image.Gray, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	grid, err := layout.Allocate(l.tracks(), rc.Area, rc.env)
	if err != nil {
		return nil, err
	}
	l.grid = grid

	st := rc.Style()
	canvas, err := drawBox(rc.Area.Width, rc.Area.Height, st)
	if err != nil {
		return nil, err
	}
	for i, row := range l.Rows {
		for j, c := range row.Cells {
			area := grid.Cells[i][j]
			img, err := rc.Render(c.Elem, area)
			if err != nil {
				return nil, fmt.Errorf("row %d cell %d: %w", i, j, err)
			}
			paste(canvas, img, area.X-rc.Area.X, area.Y-rc.Area.Y, c.Elem.inverted)
		}
	}
	if st.OutlineWidth > 0 && st.Radius == 0 {
		// Children may cover the outline.
		fg, err := ParseColor(st.Outline)
		if err != nil {
			return nil, err
		}
		strokeSides(canvas, st, fg)
	}
	return canvas, nil
}

// Hit returns the cell element at (x, y). Rows are scanned linearly;
// columns use the layout's search. Margins are never returned.
func (l *Layout) Hit(x, y int) *Element {
	for i, area := range l.grid.Rows {
		cells := l.grid.Cells[i]
		if len(cells) == 0 || i >= len(l.Rows) || len(l.Rows[i].Cells) != len(cells) {
			continue
		}
		if y < area.Y || y >= area.Bottom() || x < cells[0].X || x >= cells[len(cells)-1].Right() {
			continue
		}
		j := l.column(cells, x)
		if j < 0 || !cells[j].Contains(x, y) {
			return nil
		}
		e := l.Rows[i].Cells[j].Elem
		if isMargin(e) {
			return nil
		}
		return e
	}
	return nil
}

func (l *Layout) column(cells []Rect, x int) int {
	if l.search() == SearchLinear {
		for j, c := range cells {
			if x >= c.X && x < c.Right() {
				return j
			}
		}
		return -1
	}
	// Last column starting at or before x.
	return sort.Search(len(cells), func(j int) bool { return cells[j].X > x }) - 1
}

func (l *Layout) search() Search {
	if l.Search != SearchDefault {
		return l.Search
	}
	if l.self != nil && l.self.stack != nil {
		return l.self.stack.search
	}
	return SearchDichotomy
}

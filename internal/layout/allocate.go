package layout

import (
	"fmt"

	"github.com/grindlemire/go-eink/internal/debug"
)

// Axis selects the direction a single-axis container divides.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Track is one row of a grid: its height and the widths of its cells.
type Track struct {
	Size  Dim
	Cells []Dim
}

// Grid is the result of allocating a list of tracks. Rows[i] spans the
// full container width; Cells[i][j] is the rectangle of cell j in row i.
type Grid struct {
	Rows  []Rect
	Cells [][]Rect
}

// Split divides total pixels among dims.
//
// Fixed entries get their resolved size. The constant part of a flex entry
// counts toward the fixed total, sign included, and the remainder is shared
// among flex entries by weight. When the fixed entries alone exceed total
// the remainder is clamped to zero and a warning is logged. Sizes are
// clamped to zero below and to the space left after the preceding entries
// above, so the sizes never add up to more than total.
func Split(dims []Dim, total int, env Env) ([]int, error) {
	resolved := make([]Resolved, len(dims))
	fixed := 0
	weight := 0.0
	for i, d := range dims {
		r, err := Resolve(d, env)
		if err != nil {
			return nil, err
		}
		resolved[i] = r
		if r.IsFlex() {
			fixed += r.Pixels
		} else {
			fixed += max(r.Pixels, 0)
		}
		weight += r.Weight
	}

	remaining := total - fixed
	if remaining < 0 {
		debug.With("layout").Warnf("over-constrained: fixed sizes %d exceed %d, trailing entries are clipped", fixed, total)
		remaining = 0
	}
	unit := 0.0
	if weight > 0 {
		unit = float64(remaining) / weight
	}

	sizes := make([]int, len(dims))
	cursor := 0
	for i, r := range resolved {
		n, err := r.Finish(unit)
		if err != nil {
			return nil, err
		}
		sizes[i] = min(max(n, 0), max(total-cursor, 0))
		cursor += sizes[i]
	}
	return sizes, nil
}

// Offsets returns the start position of each size when laid out
// back to back from origin.
func Offsets(sizes []int, origin int) []int {
	out := make([]int, len(sizes))
	cursor := origin
	for i, n := range sizes {
		out[i] = cursor
		cursor += n
	}
	return out
}

// Line divides area along one axis and returns one rectangle per dim.
func Line(dims []Dim, area Rect, axis Axis, env Env) ([]Rect, error) {
	env = env.Within(area)
	total, origin := area.Height, area.Y
	if axis == Horizontal {
		total, origin = area.Width, area.X
	}
	sizes, err := Split(dims, total, env)
	if err != nil {
		return nil, err
	}
	offs := Offsets(sizes, origin)
	out := make([]Rect, len(dims))
	for i, n := range sizes {
		if axis == Horizontal {
			out[i] = NewRect(offs[i], area.Y, n, area.Height)
		} else {
			out[i] = NewRect(area.X, offs[i], area.Width, n)
		}
	}
	return out, nil
}

// Allocate resolves row heights within area, then the cell widths of each
// row. Row heights resolve against the container; cell widths resolve with
// w bound to the container width and h bound to the row height.
func Allocate(tracks []Track, area Rect, env Env) (Grid, error) {
	heights := make([]Dim, len(tracks))
	for i, t := range tracks {
		heights[i] = t.Size
	}
	rows, err := Line(heights, area, Vertical, env)
	if err != nil {
		return Grid{}, fmt.Errorf("row heights: %w", err)
	}

	g := Grid{Rows: rows, Cells: make([][]Rect, len(tracks))}
	for i, t := range tracks {
		if len(t.Cells) == 0 {
			continue
		}
		cells, err := Line(t.Cells, rows[i], Horizontal, env)
		if err != nil {
			return Grid{}, fmt.Errorf("row %d: %w", i, err)
		}
		g.Cells[i] = cells
	}
	return g, nil
}

package layout

import (
	"errors"
	"fmt"
)

// ErrDimension is matched by every *DimensionError.
var ErrDimension = errors.New("invalid dimension")

// DimensionError reports a size expression that cannot be evaluated.
// It indicates a bug in a layout description and is not recoverable.
type DimensionError struct {
	Expr string
	Pos  int // byte offset into Expr, -1 when not tied to a position
	Msg  string
}

func (e *DimensionError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("dimension %q: %s at offset %d", e.Expr, e.Msg, e.Pos)
	}
	return fmt.Sprintf("dimension %q: %s", e.Expr, e.Msg)
}

// Unwrap lets errors.Is match ErrDimension.
func (e *DimensionError) Unwrap() error {
	return ErrDimension
}

func dimErr(expr string, pos int, format string, args ...any) *DimensionError {
	return &DimensionError{Expr: expr, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

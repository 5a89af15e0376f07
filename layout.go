// layout.go re-exports geometry types from internal/layout.
// Any changes to internal/layout types must be mirrored here.
package eink

import "github.com/grindlemire/go-eink/internal/layout"

// Geometry and dimension types, re-exported from internal/layout.
type (
	// Rect is an absolute pixel rectangle.
	Rect = layout.Rect
	// Dim is a declared size: pixels or a symbolic expression.
	Dim = layout.Dim
	// DimensionError reports a size expression that cannot be evaluated.
	DimensionError = layout.DimensionError
	// Axis selects the direction of a Collection.
	Axis = layout.Axis
)

const (
	Vertical   = layout.Vertical
	Horizontal = layout.Horizontal
)

// ErrDimension is matched by every *DimensionError.
var ErrDimension = layout.ErrDimension

// NewRect creates a Rect.
func NewRect(x, y, width, height int) Rect {
	return layout.NewRect(x, y, width, height)
}

// Px returns a fixed pixel size.
func Px(n int) Dim { return layout.Px(n) }

// Expr returns a symbolic size; see layout.Expr for the syntax.
func Expr(s string) Dim { return layout.Expr(s) }

// Flex returns a flexible size with weight 1.
func Flex() Dim { return layout.Flex() }

// FlexN returns a flexible size with the given weight.
func FlexN(weight float64) Dim { return layout.FlexN(weight) }

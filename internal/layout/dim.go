package layout

import (
	"strconv"
	"strings"
)

// Dim is a declared size. The zero value is zero pixels.
type Dim struct {
	px   int
	expr string
}

// Px returns a fixed pixel size.
func Px(n int) Dim {
	return Dim{px: n}
}

// Expr returns a symbolic size such as "W/2", "h*0.1" or "?*3".
//
// Recognized names are W and H (screen size), w and h (size of the area
// being divided), p and P (the constant 1) and ? (flex). The functions
// min and max are available. Syntax errors surface when the Dim is resolved.
func Expr(s string) Dim {
	return Dim{expr: s}
}

// Flex returns a flexible size with weight 1.
func Flex() Dim {
	return Dim{expr: "?"}
}

// FlexN returns a flexible size with the given weight.
func FlexN(weight float64) Dim {
	return Dim{expr: "?*" + strconv.FormatFloat(weight, 'g', -1, 64)}
}

// IsExpr reports whether d is symbolic.
func (d Dim) IsExpr() bool {
	return d.expr != ""
}

// IsFlex reports whether d mentions the flex placeholder.
func (d Dim) IsFlex() bool {
	return strings.Contains(d.expr, "?")
}

// String returns the expression, or the pixel count for fixed sizes.
func (d Dim) String() string {
	if d.expr != "" {
		return d.expr
	}
	return strconv.Itoa(d.px)
}

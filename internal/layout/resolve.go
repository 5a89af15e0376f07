package layout

import (
	"errors"
	"math"
)

const linearTolerance = 1e-9

// Env carries the sizes an expression may reference.
type Env struct {
	ScreenW, ScreenH int
	// W and H are the size of the area being divided. When HasArea is
	// false, w and h fall back to the screen size.
	W, H    int
	HasArea bool
}

// ScreenEnv returns an Env with no own area.
func ScreenEnv(w, h int) Env {
	return Env{ScreenW: w, ScreenH: h}
}

// Within returns a copy of env whose own area is r.
func (env Env) Within(r Rect) Env {
	env.W, env.H, env.HasArea = r.Width, r.Height, true
	return env
}

func (env Env) vars() vars {
	v := vars{
		screenW: float64(env.ScreenW),
		screenH: float64(env.ScreenH),
		w:       float64(env.ScreenW),
		h:       float64(env.ScreenH),
	}
	if env.HasArea {
		v.w, v.h = float64(env.W), float64(env.H)
	}
	return v
}

// Resolved is an evaluated Dim. A fixed size has Weight zero and its
// value in Pixels. A flex size contributes Weight to the flex pool and
// Pixels as its fixed part, so "?*2+10" has Weight 2 and Pixels 10.
type Resolved struct {
	Pixels int
	Weight float64

	root node
	expr string
	vars vars
}

// IsFlex reports whether r takes a share of the leftover space.
func (r Resolved) IsFlex() bool {
	return r.Weight > 0
}

// Finish returns the final size of a flex entry once one weight unit of
// the leftover pool is known to be worth unit pixels.
func (r Resolved) Finish(unit float64) (int, error) {
	if !r.IsFlex() {
		return r.Pixels, nil
	}
	v := r.vars
	v.flex = unit
	out, err := r.root.eval(&v)
	if err != nil {
		return 0, wrapEvalErr(r.expr, err)
	}
	return int(math.Floor(out + linearTolerance)), nil
}

// Resolve evaluates d in env.
//
// Integers are returned unchanged. Expressions without "?" are evaluated
// and floored. Expressions with "?" must be linear in it; the coefficient
// is the flex weight and must be positive.
func Resolve(d Dim, env Env) (Resolved, error) {
	if !d.IsExpr() {
		return Resolved{Pixels: d.px}, nil
	}
	root, err := parseExpr(d.expr)
	if err != nil {
		return Resolved{}, err
	}
	v := env.vars()
	if !d.IsFlex() {
		out, err := root.eval(&v)
		if err != nil {
			return Resolved{}, wrapEvalErr(d.expr, err)
		}
		return Resolved{Pixels: int(math.Floor(out + linearTolerance))}, nil
	}

	at := func(q float64) (float64, error) {
		vq := v
		vq.flex = q
		return root.eval(&vq)
	}
	f0, err := at(0)
	if err != nil {
		return Resolved{}, wrapEvalErr(d.expr, err)
	}
	f1, err := at(1)
	if err != nil {
		return Resolved{}, wrapEvalErr(d.expr, err)
	}
	f2, err := at(2)
	if err != nil {
		return Resolved{}, wrapEvalErr(d.expr, err)
	}
	weight := f1 - f0
	if math.Abs((f2-f1)-weight) > linearTolerance {
		return Resolved{}, dimErr(d.expr, -1, "flex expression is not linear in ?")
	}
	if weight <= 0 {
		return Resolved{}, dimErr(d.expr, -1, "flex weight must be positive, got %g", weight)
	}
	return Resolved{
		Pixels: int(math.Floor(f0 + linearTolerance)),
		Weight: weight,
		root:   root,
		expr:   d.expr,
		vars:   v,
	}, nil
}

// Eval resolves a Dim that must not be flexible.
func Eval(d Dim, env Env) (int, error) {
	r, err := Resolve(d, env)
	if err != nil {
		return 0, err
	}
	if r.IsFlex() {
		return 0, dimErr(d.expr, -1, "flex size not allowed here")
	}
	return r.Pixels, nil
}

func wrapEvalErr(expr string, err error) error {
	var dz errDivZero
	if errors.As(err, &dz) {
		return dimErr(expr, dz.pos, "division by zero")
	}
	return dimErr(expr, -1, "%v", err)
}

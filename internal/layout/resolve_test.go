package layout

import (
	"errors"
	"testing"
)

func TestResolve_Fixed(t *testing.T) {
	type tc struct {
		dim      Dim
		env      Env
		expected int
	}

	screen := ScreenEnv(600, 800)

	tests := map[string]tc{
		"integer unchanged":        {dim: Px(42), env: screen, expected: 42},
		"half screen width":        {dim: Expr("W/2"), env: screen, expected: 300},
		"tenth of screen height":   {dim: Expr("H*0.1"), env: screen, expected: 80},
		"floors the result":        {dim: Expr("W/7"), env: screen, expected: 85},
		"parentheses":              {dim: Expr("(W+H)/3"), env: screen, expected: 466},
		"unary minus":              {dim: Expr("-W/4+200"), env: screen, expected: 50},
		"own width falls back":     {dim: Expr("w/3"), env: screen, expected: 200},
		"own width":                {dim: Expr("w/3"), env: screen.Within(NewRect(0, 0, 90, 30)), expected: 30},
		"own height":               {dim: Expr("h*2"), env: screen.Within(NewRect(0, 0, 90, 30)), expected: 60},
		"p is one":                 {dim: Expr("p*300+max(w, h)"), env: screen, expected: 1100},
		"min":                      {dim: Expr("min(W, H) - 10"), env: screen, expected: 590},
		"nested calls":             {dim: Expr("max(min(W, 100), 50, P*70)"), env: screen, expected: 100},
		"spaces are ignored":       {dim: Expr("  W / 3 "), env: screen, expected: 200},
		"leading decimal point":    {dim: Expr(".5*W"), env: screen, expected: 300},
		"zero value is zero px":    {dim: Dim{}, env: screen, expected: 0},
		"pixels ignore the screen": {dim: Px(7), env: ScreenEnv(0, 0), expected: 7},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Resolve(tt.dim, tt.env)
			if err != nil {
				t.Fatalf("Resolve(%s) error: %v", tt.dim, err)
			}
			if r.IsFlex() {
				t.Fatalf("Resolve(%s) is flex", tt.dim)
			}
			if r.Pixels != tt.expected {
				t.Errorf("Resolve(%s) = %d, want %d", tt.dim, r.Pixels, tt.expected)
			}
		})
	}
}

func TestResolve_Flex(t *testing.T) {
	type tc struct {
		dim    Dim
		weight float64
		pixels int
	}

	tests := map[string]tc{
		"bare":             {dim: Flex(), weight: 1},
		"times three":      {dim: Expr("?*3"), weight: 3},
		"fractional":       {dim: Expr("?*1.5"), weight: 1.5},
		"coefficient left": {dim: Expr("3*?"), weight: 3},
		"with offset":      {dim: Expr("?*2+10"), weight: 2, pixels: 10},
		"grouped":          {dim: Expr("(?+1)*2"), weight: 2, pixels: 2},
		"FlexN":            {dim: FlexN(4), weight: 4},
		"screen relative":  {dim: Expr("?+W/100"), weight: 1, pixels: 6},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Resolve(tt.dim, ScreenEnv(600, 800))
			if err != nil {
				t.Fatalf("Resolve(%s) error: %v", tt.dim, err)
			}
			if !r.IsFlex() {
				t.Fatalf("Resolve(%s) is not flex", tt.dim)
			}
			if r.Weight != tt.weight {
				t.Errorf("Weight = %v, want %v", r.Weight, tt.weight)
			}
			if r.Pixels != tt.pixels {
				t.Errorf("Pixels = %d, want %d", r.Pixels, tt.pixels)
			}
		})
	}
}

func TestResolved_Finish(t *testing.T) {
	r, err := Resolve(Expr("?*2+10"), ScreenEnv(600, 800))
	if err != nil {
		t.Fatal(err)
	}
	n, err := r.Finish(50)
	if err != nil {
		t.Fatal(err)
	}
	if n != 110 {
		t.Errorf("Finish(50) = %d, want 110", n)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := map[string]string{
		"only spaces":       "   ",
		"dangling op":       "W/",
		"division by zero":  "W/0",
		"unknown name":      "foo",
		"trailing name":     "W Q",
		"unclosed paren":    "(W",
		"bad number":        "2..3",
		"bad character":     "W+#",
		"call without args": "max W",
		"unterminated call": "max(W, H",
		"not linear":        "?*?",
		"negative weight":   "-?",
		"zero weight":       "?*0",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(Expr(src), ScreenEnv(600, 800))
			if err == nil {
				t.Fatalf("Resolve(%q) expected error", src)
			}
			if !errors.Is(err, ErrDimension) {
				t.Errorf("errors.Is(%v, ErrDimension) = false", err)
			}
			var de *DimensionError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *DimensionError", err)
			}
			if de.Expr != src {
				t.Errorf("DimensionError.Expr = %q, want %q", de.Expr, src)
			}
		})
	}
}

func TestEval_RejectsFlex(t *testing.T) {
	if _, err := Eval(Flex(), ScreenEnv(10, 10)); !errors.Is(err, ErrDimension) {
		t.Errorf("Eval(?) error = %v, want ErrDimension", err)
	}
	n, err := Eval(Expr("H/4"), ScreenEnv(10, 40))
	if err != nil || n != 10 {
		t.Errorf("Eval(H/4) = %d, %v; want 10, nil", n, err)
	}
}

package eink

// Align positions content inside an area. The zero value means unset.
type Align uint8

const (
	AlignUnset Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Flag is a boolean style field that can be left unset.
type Flag uint8

const (
	Unset Flag = iota
	On
	Off
)

// Sides selects rectangle edges. The zero value means all four.
type Sides uint8

const (
	SideTop Sides = 1 << iota
	SideBottom
	SideLeft
	SideRight

	AllSides = SideTop | SideBottom | SideLeft | SideRight
)

// Fonts bundled with the toolkit.
const (
	FontRegular = "regular"
	FontBold    = "bold"
	FontMono    = "mono"
)

// Style holds the visual properties shared by element kinds. Zero fields
// are unset and fall through to the next level of the lookup: the kind's
// own style, then the element's local style, then the stack's style table
// for the kind, then DefaultStyles, then the base style.
type Style struct {
	Background string
	Outline    string
	// OutlineWidth of -1 draws no outline.
	OutlineWidth int
	Sides        Sides
	Radius       int

	Font      string
	FontSize  Dim
	FontColor string
	AlignX    Align
	AlignY    Align
	Wrap      Flag
}

// baseStyle applies when no level sets a field.
var baseStyle = Style{
	Background:   White,
	Outline:      Black,
	OutlineWidth: 1,
	Sides:        AllSides,
	Font:         FontRegular,
	FontSize:     Expr("H*0.036"),
	FontColor:    Black,
	AlignX:       AlignCenter,
	AlignY:       AlignCenter,
	Wrap:         On,
}

// DefaultStyles holds the built-in style of each element kind.
var DefaultStyles = map[string]Style{
	"rectangle":  {Outline: Gray(3)},
	"button":     {},
	"input":      {AlignX: AlignStart, AlignY: AlignStart, Font: FontMono},
	"key":        {FontSize: Expr("H*0.02"), Wrap: Off},
	"layout":     {OutlineWidth: -1},
	"collection": {OutlineWidth: -1},
	"popup":      {Outline: Black, OutlineWidth: 2},
	"keyboard":   {Background: Gray(14), OutlineWidth: -1},
}

// Merge returns s with every set field of over applied on top.
func (s Style) Merge(over Style) Style {
	if over.Background != "" {
		s.Background = over.Background
	}
	if over.Outline != "" {
		s.Outline = over.Outline
	}
	if over.OutlineWidth != 0 {
		s.OutlineWidth = over.OutlineWidth
	}
	if over.Sides != 0 {
		s.Sides = over.Sides
	}
	if over.Radius != 0 {
		s.Radius = over.Radius
	}
	if over.Font != "" {
		s.Font = over.Font
	}
	if over.FontSize != (Dim{}) {
		s.FontSize = over.FontSize
	}
	if over.FontColor != "" {
		s.FontColor = over.FontColor
	}
	if over.AlignX != AlignUnset {
		s.AlignX = over.AlignX
	}
	if over.AlignY != AlignUnset {
		s.AlignY = over.AlignY
	}
	if over.Wrap != Unset {
		s.Wrap = over.Wrap
	}
	return s
}

// styled is implemented by kinds that carry their own style fields.
type styled interface {
	instanceStyle() Style
}

// resolveStyle computes the effective style of e. table is the stack's
// style table and may be nil.
func resolveStyle(e *Element, table map[string]Style) Style {
	kind := e.kind.Kind()
	s := baseStyle.Merge(DefaultStyles[kind])
	if table != nil {
		s = s.Merge(table[kind])
	}
	s = s.Merge(e.style)
	if k, ok := e.kind.(styled); ok {
		s = s.Merge(k.instanceStyle())
	}
	return s
}

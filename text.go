package eink

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// textPadding is the gap kept between text and the outline.
const textPadding = 2

var fontData = map[string][]byte{
	FontRegular: goregular.TTF,
	FontBold:    gobold.TTF,
	FontMono:    gomono.TTF,
}

type faceKey struct {
	name string
	size int
}

var faces = struct {
	sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}{
	fonts: make(map[string]*opentype.Font),
	faces: make(map[faceKey]font.Face),
}

// RegisterFont makes a TrueType or OpenType font available under name.
func RegisterFont(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}
	faces.Lock()
	defer faces.Unlock()
	faces.fonts[name] = f
	for k := range faces.faces {
		if k.name == name {
			delete(faces.faces, k)
		}
	}
	return nil
}

// face returns the cached face for name at size pixels.
func face(name string, size int) (font.Face, error) {
	faces.Lock()
	defer faces.Unlock()
	key := faceKey{name: name, size: size}
	if fc, ok := faces.faces[key]; ok {
		return fc, nil
	}
	f, ok := faces.fonts[name]
	if !ok {
		data, ok := fontData[name]
		if !ok {
			return nil, fmt.Errorf("unknown font %q", name)
		}
		var err error
		if f, err = opentype.Parse(data); err != nil {
			return nil, fmt.Errorf("parse font %q: %w", name, err)
		}
		faces.fonts[name] = f
	}
	fc, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %q size %d: %w", name, size, err)
	}
	faces.faces[key] = fc
	return fc, nil
}

// drawText writes text into box (in img coordinates) using the font,
// color, alignment and wrapping of st. size is the font size in pixels.
func drawText(img *image.Gray, box image.Rectangle, text string, st Style, size int) error {
	if text == "" || size <= 0 || box.Empty() {
		return nil
	}
	fc, err := face(st.Font, size)
	if err != nil {
		return err
	}
	col, err := ParseColor(st.FontColor)
	if err != nil {
		return err
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if st.Wrap == On {
			lines = append(lines, wrapLine(fc, para, box.Dx())...)
		} else {
			lines = append(lines, para)
		}
	}

	m := fc.Metrics()
	lineHeight := m.Height.Ceil()
	ascent := m.Ascent.Ceil()
	y := box.Min.Y + align(st.AlignY, box.Dy(), lineHeight*len(lines))

	d := font.Drawer{Dst: img, Src: image.NewUniform(col), Face: fc}
	for _, line := range lines {
		w := font.MeasureString(fc, line).Ceil()
		x := box.Min.X + align(st.AlignX, box.Dx(), w)
		d.Dot = fixed.P(x, y+ascent)
		d.DrawString(line)
		y += lineHeight
	}
	return nil
}

// align returns the offset of content of the given size inside space.
func align(a Align, space, size int) int {
	switch a {
	case AlignCenter:
		return (space - size) / 2
	case AlignEnd:
		return space - size
	default:
		return 0
	}
}

// wrapLine breaks s on spaces so that each line fits width. A single word
// wider than width gets a line of its own.
func wrapLine(fc font.Face, s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var (
		lines []string
		cur   = words[0]
	)
	for _, w := range words[1:] {
		next := cur + " " + w
		if font.MeasureString(fc, next).Ceil() <= width {
			cur = next
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

// textBox is the area left for text inside an outlined w x h box.
func textBox(w, h int, st Style) image.Rectangle {
	return image.Rect(0, 0, w, h).Inset(max(st.OutlineWidth, 0) + textPadding)
}

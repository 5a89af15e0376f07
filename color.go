package eink

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Gray levels 0 through 15 span black to white, as on 16-level panels.
const grayLevels = 16

// Named colors.
const (
	White = "white"
	Black = "black"
)

// Gray returns the name of gray level n (0 is black, 15 is white).
func Gray(n int) string {
	return "gray" + strconv.Itoa(n)
}

// ParseColor converts a color name to a gray value. Accepted forms are
// "white", "black", "gray0" through "gray15", and hex "#RRGGBB" or "#RGB",
// which are converted to luminance.
func ParseColor(name string) (color.Gray, error) {
	switch {
	case name == White:
		return color.Gray{Y: 255}, nil
	case name == Black:
		return color.Gray{Y: 0}, nil
	case strings.HasPrefix(name, "gray"):
		n, err := strconv.Atoi(strings.TrimPrefix(name, "gray"))
		if err != nil || n < 0 || n >= grayLevels {
			return color.Gray{}, fmt.Errorf("invalid gray level %q: expected gray0 to gray15", name)
		}
		return color.Gray{Y: uint8(n * 255 / (grayLevels - 1))}, nil
	case strings.HasPrefix(name, "#"):
		r, g, b, err := hexColor(name)
		if err != nil {
			return color.Gray{}, err
		}
		return color.GrayModel.Convert(color.RGBA{R: r, G: g, B: b, A: 255}).(color.Gray), nil
	}
	return color.Gray{}, fmt.Errorf("unknown color %q", name)
}

// hexColor parses "#RRGGBB" and "#RGB".
func hexColor(hex string) (r, g, b uint8, err error) {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 6:
		if r, err = parseHexByte(hex[0:2]); err != nil {
			return
		}
		if g, err = parseHexByte(hex[2:4]); err != nil {
			return
		}
		b, err = parseHexByte(hex[4:6])
		return
	case 3:
		var n [3]uint8
		for i := range n {
			if n[i], err = parseHexNibble(hex[i]); err != nil {
				return
			}
		}
		// Expand nibble to byte: 0xF -> 0xFF
		return n[0]<<4 | n[0], n[1]<<4 | n[1], n[2]<<4 | n[2], nil
	}
	return 0, 0, 0, errors.New("invalid hex color format: expected #RGB or #RRGGBB")
}

// parseHexByte parses a two-character hex string into a byte.
func parseHexByte(s string) (uint8, error) {
	high, err := parseHexNibble(s[0])
	if err != nil {
		return 0, err
	}
	low, err := parseHexNibble(s[1])
	if err != nil {
		return 0, err
	}
	return high<<4 | low, nil
}

// parseHexNibble parses a single hex character into a nibble (0-15).
func parseHexNibble(c byte) (uint8, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, errors.New("invalid hex character")
	}
}

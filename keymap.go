package eink

// View names one page of the on-screen keyboard.
type View string

const (
	ViewStandard View = "standard"
	ViewCaps     View = "caps"
	ViewAlt      View = "alt"
)

// Keymap is one keyboard view: rows of keys and the spacing around them.
type Keymap struct {
	Lang    string
	Spacing Dim
	Rows    [][]Key
}

func chars(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Key{Type: KeyChar, Char: r})
	}
	return keys
}

func pad(width Dim) Key {
	return Key{Padding: true, Width: width}
}

func special(t KeyType, width Dim) Key {
	return Key{Type: t, Width: width}
}

func concat(parts ...[]Key) []Key {
	var out []Key
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// EnUS returns the US English keymaps.
func EnUS() map[View]Keymap {
	wide := FlexN(1.5)
	space := Key{Type: KeyChar, Char: ' ', Width: FlexN(4)}
	bottom := func(mode KeyType) []Key {
		return []Key{
			special(mode, wide),
			special(KeyControl, wide),
			{Type: KeyChar, Char: ','},
			space,
			{Type: KeyChar, Char: '.'},
			special(KeyReturn, wide),
		}
	}
	return map[View]Keymap{
		ViewStandard: {
			Lang:    "en_us",
			Spacing: Px(4),
			Rows: [][]Key{
				chars("qwertyuiop"),
				concat([]Key{pad(FlexN(0.5))}, chars("asdfghjkl"), []Key{pad(FlexN(0.5))}),
				concat([]Key{special(KeyCaps, wide)}, chars("zxcvbnm"), []Key{special(KeyBackspace, wide)}),
				bottom(KeyAlt),
			},
		},
		ViewCaps: {
			Lang:    "en_us",
			Spacing: Px(4),
			Rows: [][]Key{
				chars("QWERTYUIOP"),
				concat([]Key{pad(FlexN(0.5))}, chars("ASDFGHJKL"), []Key{pad(FlexN(0.5))}),
				concat([]Key{special(KeyCaps, wide)}, chars("ZXCVBNM"), []Key{special(KeyBackspace, wide)}),
				bottom(KeyAlt),
			},
		},
		ViewAlt: {
			Lang:    "en_us",
			Spacing: Px(4),
			Rows: [][]Key{
				chars("1234567890"),
				chars("-/:;()$&@\""),
				concat([]Key{special(KeyCaps, wide)}, chars("?!'#%*+"), []Key{special(KeyDelete, Flex()), special(KeyBackspace, wide)}),
				bottom(KeyAlt),
			},
		},
	}
}

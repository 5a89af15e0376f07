package eink

// KeyType is the action of an on-screen key.
type KeyType uint8

const (
	// KeyChar types the key's character.
	KeyChar KeyType = iota
	KeyReturn
	KeyBackspace
	KeyDelete
	// KeyCaps toggles the caps view.
	KeyCaps
	KeyControl
	// KeyAlt toggles the symbols view.
	KeyAlt
)

// String returns the label drawn on keys of this type.
func (k KeyType) String() string {
	switch k {
	case KeyReturn:
		return "RET"
	case KeyBackspace:
		return "BACK"
	case KeyDelete:
		return "DEL"
	case KeyCaps:
		return "CAPS"
	case KeyControl:
		return "CTRL"
	case KeyAlt:
		return "ALT"
	default:
		return "CHAR"
	}
}

// Key is one key of a keymap.
type Key struct {
	Type KeyType
	Char rune
	// Width defaults to one flex share.
	Width Dim
	// Padding keys are blank and inert.
	Padding bool
}

// Label returns the text drawn on the key.
func (k Key) Label() string {
	switch {
	case k.Padding:
		return ""
	case k.Type == KeyChar:
		return string(k.Char)
	default:
		return k.Type.String()
	}
}

// changesView reports whether pressing the key switches keyboard views.
func (k Key) changesView() bool {
	return k.Type == KeyCaps || k.Type == KeyAlt
}

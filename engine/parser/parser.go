// Package parser converts recorded key strings into bytes and classifies
// bytes into command kinds. Intentionally dumb: one fixed key table, no
// remapping, no number_pad.
package parser

import (
	"strings"

	"github.com/nathoo/replaycore/types"
)

// Control bytes used by the harness and the replay engine.
const (
	Escape byte = 0x1b
	Enter  byte = '\r'
	CtrlX  byte = 0x18
)

var commandKeys = map[byte]types.CommandKind{
	'h': types.CmdMove, 'j': types.CmdMove, 'k': types.CmdMove, 'l': types.CmdMove,
	'y': types.CmdMove, 'u': types.CmdMove, 'b': types.CmdMove, 'n': types.CmdMove,
	'F':    types.CmdFight,
	'.':    types.CmdRest,
	's':    types.CmdSearch,
	'i':    types.CmdInventory,
	'e':    types.CmdEat,
	'd':    types.CmdDrop,
	',':    types.CmdPickup,
	'o':    types.CmdOpen,
	'c':    types.CmdClose,
	':':    types.CmdLook,
	'<':    types.CmdUp,
	'>':    types.CmdDown,
	'#':    types.CmdExtended,
	CtrlX:  types.CmdAttributes,
	Escape: types.CmdEscape,
}

// namedKeys are spelled-out keys some recorders write instead of raw bytes.
var namedKeys = map[string]byte{
	"esc":    Escape,
	"escape": Escape,
	"enter":  Enter,
	"return": Enter,
	"space":  ' ',
}

// ParseKey converts a recorded key string into the bytes it stands for.
// Accepts raw bytes, caret notation ("^[", "^X") and a few key names.
func ParseKey(s string) []byte {
	if s == "" {
		return nil
	}
	if b, ok := namedKeys[strings.ToLower(s)]; ok {
		return []byte{b}
	}
	if len(s) == 2 && s[0] == '^' {
		c := s[1]
		if c == '?' {
			return []byte{0x7f}
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= '@' && c <= '_' {
			return []byte{c ^ 0x40}
		}
	}
	return []byte(s)
}

// Classify returns the command kind for a key byte. Unknown and
// out-of-range bytes classify as CmdNone.
func Classify(b byte) types.CommandKind {
	if IsDigit(b) {
		return types.CmdCount
	}
	if k, ok := commandKeys[b]; ok {
		return k
	}
	return types.CmdNone
}

// IsDigit reports whether b can extend a count prefix.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsAckKey reports whether b dismisses a --More-- prompt.
func IsAckKey(b byte) bool {
	return b == ' ' || b == '\r' || b == '\n' || b == Escape
}

// KeyName renders a key byte for reports.
func KeyName(b byte) string {
	switch {
	case b == Escape:
		return "ESC"
	case b == Enter || b == '\n':
		return "Enter"
	case b == ' ':
		return "Space"
	case b < 0x20:
		return "^" + string(rune(b+0x40))
	case b == 0x7f:
		return "^?"
	case b > 0x7f:
		return "\\x" + hexByte(b)
	default:
		return string(rune(b))
	}
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}

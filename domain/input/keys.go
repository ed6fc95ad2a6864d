package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned for key tokens that have no virtual-key code.
var ErrUnknownKey = errors.New("unknown key")

// KeySource reports whether a configured key is currently held down.
type KeySource interface {
	Pressed(key string) bool
}

// KeySourceFunc adapts a plain function to KeySource.
type KeySourceFunc func(key string) bool

func (f KeySourceFunc) Pressed(key string) bool { return f(key) }

var namedKeys = map[string]byte{
	"SPACE":  0x20,
	"ESC":    0x1B,
	"ESCAPE": 0x1B,
	"ENTER":  0x0D,
	"TAB":    0x09,
	";":      0xBA,
	"=":      0xBB,
	",":      0xBC,
	"-":      0xBD,
	".":      0xBE,
	"/":      0xBF,
	"`":      0xC0,
	"[":      0xDB,
	"\\":     0xDC,
	"]":      0xDD,
	"'":      0xDE,
}

// ParseVK converts a key token (e.g. "g", "F3", "]") into a Windows
// virtual-key code. Recognizes letters, digits, F1..F12, common punctuation
// and a few named keys.
func ParseVK(key string) (byte, error) {
	k := strings.ToUpper(strings.TrimSpace(key))
	if k == "" {
		return 0, fmt.Errorf("%w: empty token", ErrUnknownKey)
	}
	if len(k) == 1 {
		c := k[0]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c, nil // VK codes match ASCII
		}
	}
	if k[0] == 'F' && len(k) <= 3 {
		n := 0
		for _, r := range k[1:] {
			if r < '0' || r > '9' {
				n = -1
				break
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 12 {
			return byte(0x70 + (n - 1)), nil // VK_F1=0x70
		}
	}
	if vk, ok := namedKeys[k]; ok {
		return vk, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// ParseAll resolves every token, failing on the first unknown one.
func ParseAll(keys []string) (map[string]byte, error) {
	out := make(map[string]byte, len(keys))
	for _, k := range keys {
		vk, err := ParseVK(k)
		if err != nil {
			return nil, err
		}
		out[k] = vk
	}
	return out, nil
}

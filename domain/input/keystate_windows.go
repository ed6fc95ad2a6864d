//go:build windows

package input

import (
	"log/slog"
	"strings"
	"unicode/utf16"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	procGetWindowTextW   = user32.NewProc("GetWindowTextW")
)

// asyncKeySource polls global key state with GetAsyncKeyState.
type asyncKeySource struct {
	vk map[string]byte
}

// NewKeySource resolves keys up front and returns a source reading the global
// keyboard state. Unknown tokens fail with ErrUnknownKey.
func NewKeySource(keys []string, logger *slog.Logger) (KeySource, error) {
	vk, err := ParseAll(keys)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debug("key source ready", "keys", len(vk))
	}
	return &asyncKeySource{vk: vk}, nil
}

func (s *asyncKeySource) Pressed(key string) bool {
	code, ok := s.vk[key]
	if !ok {
		return false
	}
	r, _, _ := procGetAsyncKeyState.Call(uintptr(code))
	return uint16(r)&0x8000 != 0
}

// ForegroundWindowTitle returns the title of the current foreground window.
func ForegroundWindowTitle() (string, error) {
	hwnd := win.GetForegroundWindow()
	if hwnd == 0 {
		return "", errNoForeground
	}
	const maxChars = 256
	buf := make([]uint16, maxChars)
	r, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		return "", nil
	}
	end := int(r)
	for i, v := range buf[:end] {
		if v == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(utf16.Decode(buf[:end]))), nil
}

//go:build !windows

package input

import "log/slog"

// NewKeySource validates keys and returns a source that never reports a
// press. Global key polling is only implemented on Windows.
func NewKeySource(keys []string, logger *slog.Logger) (KeySource, error) {
	if _, err := ParseAll(keys); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Warn("global key polling unsupported on this platform; hotkeys are disabled")
	}
	return KeySourceFunc(func(string) bool { return false }), nil
}

// ForegroundWindowTitle is unsupported off Windows.
func ForegroundWindowTitle() (string, error) { return "", errNoForeground }

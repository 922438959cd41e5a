// Package clipboard connects the host Clipboard interface to the system
// clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no system clipboard utility is installed.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Package-level hooks so tests can run without a display.
var (
	writeAll    = clipboard.WriteAll
	readAll     = clipboard.ReadAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// System is the OS clipboard. The zero value is ready to use.
type System struct{}

// Unsupported reports whether the platform has no usable clipboard.
func Unsupported() bool {
	return unsupported()
}

// WriteText implements host.Clipboard.
func (System) WriteText(text string) error {
	if unsupported() {
		return ErrUnavailable
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// ReadText implements host.Clipboard.
func (System) ReadText() (string, error) {
	if unsupported() {
		return "", ErrUnavailable
	}
	text, err := readAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

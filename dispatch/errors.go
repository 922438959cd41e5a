package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for dispatch operations.
var (
	// ErrEmptyText indicates there was nothing to deliver.
	ErrEmptyText = errors.New("nothing to send")

	// ErrNoClipboard indicates the clipboard strategy was chosen without a clipboard.
	ErrNoClipboard = errors.New("clipboard not available")

	// ErrNoCommands indicates the clipboard strategy was chosen without a
	// host command runner to paste with.
	ErrNoCommands = errors.New("host commands not available")

	// ErrUnknownStrategy indicates an unsupported delivery strategy.
	ErrUnknownStrategy = errors.New("unknown delivery strategy")
)

// Error wraps delivery errors with context.
type Error struct {
	Op      string // Step that failed ("show", "send", "clipboard", "paste")
	Channel string // Channel name
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("deliver to %s: %s: %v", e.Channel, e.Op, e.Err)
	}
	return fmt.Sprintf("deliver: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

package host

import (
	"context"
	"time"
)

// BufferID is an opaque handle to an open buffer in the editor surface.
type BufferID string

// Position is a zero-based line and column inside a buffer.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Buffer describes an open buffer.
type Buffer struct {
	ID    BufferID `json:"id"`
	Path  string   `json:"path,omitempty"` // empty for untitled buffers
	Title string   `json:"title,omitempty"`
}

// Focus records which buffer had focus and where its cursor was.
type Focus struct {
	Buffer BufferID `json:"buffer"`
	Cursor Position `json:"cursor"`
}

// OpenOptions controls how a buffer is shown.
type OpenOptions struct {
	// Preview opens the buffer in a transient preview slot.
	Preview bool

	// PreserveFocus leaves focus on the currently active surface.
	PreserveFocus bool

	// Cursor is where the cursor is placed once the buffer is shown.
	Cursor Position

	// Title is a display name hint for hosts that support one.
	Title string
}

// Terminal is an interactive channel reachable by name.
type Terminal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Command   string    `json:"command,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Editor is the host's editor surface.
type Editor interface {
	// Open shows the file at path and returns its buffer.
	Open(ctx context.Context, path string, opts OpenOptions) (Buffer, error)

	// OpenUntitled shows a new empty buffer with no backing file.
	OpenUntitled(ctx context.Context, opts OpenOptions) (Buffer, error)

	// Text returns the current in-memory text of a buffer.
	Text(ctx context.Context, id BufferID) (string, error)

	// Close closes a buffer without saving.
	Close(ctx context.Context, id BufferID) error

	// Visible returns the buffers currently shown.
	Visible(ctx context.Context) ([]Buffer, error)

	// Focused returns the focused buffer, or nil when none has focus.
	Focused(ctx context.Context) (*Focus, error)

	// Restore gives focus back to a recorded buffer and cursor.
	Restore(ctx context.Context, f Focus) error
}

// Terminals is the host's channel surface.
type Terminals interface {
	// List returns the open terminals in host order.
	List(ctx context.Context) ([]Terminal, error)

	// Show brings a terminal to the front and focuses it.
	Show(ctx context.Context, id string) error

	// SendText types text into a terminal. When submit is true the text is
	// followed by Enter.
	SendText(ctx context.Context, id string, text string, submit bool) error
}

// Commands runs named host actions.
type Commands interface {
	Execute(ctx context.Context, name string, args ...string) error
}

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Host bundles the surfaces an extension needs.
// Clipboard and Events may be nil.
type Host struct {
	Editor    Editor
	Terminals Terminals
	Commands  Commands
	Clipboard Clipboard
	Notifier  Notifier
	Events    Source
}

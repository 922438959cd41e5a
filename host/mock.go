package host

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// MockEditor is an in-memory Editor. Buffers opened from a path read their
// text from disk on Text; untitled buffers hold text set with SetText.
type MockEditor struct {
	mu      sync.Mutex
	nextID  int
	buffers map[BufferID]*mockBuffer
	order   []BufferID
	focus   *Focus
	openErr error

	// Opened records the options of every Open/OpenUntitled call.
	Opened []OpenOptions

	// Restored records every Restore call.
	Restored []Focus

	// Closed records every Close call.
	Closed []BufferID
}

type mockBuffer struct {
	buf  Buffer
	text string
}

// NewMockEditor creates an empty editor.
func NewMockEditor() *MockEditor {
	return &MockEditor{buffers: make(map[BufferID]*mockBuffer)}
}

// WithOpenError makes every Open fail with err.
func (m *MockEditor) WithOpenError(err error) *MockEditor {
	m.openErr = err
	return m
}

// WithFocus sets the focus reported by Focused.
func (m *MockEditor) WithFocus(f *Focus) *MockEditor {
	m.focus = f
	return m
}

func (m *MockEditor) add(path string, opts OpenOptions) (Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Opened = append(m.Opened, opts)
	if m.openErr != nil {
		return Buffer{}, m.openErr
	}

	m.nextID++
	b := Buffer{ID: BufferID("buf-" + strconv.Itoa(m.nextID)), Path: path, Title: opts.Title}
	m.buffers[b.ID] = &mockBuffer{buf: b}
	m.order = append(m.order, b.ID)
	if !opts.PreserveFocus {
		m.focus = &Focus{Buffer: b.ID, Cursor: opts.Cursor}
	}
	return b, nil
}

// Open implements Editor.
func (m *MockEditor) Open(ctx context.Context, path string, opts OpenOptions) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}
	return m.add(path, opts)
}

// OpenUntitled implements Editor.
func (m *MockEditor) OpenUntitled(ctx context.Context, opts OpenOptions) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}
	return m.add("", opts)
}

// SetText replaces the in-memory text of a buffer.
func (m *MockEditor) SetText(id BufferID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buffers[id]; ok {
		b.text = text
	}
}

// Text implements Editor.
func (m *MockEditor) Text(_ context.Context, id BufferID) (string, error) {
	m.mu.Lock()
	b, ok := m.buffers[id]
	m.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("buffer %s not open", id)
	}
	if b.buf.Path == "" {
		return b.text, nil
	}
	data, err := os.ReadFile(b.buf.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close implements Editor.
func (m *MockEditor) Close(_ context.Context, id BufferID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Closed = append(m.Closed, id)
	if _, ok := m.buffers[id]; !ok {
		return nil
	}
	delete(m.buffers, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.focus != nil && m.focus.Buffer == id {
		m.focus = nil
	}
	return nil
}

// Visible implements Editor.
func (m *MockEditor) Visible(context.Context) ([]Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Buffer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.buffers[id].buf)
	}
	return out, nil
}

// Focused implements Editor.
func (m *MockEditor) Focused(context.Context) (*Focus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.focus == nil {
		return nil, nil
	}
	f := *m.focus
	return &f, nil
}

// Restore implements Editor.
func (m *MockEditor) Restore(_ context.Context, f Focus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restored = append(m.Restored, f)
	m.focus = &f
	return nil
}

// Sent is one SendText call recorded by MockTerminals.
type Sent struct {
	ID     string
	Text   string
	Submit bool
}

// MockTerminals is an in-memory Terminals.
type MockTerminals struct {
	mu        sync.Mutex
	terminals []Terminal
	sendErr   error
	listErr   error

	// Shown records every Show call.
	Shown []string

	// Sent records every SendText call.
	Sent []Sent
}

// NewMockTerminals creates a surface with the given terminals open.
func NewMockTerminals(terminals ...Terminal) *MockTerminals {
	return &MockTerminals{terminals: terminals}
}

// WithSendError makes every SendText fail with err.
func (m *MockTerminals) WithSendError(err error) *MockTerminals {
	m.sendErr = err
	return m
}

// WithListError makes every List fail with err.
func (m *MockTerminals) WithListError(err error) *MockTerminals {
	m.listErr = err
	return m
}

// Open adds a terminal. A zero CreatedAt is set to now.
func (m *MockTerminals) Open(t Terminal) Terminal {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.mu.Lock()
	m.terminals = append(m.terminals, t)
	m.mu.Unlock()
	return t
}

// Remove drops a terminal by ID.
func (m *MockTerminals) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.terminals {
		if t.ID == id {
			m.terminals = append(m.terminals[:i], m.terminals[i+1:]...)
			return
		}
	}
}

// List implements Terminals.
func (m *MockTerminals) List(context.Context) ([]Terminal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]Terminal(nil), m.terminals...), nil
}

// Show implements Terminals.
func (m *MockTerminals) Show(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Shown = append(m.Shown, id)
	return nil
}

// SendText implements Terminals.
func (m *MockTerminals) SendText(_ context.Context, id, text string, submit bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.Sent = append(m.Sent, Sent{ID: id, Text: text, Submit: submit})
	return nil
}

// SentTexts returns a copy of the recorded sends.
func (m *MockTerminals) SentTexts() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sent(nil), m.Sent...)
}

// MockCommands records executed commands and runs optional handlers.
type MockCommands struct {
	mu       sync.Mutex
	handlers map[string]func(ctx context.Context, args ...string) error

	// Executed records command names in call order.
	Executed []string
}

// NewMockCommands creates an empty command table.
func NewMockCommands() *MockCommands {
	return &MockCommands{handlers: make(map[string]func(context.Context, ...string) error)}
}

// Handle registers fn for name.
func (m *MockCommands) Handle(name string, fn func(ctx context.Context, args ...string) error) *MockCommands {
	m.mu.Lock()
	m.handlers[name] = fn
	m.mu.Unlock()
	return m
}

// Execute implements Commands. Unknown commands succeed.
func (m *MockCommands) Execute(ctx context.Context, name string, args ...string) error {
	m.mu.Lock()
	m.Executed = append(m.Executed, name)
	fn := m.handlers[name]
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, args...)
	}
	return nil
}

// ExecutedNames returns a copy of the executed command names.
func (m *MockCommands) ExecutedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Executed...)
}

// MockClipboard is an in-memory Clipboard.
type MockClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

// WithError makes every call fail with err.
func (m *MockClipboard) WithError(err error) *MockClipboard {
	m.err = err
	return m
}

// WriteText implements Clipboard.
func (m *MockClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

// ReadText implements Clipboard.
func (m *MockClipboard) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// MockNotifier records messages shown to the user.
type MockNotifier struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

// Info implements Notifier.
func (m *MockNotifier) Info(msg string) {
	m.mu.Lock()
	m.infos = append(m.infos, msg)
	m.mu.Unlock()
}

// Error implements Notifier.
func (m *MockNotifier) Error(msg string) {
	m.mu.Lock()
	m.errors = append(m.errors, msg)
	m.mu.Unlock()
}

// Infos returns the informational messages shown so far.
func (m *MockNotifier) Infos() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.infos...)
}

// Errors returns the error messages shown so far.
func (m *MockNotifier) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errors...)
}

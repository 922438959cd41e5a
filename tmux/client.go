package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/channel"
	"github.com/randalmurphal/promptpad/host"
)

// Sentinel errors.
var (
	// ErrNotRunning indicates no tmux server is reachable.
	ErrNotRunning = errors.New("tmux server not running")

	// ErrUntitled indicates unsaved buffers were requested; tmux editors
	// always need a file.
	ErrUntitled = errors.New("untitled buffers are not supported under tmux")

	// ErrUnknownCommand is returned by Execute for an unmapped command name.
	ErrUnknownCommand = errors.New("unknown command")
)

// Command names understood by Execute.
const (
	CommandCreate = "create"
	CommandPaste  = "paste"
	CommandFocus  = "focus"
)

// Runner runs one tmux invocation and returns its stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, args ...string) (string, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, args ...string) (string, error) {
	return f(ctx, args...)
}

// ExecRunner runs the tmux binary.
type ExecRunner struct {
	Path string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	path := r.Path
	if path == "" {
		path = "tmux"
	}
	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "no server running") || strings.Contains(msg, "error connecting") {
			return "", fmt.Errorf("%w: %s", ErrNotRunning, msg)
		}
		if msg != "" {
			return "", fmt.Errorf("tmux %s: %s: %w", args[0], msg, err)
		}
		return "", fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the tmux runner.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithPath sets the tmux binary used by the default runner.
func WithPath(path string) Option {
	return func(c *Client) { c.runner = ExecRunner{Path: path} }
}

// WithEditor sets the editor command for scratch buffers. It may carry
// arguments, for example "code --wait".
func WithEditor(editor string) Option {
	return func(c *Client) {
		if editor != "" {
			c.editor = editor
		}
	}
}

// WithChannel sets the window name and command the create command starts.
func WithChannel(name, command string) Option {
	return func(c *Client) {
		if name != "" {
			c.channelName = name
		}
		if command != "" {
			c.channelCommand = command
		}
	}
}

// WithClipboard sets the clipboard the paste command reads from.
func WithClipboard(cb host.Clipboard) Option {
	return func(c *Client) { c.clipboard = cb }
}

// WithCommand maps a command name to a raw tmux argument list. The literal
// "{target}" in any argument is replaced by the first Execute argument.
func WithCommand(name string, args ...string) Option {
	return func(c *Client) { c.custom[name] = args }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSleep replaces the wait used between keystroke batches.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// WithClock replaces the clock used to stamp newly seen panes.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client drives a tmux server. It implements host.Editor, host.Terminals,
// host.Commands and host.Notifier.
type Client struct {
	runner         Runner
	editor         string
	channelName    string
	channelCommand string
	clipboard      host.Clipboard
	custom         map[string][]string
	logger         *zap.Logger
	sleep          func(ctx context.Context, d time.Duration) error
	now            func() time.Time

	mu        sync.Mutex
	editors   map[host.BufferID]string
	opening   map[string]int
	firstSeen map[string]time.Time
}

// New creates a client for the tmux server of the current environment.
func New(opts ...Option) *Client {
	c := &Client{
		runner:         ExecRunner{},
		editor:         DefaultEditor(),
		channelName:    "Claude",
		channelCommand: "claude",
		custom:         make(map[string][]string),
		logger:         zap.NewNop(),
		sleep:          channel.Sleep,
		now:            time.Now,
		editors:        make(map[host.BufferID]string),
		opening:        make(map[string]int),
		firstSeen:      make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultEditor returns $VISUAL, then $EDITOR, then "vi".
func DefaultEditor() string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "vi"
}

// InSession reports whether the process runs inside a tmux client.
func InSession() bool {
	return os.Getenv("TMUX") != ""
}

// Host bundles the client as a host.Host publishing events on bus.
func (c *Client) Host(bus *host.EventBus) host.Host {
	return host.Host{
		Editor:    c,
		Terminals: c,
		Commands:  c,
		Clipboard: c.clipboard,
		Notifier:  c,
		Events:    bus,
	}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.logger.Debug("tmux", zap.Strings("args", args))
	return c.runner.Run(ctx, args...)
}

// Info implements host.Notifier using the tmux status line.
func (c *Client) Info(msg string) {
	c.display(msg)
}

// Error implements host.Notifier using the tmux status line.
func (c *Client) Error(msg string) {
	c.logger.Warn("user error", zap.String("message", msg))
	c.display("promptpad: " + msg)
}

func (c *Client) display(msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// '#' starts a tmux format; escape it so the message prints literally.
	if _, err := c.run(ctx, "display-message", strings.ReplaceAll(msg, "#", "##")); err != nil {
		c.logger.Debug("display-message failed", zap.Error(err))
	}
}

// Package config loads promptpad settings from files and the environment.
//
// Settings are layered: defaults, then the global file
// (~/.config/promptpad/config.toml or config.yaml), then a project file
// (.promptpad.toml or .promptpad.yaml in the working directory), then
// PROMPTPAD_* environment variables. Later layers only override the keys
// they set.
package config

import (
	"fmt"
	"time"

	"github.com/randalmurphal/promptpad/channel"
	"github.com/randalmurphal/promptpad/dispatch"
	"github.com/randalmurphal/promptpad/parser"
)

// Config holds every promptpad setting.
// Zero values use sensible defaults where noted.
type Config struct {
	// --- Scratch Buffers ---

	// TempDir is where scratch files are written.
	// Default: os.TempDir().
	TempDir string `json:"temp_dir" yaml:"temp_dir" toml:"temp_dir"`

	// FilePrefix starts every scratch file name.
	// Default: "claude-input".
	FilePrefix string `json:"file_prefix" yaml:"file_prefix" toml:"file_prefix"`

	// Placeholder is the hint written as a comment on the first line.
	// Default: parser.DefaultPlaceholder.
	Placeholder string `json:"placeholder" yaml:"placeholder" toml:"placeholder"`

	// NoPlaceholder opens scratch files empty.
	NoPlaceholder bool `json:"no_placeholder" yaml:"no_placeholder" toml:"no_placeholder"`

	// Untitled uses unsaved buffers instead of temp files.
	Untitled bool `json:"untitled" yaml:"untitled" toml:"untitled"`

	// LiveCapture caches every save so text survives a deleted file.
	LiveCapture bool `json:"live_capture" yaml:"live_capture" toml:"live_capture"`

	// RestoreFocus returns to the previous editor after a scratch buffer closes.
	// Default: true.
	RestoreFocus bool `json:"restore_focus" yaml:"restore_focus" toml:"restore_focus"`

	// MaxSessions caps concurrently open scratch buffers. 0 means no limit.
	// Default: 16.
	MaxSessions int `json:"max_sessions" yaml:"max_sessions" toml:"max_sessions"`

	// EmptyMessage is shown when a closed buffer held no prompt. Empty
	// disables it.
	// Default: "Nothing to send.".
	EmptyMessage string `json:"empty_message" yaml:"empty_message" toml:"empty_message"`

	// --- Channel ---

	// Patterns identify assistant terminals by name, case-insensitively.
	// Default: ["claude", "anthropic"].
	Patterns []string `json:"patterns" yaml:"patterns" toml:"patterns"`

	// Fallback targets the newest terminal when no name matches.
	Fallback bool `json:"fallback" yaml:"fallback" toml:"fallback"`

	// CreateCommand is the host command that starts a new channel. Empty
	// disables creation.
	// Default: "create".
	CreateCommand string `json:"create_command" yaml:"create_command" toml:"create_command"`

	// ReadinessTimeout bounds the wait for a new channel.
	// Default: 5s.
	ReadinessTimeout time.Duration `json:"readiness_timeout" yaml:"readiness_timeout" toml:"readiness_timeout"`

	// PollInterval is the first readiness poll delay; it doubles up to
	// MaxPollInterval.
	// Default: 100ms and 1s.
	PollInterval    time.Duration `json:"poll_interval" yaml:"poll_interval" toml:"poll_interval"`
	MaxPollInterval time.Duration `json:"max_poll_interval" yaml:"max_poll_interval" toml:"max_poll_interval"`

	// FixedDelay replaces readiness detection with a single wait.
	FixedDelay time.Duration `json:"fixed_delay" yaml:"fixed_delay" toml:"fixed_delay"`

	// --- Dispatch ---

	// Strategy is "direct" or "clipboard".
	// Default: "direct".
	Strategy string `json:"strategy" yaml:"strategy" toml:"strategy"`

	// Submit presses Enter after the text.
	// Default: true.
	Submit bool `json:"submit" yaml:"submit" toml:"submit"`

	// SubmitEmptyLine sends an extra empty line after the text.
	SubmitEmptyLine bool `json:"submit_empty_line" yaml:"submit_empty_line" toml:"submit_empty_line"`

	// PasteCommand is the host command used by the clipboard strategy.
	// Default: "paste".
	PasteCommand string `json:"paste_command" yaml:"paste_command" toml:"paste_command"`

	// FocusDelay, SubmitDelay and ReturnFocusDelay pace delivery.
	// Default: 100ms, 50ms, 1s.
	FocusDelay       time.Duration `json:"focus_delay" yaml:"focus_delay" toml:"focus_delay"`
	SubmitDelay      time.Duration `json:"submit_delay" yaml:"submit_delay" toml:"submit_delay"`
	ReturnFocusDelay time.Duration `json:"return_focus_delay" yaml:"return_focus_delay" toml:"return_focus_delay"`

	// PreserveOnFailure copies undelivered prompts to the clipboard.
	PreserveOnFailure bool `json:"preserve_on_failure" yaml:"preserve_on_failure" toml:"preserve_on_failure"`

	// --- tmux ---

	Tmux TmuxConfig `json:"tmux" yaml:"tmux" toml:"tmux"`
}

// TmuxConfig configures the tmux host.
type TmuxConfig struct {
	// Path is the tmux binary.
	// Default: "tmux".
	Path string `json:"path" yaml:"path" toml:"path"`

	// Editor opens scratch files. Empty uses $VISUAL, then $EDITOR, then vi.
	Editor string `json:"editor" yaml:"editor" toml:"editor"`

	// ChannelCommand is run in a new window by the create command.
	// Default: "claude".
	ChannelCommand string `json:"channel_command" yaml:"channel_command" toml:"channel_command"`

	// ChannelName names the window the create command opens.
	// Default: "Claude".
	ChannelName string `json:"channel_name" yaml:"channel_name" toml:"channel_name"`

	// PollInterval is how often panes are listed for changes.
	// Default: 250ms.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" toml:"poll_interval"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		FilePrefix:       "claude-input",
		Placeholder:      parser.DefaultPlaceholder,
		RestoreFocus:     true,
		MaxSessions:      16,
		EmptyMessage:     "Nothing to send.",
		Patterns:         append([]string(nil), channel.DefaultPatterns...),
		CreateCommand:    "create",
		ReadinessTimeout: 5 * time.Second,
		PollInterval:     100 * time.Millisecond,
		MaxPollInterval:  time.Second,
		Strategy:         string(dispatch.StrategyDirect),
		Submit:           true,
		PasteCommand:     "paste",
		FocusDelay:       100 * time.Millisecond,
		SubmitDelay:      50 * time.Millisecond,
		ReturnFocusDelay: time.Second,
		Tmux: TmuxConfig{
			Path:           "tmux",
			ChannelCommand: "claude",
			ChannelName:    "Claude",
			PollInterval:   250 * time.Millisecond,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxSessions < 0 {
		return fmt.Errorf("max_sessions must be >= 0, got %d", c.MaxSessions)
	}
	if _, err := channel.NewMatcher(c.Patterns...); err != nil {
		return fmt.Errorf("patterns: %w", err)
	}
	strategy, err := dispatch.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}
	if strategy == dispatch.StrategyClipboard && c.PasteCommand == "" {
		return fmt.Errorf("paste_command is required for the clipboard strategy")
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"readiness_timeout", c.ReadinessTimeout},
		{"poll_interval", c.PollInterval},
		{"max_poll_interval", c.MaxPollInterval},
		{"fixed_delay", c.FixedDelay},
		{"focus_delay", c.FocusDelay},
		{"submit_delay", c.SubmitDelay},
		{"return_focus_delay", c.ReturnFocusDelay},
		{"tmux.poll_interval", c.Tmux.PollInterval},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("%s must be >= 0, got %v", d.name, d.d)
		}
	}
	return nil
}

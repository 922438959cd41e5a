package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptpad/dispatch"
	"github.com/randalmurphal/promptpad/parser"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "claude-input", cfg.FilePrefix)
	assert.Equal(t, parser.DefaultPlaceholder, cfg.Placeholder)
	assert.Equal(t, []string{"claude", "anthropic"}, cfg.Patterns)
	assert.Equal(t, 5*time.Second, cfg.ReadinessTimeout)
	assert.Equal(t, "direct", cfg.Strategy)
	assert.True(t, cfg.Submit)
	assert.True(t, cfg.RestoreFocus)
	assert.False(t, cfg.Fallback)
	assert.Equal(t, time.Second, cfg.ReturnFocusDelay)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"negative max sessions", func(c *Config) { c.MaxSessions = -1 }, "max_sessions"},
		{"bad pattern", func(c *Config) { c.Patterns = []string{"("} }, "patterns"},
		{"unknown strategy", func(c *Config) { c.Strategy = "telepathy" }, "unknown"},
		{"clipboard without paste", func(c *Config) {
			c.Strategy = "clipboard"
			c.PasteCommand = ""
		}, "paste_command"},
		{"negative delay", func(c *Config) { c.FocusDelay = -time.Millisecond }, "focus_delay"},
		{"negative tmux poll", func(c *Config) { c.Tmux.PollInterval = -1 }, "tmux.poll_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestConfig_LoadLayers(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "config.toml", `
strategy = "clipboard"
readiness_timeout = "8s"
patterns = ["claude"]

[tmux]
editor = "nvim"
`)
	project := writeFile(t, dir, ".promptpad.yaml", `
strategy: direct
live_capture: true
tmux:
  channel_name: Assistant
`)

	cfg := Default()
	require.NoError(t, cfg.Load(global, project, filepath.Join(dir, "missing.toml")))

	assert.Equal(t, "direct", cfg.Strategy, "project file wins")
	assert.Equal(t, 8*time.Second, cfg.ReadinessTimeout)
	assert.Equal(t, []string{"claude"}, cfg.Patterns)
	assert.True(t, cfg.LiveCapture)
	assert.Equal(t, "nvim", cfg.Tmux.Editor)
	assert.Equal(t, "Assistant", cfg.Tmux.ChannelName)
	assert.Equal(t, "tmux", cfg.Tmux.Path, "untouched keys keep defaults")
	assert.True(t, cfg.Submit)
}

func TestConfig_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	err := cfg.Load(writeFile(t, dir, "bad.toml", "strategy = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.toml")

	err = cfg.Load(writeFile(t, dir, "config.ini", "x=1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
strategy = "clipboard"
submit = true
max_sessions = 4
`)
	t.Setenv("PROMPTPAD_STRATEGY", "direct")
	t.Setenv("PROMPTPAD_SUBMIT", "false")
	t.Setenv("PROMPTPAD_PATTERNS", "claude, assistant ,")
	t.Setenv("PROMPTPAD_FIXED_DELAY", "5000ms")
	t.Setenv("PROMPTPAD_MAX_SESSIONS", "not-a-number")

	cfg := Default()
	require.NoError(t, cfg.Load(path))
	cfg.LoadFromEnv()

	assert.Equal(t, "direct", cfg.Strategy)
	assert.False(t, cfg.Submit)
	assert.Equal(t, []string{"claude", "assistant"}, cfg.Patterns)
	assert.Equal(t, 5*time.Second, cfg.FixedDelay)
	assert.Equal(t, 4, cfg.MaxSessions, "unparseable env values are ignored")
}

func TestDefaultPaths(t *testing.T) {
	xdg := t.TempDir()
	work := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	assert.Empty(t, DefaultPaths(work))

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "promptpad"), 0o755))
	global := writeFile(t, filepath.Join(xdg, "promptpad"), "config.yaml", "fallback: true\n")
	project := writeFile(t, work, ".promptpad.toml", "fallback = false\n")

	assert.Equal(t, []string{global, project}, DefaultPaths(work))
}

func TestDefaultPaths_JSON(t *testing.T) {
	xdg := t.TempDir()
	work := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	project := writeFile(t, work, ".promptpad.json", `{"strategy": "clipboard", "max_sessions": 2}`)

	require.Equal(t, []string{project}, DefaultPaths(work))

	cfg, err := LoadDefault(work)
	require.NoError(t, err)
	assert.Equal(t, "clipboard", cfg.Strategy)
	assert.Equal(t, 2, cfg.MaxSessions)
}

func TestLoadDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	work := t.TempDir()
	writeFile(t, work, ".promptpad.toml", `strategy = "nope"`)

	_, err := LoadDefault(work)
	assert.ErrorIs(t, err, dispatch.ErrUnknownStrategy)
}

func TestConfig_Options(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.RegistryOptions(), 1)
	assert.NotEmpty(t, cfg.ManagerOptions())
	assert.Len(t, cfg.FinalizerOptions(), 2)

	direct := cfg.DispatchOptions(nil)
	cfg.Strategy = "clipboard"
	assert.Len(t, cfg.DispatchOptions(nil), len(direct)+1)
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment variable read by LoadFromEnv.
const EnvPrefix = "PROMPTPAD_"

// fileNames are tried in order inside each config location.
var (
	globalNames  = []string{"config.toml", "config.yaml", "config.yml", "config.json"}
	projectNames = []string{".promptpad.toml", ".promptpad.yaml", ".promptpad.yml", ".promptpad.json"}
)

// GlobalDir returns the directory holding the global config file.
func GlobalDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "promptpad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "promptpad")
}

// DefaultPaths returns the config files that exist, global first, then the
// project file in workDir. At most one file is picked per location.
func DefaultPaths(workDir string) []string {
	var paths []string
	if dir := GlobalDir(); dir != "" {
		if p := firstExisting(dir, globalNames); p != "" {
			paths = append(paths, p)
		}
	}
	if p := firstExisting(workDir, projectNames); p != "" {
		paths = append(paths, p)
	}
	return paths
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load applies each file over c in order. Missing files are skipped.
func (c *Config) Load(paths ...string) error {
	for _, p := range paths {
		if err := c.loadFile(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	return nil
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the PROMPTPAD_ prefix and take precedence over
// existing values. Unparseable values are ignored.
func (c *Config) LoadFromEnv() {
	envString("TEMP_DIR", &c.TempDir)
	envString("FILE_PREFIX", &c.FilePrefix)
	envString("PLACEHOLDER", &c.Placeholder)
	envBool("NO_PLACEHOLDER", &c.NoPlaceholder)
	envBool("UNTITLED", &c.Untitled)
	envBool("LIVE_CAPTURE", &c.LiveCapture)
	envBool("RESTORE_FOCUS", &c.RestoreFocus)
	if v := os.Getenv(EnvPrefix + "MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSessions = n
		}
	}
	if v := os.Getenv(EnvPrefix + "PATTERNS"); v != "" {
		c.Patterns = splitList(v)
	}
	envBool("FALLBACK", &c.Fallback)
	envString("CREATE_COMMAND", &c.CreateCommand)
	envDuration("READINESS_TIMEOUT", &c.ReadinessTimeout)
	envDuration("FIXED_DELAY", &c.FixedDelay)
	envString("STRATEGY", &c.Strategy)
	envBool("SUBMIT", &c.Submit)
	envBool("SUBMIT_EMPTY_LINE", &c.SubmitEmptyLine)
	envString("PASTE_COMMAND", &c.PasteCommand)
	envDuration("RETURN_FOCUS_DELAY", &c.ReturnFocusDelay)
	envBool("PRESERVE_ON_FAILURE", &c.PreserveOnFailure)
	envString("TMUX_PATH", &c.Tmux.Path)
	envString("EDITOR", &c.Tmux.Editor)
	envString("CHANNEL_COMMAND", &c.Tmux.ChannelCommand)
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := Default()
	cfg.LoadFromEnv()
	return cfg
}

// LoadDefault layers defaults, the standard config files for workDir and the
// environment, then validates the result.
func LoadDefault(workDir string) (Config, error) {
	cfg := Default()
	if err := cfg.Load(DefaultPaths(workDir)...); err != nil {
		return cfg, err
	}
	cfg.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

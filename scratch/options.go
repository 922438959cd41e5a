package scratch

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/parser"
)

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

type managerConfig struct {
	dir         string
	prefix      string
	placeholder string
	untitled    bool
	liveCapture bool
	recordFocus bool
	logger      *zap.Logger
	now         func() time.Time
}

func defaultManagerConfig() managerConfig {
	return managerConfig{
		dir:         os.TempDir(),
		prefix:      "claude-input",
		placeholder: parser.DefaultPlaceholder,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
}

// WithDir sets the directory for backing files. Default: os.TempDir().
func WithDir(dir string) ManagerOption {
	return func(c *managerConfig) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithPrefix sets the backing file name prefix.
func WithPrefix(prefix string) ManagerOption {
	return func(c *managerConfig) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithPlaceholder sets the hint written as a comment on the first line.
func WithPlaceholder(text string) ManagerOption {
	return func(c *managerConfig) { c.placeholder = text }
}

// WithUntitled opens an empty in-memory buffer instead of a temp file.
// Text is taken from BufferChanged events.
func WithUntitled(enabled bool) ManagerOption {
	return func(c *managerConfig) { c.untitled = enabled }
}

// WithLiveCapture watches the backing file and caches every non-blank save,
// so the text survives the file being removed before finalize.
func WithLiveCapture(enabled bool) ManagerOption {
	return func(c *managerConfig) { c.liveCapture = enabled }
}

// WithRecordFocus remembers the focused buffer so it can be restored on close.
func WithRecordFocus(enabled bool) ManagerOption {
	return func(c *managerConfig) { c.recordFocus = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(c *managerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now for file naming.
func WithClock(now func() time.Time) ManagerOption {
	return func(c *managerConfig) {
		if now != nil {
			c.now = now
		}
	}
}

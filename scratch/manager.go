package scratch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/host"
	"github.com/randalmurphal/promptpad/parser"
	"github.com/randalmurphal/promptpad/session"
)

// Manager creates scratch sessions.
type Manager struct {
	config   managerConfig
	editor   host.Editor
	registry *session.Registry
}

// NewManager creates a manager that registers sessions in reg.
func NewManager(editor host.Editor, reg *session.Registry, opts ...ManagerOption) *Manager {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager{config: cfg, editor: editor, registry: reg}
}

// Placeholder returns the text written into every new scratch file.
func (m *Manager) Placeholder() string {
	if m.config.placeholder == "" {
		return ""
	}
	return parser.CommentLine(m.config.placeholder)
}

// PathFor returns the backing file path for a token at the current time.
func (m *Manager) PathFor(token string) string {
	short := token
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("%s-%d-%s.md", m.config.prefix, m.config.now().UnixMilli(), short)
	return filepath.Join(m.config.dir, name)
}

// Create writes a placeholder file, opens it focused with the cursor on the
// second line and registers the session. On failure nothing is left
// registered and the file is removed.
func (m *Manager) Create(ctx context.Context) (*session.Session, error) {
	focus := m.currentFocus(ctx)

	if m.config.untitled {
		return m.createUntitled(ctx, focus)
	}

	token := session.NewToken()
	path := m.PathFor(token)
	placeholder := m.Placeholder()
	if err := os.WriteFile(path, []byte(placeholder), 0o600); err != nil {
		return nil, fmt.Errorf("write scratch file: %w", err)
	}

	cursor := host.Position{}
	if placeholder != "" {
		cursor.Line = 1
	}
	buf, err := m.editor.Open(ctx, path, host.OpenOptions{
		Preview:       false,
		PreserveFocus: false,
		Cursor:        cursor,
		Title:         filepath.Base(path),
	})
	if err != nil {
		removeQuiet(m.config.logger, path)
		return nil, fmt.Errorf("open scratch buffer: %w", err)
	}

	s := session.New(buf.ID, path)
	s.Token = token
	s.OriginalFocus = focus

	if m.config.liveCapture {
		if err := startCapture(s, m.config.logger); err != nil {
			m.config.logger.Warn("live capture unavailable", zap.Error(err))
		}
	}

	if err := m.registry.Add(s); err != nil {
		s.Stop()
		if cerr := m.editor.Close(ctx, buf.ID); cerr != nil {
			m.config.logger.Warn("close scratch buffer", zap.Error(cerr))
		}
		removeQuiet(m.config.logger, path)
		return nil, fmt.Errorf("register scratch session: %w", err)
	}

	m.config.logger.Info("scratch session created",
		zap.String("buffer", string(buf.ID)),
		zap.String("path", path))
	return s, nil
}

func (m *Manager) createUntitled(ctx context.Context, focus *host.Focus) (*session.Session, error) {
	buf, err := m.editor.OpenUntitled(ctx, host.OpenOptions{Title: m.config.prefix})
	if err != nil {
		return nil, fmt.Errorf("open scratch buffer: %w", err)
	}

	s := session.New(buf.ID, "")
	s.OriginalFocus = focus
	if err := m.registry.Add(s); err != nil {
		if cerr := m.editor.Close(ctx, buf.ID); cerr != nil {
			m.config.logger.Warn("close scratch buffer", zap.Error(cerr))
		}
		return nil, fmt.Errorf("register scratch session: %w", err)
	}

	m.config.logger.Info("untitled scratch session created", zap.String("buffer", string(buf.ID)))
	return s, nil
}

func (m *Manager) currentFocus(ctx context.Context) *host.Focus {
	if !m.config.recordFocus {
		return nil
	}
	f, err := m.editor.Focused(ctx)
	if err != nil {
		m.config.logger.Debug("could not read focus", zap.Error(err))
		return nil
	}
	return f
}

// removeQuiet deletes path, logging anything other than "already gone".
func removeQuiet(logger *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to delete scratch file", zap.String("path", path), zap.Error(err))
	}
}

package scratch

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/host"
	"github.com/randalmurphal/promptpad/parser"
	"github.com/randalmurphal/promptpad/session"
)

// DefaultEmptyMessage is shown when a closed buffer held nothing but the placeholder.
const DefaultEmptyMessage = "Nothing to send."

// FinalizerOption configures a Finalizer.
type FinalizerOption func(*Finalizer)

// WithEmptyMessage sets the informational message for empty buffers.
// An empty string suppresses it.
func WithEmptyMessage(msg string) FinalizerOption {
	return func(f *Finalizer) { f.emptyMessage = msg }
}

// WithRestoreFocus returns focus to the buffer recorded at creation.
func WithRestoreFocus(enabled bool) FinalizerOption {
	return func(f *Finalizer) { f.restoreFocus = enabled }
}

// WithFinalizerLogger sets the logger.
func WithFinalizerLogger(l *zap.Logger) FinalizerOption {
	return func(f *Finalizer) {
		if l != nil {
			f.logger = l
		}
	}
}

// Finalizer turns a closed session into the text to send.
type Finalizer struct {
	editor       host.Editor
	notifier     host.Notifier
	emptyMessage string
	restoreFocus bool
	logger       *zap.Logger
}

// NewFinalizer creates a finalizer. notifier may be nil.
func NewFinalizer(editor host.Editor, notifier host.Notifier, opts ...FinalizerOption) *Finalizer {
	f := &Finalizer{
		editor:       editor,
		notifier:     notifier,
		emptyMessage: DefaultEmptyMessage,
		restoreFocus: true,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Finalize extracts the session text, deletes the backing file and restores
// focus. An empty result means there is nothing to send; the user is told so
// and no error is returned.
func (f *Finalizer) Finalize(ctx context.Context, s *session.Session) string {
	text := f.Extract(ctx, s)

	if f.restoreFocus && s.OriginalFocus != nil && f.editor != nil {
		if err := f.editor.Restore(ctx, *s.OriginalFocus); err != nil {
			f.logger.Debug("restore focus failed", zap.Error(err))
		}
	}

	if text == "" {
		f.logger.Debug("scratch buffer empty", zap.String("buffer", string(s.ID)))
		if f.emptyMessage != "" && f.notifier != nil {
			f.notifier.Info(f.emptyMessage)
		}
	}
	return text
}

// Extract reads the session text, always deletes the backing file and strips
// placeholder comments. Read and delete failures are logged, not returned.
func (f *Finalizer) Extract(ctx context.Context, s *session.Session) string {
	s.Stop()

	var raw string
	if s.HasBackingFile() {
		data, err := os.ReadFile(s.Path)
		switch {
		case err == nil:
			raw = string(data)
		case errors.Is(err, fs.ErrNotExist):
			f.logger.Debug("scratch file already gone", zap.String("path", s.Path))
			raw = s.CachedText()
		default:
			f.logger.Warn("failed to read scratch file", zap.String("path", s.Path), zap.Error(err))
			raw = s.CachedText()
		}
		removeQuiet(f.logger, s.Path)
	} else {
		raw = s.CachedText()
		if raw == "" && f.editor != nil {
			if text, err := f.editor.Text(ctx, s.ID); err == nil {
				raw = text
			}
		}
	}

	return parser.StripComments(raw)
}

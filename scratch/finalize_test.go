package scratch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptpad/host"
	"github.com/randalmurphal/promptpad/parser"
	"github.com/randalmurphal/promptpad/session"
)

func writeSession(t *testing.T, content string) *session.Session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude-input-1-abcdef12.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return session.New("buf-1", path)
}

func TestFinalizer_Extract(t *testing.T) {
	placeholder := parser.CommentLine(parser.DefaultPlaceholder)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "typed text", content: placeholder + "Summarize this file", want: "Summarize this file"},
		{name: "placeholder only", content: placeholder, want: ""},
		{name: "comment in the middle", content: "fix <!-- not this --> the bug\n", want: "fix  the bug"},
		{name: "multiline comment", content: "<!--\nnote\n-->\n\nhello\n\n", want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := writeSession(t, tt.content)
			f := NewFinalizer(host.NewMockEditor(), nil)

			assert.Equal(t, tt.want, f.Extract(context.Background(), s))
			_, err := os.Stat(s.Path)
			assert.True(t, os.IsNotExist(err), "backing file should be removed")
		})
	}
}

func TestFinalizer_ExtractMissingFileUsesCache(t *testing.T) {
	s := session.New("buf-1", filepath.Join(t.TempDir(), "gone.md"))
	s.SetCachedText("<!--x -->\ncached prompt")

	f := NewFinalizer(host.NewMockEditor(), nil)
	assert.Equal(t, "cached prompt", f.Extract(context.Background(), s))
}

func TestFinalizer_ExtractMissingFileNoCache(t *testing.T) {
	s := session.New("buf-1", filepath.Join(t.TempDir(), "gone.md"))

	f := NewFinalizer(host.NewMockEditor(), nil)
	assert.Empty(t, f.Extract(context.Background(), s))
}

func TestFinalizer_ExtractUntitled(t *testing.T) {
	ctx := context.Background()
	editor := host.NewMockEditor()
	buf, err := editor.OpenUntitled(ctx, host.OpenOptions{})
	require.NoError(t, err)
	editor.SetText(buf.ID, "from the buffer")

	f := NewFinalizer(editor, nil)

	s := session.New(buf.ID, "")
	assert.Equal(t, "from the buffer", f.Extract(ctx, s))

	cached := session.New(buf.ID, "")
	cached.SetCachedText("from the cache")
	assert.Equal(t, "from the cache", f.Extract(ctx, cached))
}

func TestFinalizer_ExtractStopsSession(t *testing.T) {
	s := writeSession(t, "x")
	stopped := false
	s.OnStop(func() { stopped = true })

	NewFinalizer(nil, nil).Extract(context.Background(), s)
	assert.True(t, stopped)
	assert.Equal(t, session.StatusClosed, s.Status())
}

func TestFinalizer_FinalizeEmptyInforms(t *testing.T) {
	notifier := &host.MockNotifier{}
	s := writeSession(t, parser.CommentLine(parser.DefaultPlaceholder))

	f := NewFinalizer(host.NewMockEditor(), notifier)
	assert.Empty(t, f.Finalize(context.Background(), s))
	assert.Equal(t, []string{DefaultEmptyMessage}, notifier.Infos())
}

func TestFinalizer_FinalizeEmptyMessageSuppressed(t *testing.T) {
	notifier := &host.MockNotifier{}
	s := writeSession(t, "")

	f := NewFinalizer(host.NewMockEditor(), notifier, WithEmptyMessage(""))
	assert.Empty(t, f.Finalize(context.Background(), s))
	assert.Empty(t, notifier.Infos())
}

func TestFinalizer_FinalizeRestoresFocus(t *testing.T) {
	editor := host.NewMockEditor()
	s := writeSession(t, "hello")
	s.OriginalFocus = &host.Focus{Buffer: "main.go", Cursor: host.Position{Line: 3}}

	f := NewFinalizer(editor, nil)
	assert.Equal(t, "hello", f.Finalize(context.Background(), s))
	assert.Equal(t, []host.Focus{*s.OriginalFocus}, editor.Restored)

	s2 := writeSession(t, "again")
	s2.OriginalFocus = &host.Focus{Buffer: "main.go"}
	NewFinalizer(editor, nil, WithRestoreFocus(false)).Finalize(context.Background(), s2)
	assert.Len(t, editor.Restored, 1)
}

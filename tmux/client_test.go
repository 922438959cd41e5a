package tmux

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptpad/host"
)

var (
	_ host.Editor    = (*Client)(nil)
	_ host.Terminals = (*Client)(nil)
	_ host.Commands  = (*Client)(nil)
	_ host.Notifier  = (*Client)(nil)
)

func TestParsePanes(t *testing.T) {
	out := strings.Join([]string{
		pane("%0", "@0", "zsh", "host", "zsh"),
		pane("%3", "@2", "Claude", "✳ Claude Code", "node"),
		"garbage line",
		pane("%4", "@3", "", "", "claude"),
		"",
	}, "\n")

	want := []Pane{
		{ID: "%0", WindowID: "@0", WindowName: "zsh", Title: "host", CurrentCmd: "zsh"},
		{ID: "%3", WindowID: "@2", WindowName: "Claude", Title: "✳ Claude Code", CurrentCmd: "node"},
		{ID: "%4", WindowID: "@3", CurrentCmd: "claude"},
	}
	if diff := cmp.Diff(want, ParsePanes(out)); diff != "" {
		t.Errorf("ParsePanes mismatch (-want +got):\n%s", diff)
	}
}

func TestPane_Name(t *testing.T) {
	assert.Equal(t, "win", Pane{ID: "%1", WindowName: "win", Title: "t", CurrentCmd: "c"}.Name())
	assert.Equal(t, "t", Pane{ID: "%1", WindowName: " ", Title: "t", CurrentCmd: "c"}.Name())
	assert.Equal(t, "c", Pane{ID: "%1", CurrentCmd: "c"}.Name())
	assert.Equal(t, "%1", Pane{ID: "%1"}.Name())
}

func TestClient_ListStampsFirstSeen(t *testing.T) {
	srv := &paneServer{}
	srv.set(pane("%1", "@1", "claude", "", "node"))
	now := time.Unix(1000, 0)
	c, _ := newTestClient(t, &fakeRunner{handler: srv.handle}, WithClock(func() time.Time { return now }))

	terms, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, host.Terminal{ID: "%1", Name: "claude", Command: "node", CreatedAt: now}, terms[0])

	now = now.Add(time.Minute)
	srv.add(pane("%2", "@2", "bash", "", "bash"))
	terms, err = c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, time.Unix(1000, 0), terms[0].CreatedAt, "first sighting is kept")
	assert.Equal(t, now, terms[1].CreatedAt)
}

func TestClient_ListExcludesEditors(t *testing.T) {
	srv := &paneServer{}
	c, _ := newTestClient(t, &fakeRunner{handler: srv.handle})

	buf, err := c.Open(context.Background(), "/tmp/claude-input-1-abc.md", host.OpenOptions{Title: "claude-input-1-abc.md"})
	require.NoError(t, err)
	srv.set(
		pane(string(buf.ID), "@5", "claude-input-1-abc.md", "", "nvim"),
		pane("%9", "@6", "Claude", "", "node"),
	)

	terms, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "%9", terms[0].ID)
}

func TestClient_Show(t *testing.T) {
	r := &fakeRunner{}
	c, _ := newTestClient(t, r)

	require.NoError(t, c.Show(context.Background(), "%3"))
	want := [][]string{{"select-window", "-t", "%3"}, {"select-pane", "-t", "%3"}}
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_SendText(t *testing.T) {
	r := &fakeRunner{}
	c, slept := newTestClient(t, r)

	require.NoError(t, c.SendText(context.Background(), "%3", "fix the bug", true))
	want := [][]string{
		{"send-keys", "-l", "-t", "%3", "--", "fix the bug"},
		{"send-keys", "-t", "%3", "Enter"},
	}
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []time.Duration{enterDelay}, *slept)
}

func TestClient_SendTextVariants(t *testing.T) {
	t.Run("no submit", func(t *testing.T) {
		r := &fakeRunner{}
		c, _ := newTestClient(t, r)
		require.NoError(t, c.SendText(context.Background(), "%3", "draft", false))
		assert.Len(t, r.Calls(), 1)
	})

	t.Run("empty line submit", func(t *testing.T) {
		r := &fakeRunner{}
		c, slept := newTestClient(t, r)
		require.NoError(t, c.SendText(context.Background(), "%3", "", true))
		assert.Equal(t, [][]string{{"send-keys", "-t", "%3", "Enter"}}, r.Calls())
		assert.Empty(t, *slept)
	})

	t.Run("chunked", func(t *testing.T) {
		r := &fakeRunner{}
		c, slept := newTestClient(t, r)
		text := strings.Repeat("a", chunkSize) + strings.Repeat("b", 10)
		require.NoError(t, c.SendText(context.Background(), "%3", text, true))

		calls := r.Calls()
		require.Len(t, calls, 3)
		assert.Len(t, calls[0][5], chunkSize)
		assert.Equal(t, strings.Repeat("b", 10), calls[1][5])
		assert.Equal(t, []time.Duration{chunkDelay, enterDelay}, *slept)
	})

	t.Run("send error", func(t *testing.T) {
		boom := errors.New("pane dead")
		c, _ := newTestClient(t, &fakeRunner{handler: func([]string) (string, error) { return "", boom }})
		err := c.SendText(context.Background(), "%3", "x", true)
		assert.ErrorIs(t, err, boom)
	})
}

func TestSplitIntoChunks(t *testing.T) {
	assert.Nil(t, splitIntoChunks("", 4))
	assert.Equal(t, []string{"abc"}, splitIntoChunks("abc", 4))
	assert.Equal(t, []string{"ab\n", "cdef", "g"}, splitIntoChunks("ab\ncdefg", 4))
	assert.Equal(t, []string{"abcd", "ef"}, splitIntoChunks("abcdef", 4))

	// "é" is two bytes; a hard split must not cut it.
	chunks := splitIntoChunks("abcéf", 4)
	assert.Equal(t, []string{"abc", "éf"}, chunks)
	assert.Equal(t, "abcéf", strings.Join(chunks, ""))
}

func TestClient_EditorLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := &paneServer{}
	r := &fakeRunner{handler: srv.handle}
	c, _ := newTestClient(t, r, WithEditor("code --wait"))

	path := filepath.Join(t.TempDir(), "claude-input-1-abc.md")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	buf, err := c.Open(ctx, path, host.OpenOptions{Title: "scratch", Cursor: host.Position{Line: 1}})
	require.NoError(t, err)
	assert.Equal(t, host.Buffer{ID: "%b", Path: path, Title: "scratch"}, buf)

	want := []string{"new-window", "-P", "-F", "#{pane_id}", "-n", "scratch", "--", "code", "--wait", "+2", path}
	if diff := cmp.Diff(want, r.Calls()[0]); diff != "" {
		t.Errorf("new-window args mismatch (-want +got):\n%s", diff)
	}

	text, err := c.Text(ctx, buf.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	srv.set(pane("%b", "@1", "scratch", "", "code"))
	vis, err := c.Visible(ctx)
	require.NoError(t, err)
	assert.Equal(t, []host.Buffer{{ID: "%b", Path: path, Title: "scratch"}}, vis)

	r.Reset()
	require.NoError(t, c.Close(ctx, buf.ID))
	assert.Equal(t, [][]string{{"kill-pane", "-t", "%b"}}, r.Calls())

	r.Reset()
	require.NoError(t, c.Close(ctx, buf.ID))
	assert.Empty(t, r.Calls(), "untracked buffers are not killed")

	_, err = c.Text(ctx, buf.ID)
	assert.Error(t, err)
}

func TestClient_OpenPreserveFocus(t *testing.T) {
	r := &fakeRunner{handler: (&paneServer{}).handle}
	c, _ := newTestClient(t, r)

	_, err := c.Open(context.Background(), "/tmp/x.md", host.OpenOptions{PreserveFocus: true})
	require.NoError(t, err)
	assert.Contains(t, r.Calls()[0], "-d")
	assert.Equal(t, "+1", r.Calls()[0][len(r.Calls()[0])-2])
}

func TestClient_CloseGonePane(t *testing.T) {
	srv := &paneServer{}
	r := &fakeRunner{handler: srv.handle}
	c, _ := newTestClient(t, r)

	buf, err := c.Open(context.Background(), "/tmp/x.md", host.OpenOptions{})
	require.NoError(t, err)

	r.handler = func(args []string) (string, error) {
		return "", errors.New("tmux kill-pane: can't find pane: %b")
	}
	assert.NoError(t, c.Close(context.Background(), buf.ID))
}

func TestClient_OpenUntitled(t *testing.T) {
	c, _ := newTestClient(t, &fakeRunner{})
	_, err := c.OpenUntitled(context.Background(), host.OpenOptions{})
	assert.ErrorIs(t, err, ErrUntitled)
}

func TestClient_FocusAndRestore(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		if args[0] == "display-message" {
			return "%7\n", nil
		}
		return "", nil
	}}
	c, _ := newTestClient(t, r)

	f, err := c.Focused(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &host.Focus{Buffer: "%7"}, f)

	r.Reset()
	require.NoError(t, c.Restore(context.Background(), *f))
	assert.Equal(t, [][]string{{"select-window", "-t", "%7"}, {"select-pane", "-t", "%7"}}, r.Calls())
}

func TestClient_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		r := &fakeRunner{}
		c, _ := newTestClient(t, r, WithChannel("Claude", "claude --continue"))
		require.NoError(t, c.Execute(ctx, CommandCreate))
		assert.Equal(t, [][]string{{"new-window", "-n", "Claude", "--", "claude", "--continue"}}, r.Calls())
	})

	t.Run("paste", func(t *testing.T) {
		r := &fakeRunner{}
		cb := &host.MockClipboard{}
		require.NoError(t, cb.WriteText("prompt"))
		c, _ := newTestClient(t, r, WithClipboard(cb))

		require.NoError(t, c.Execute(ctx, CommandPaste, "%3"))
		want := [][]string{
			{"set-buffer", "-b", "promptpad", "--", "prompt"},
			{"paste-buffer", "-p", "-d", "-b", "promptpad", "-t", "%3"},
		}
		if diff := cmp.Diff(want, r.Calls()); diff != "" {
			t.Errorf("paste calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("paste needs clipboard and target", func(t *testing.T) {
		c, _ := newTestClient(t, &fakeRunner{})
		assert.Error(t, c.Execute(ctx, CommandPaste))
		assert.Error(t, c.Execute(ctx, CommandPaste, "%3"))
	})

	t.Run("focus", func(t *testing.T) {
		r := &fakeRunner{}
		c, _ := newTestClient(t, r)
		require.NoError(t, c.Execute(ctx, CommandFocus, "%2"))
		assert.Len(t, r.Calls(), 2)
	})

	t.Run("custom", func(t *testing.T) {
		r := &fakeRunner{}
		c, _ := newTestClient(t, r, WithCommand(CommandCreate, "split-window", "-h", "-t", "{target}", "claude"))
		require.NoError(t, c.Execute(ctx, CommandCreate, "%1"))
		assert.Equal(t, [][]string{{"split-window", "-h", "-t", "%1", "claude"}}, r.Calls())
	})

	t.Run("unknown", func(t *testing.T) {
		c, _ := newTestClient(t, &fakeRunner{})
		assert.ErrorIs(t, c.Execute(ctx, "promptpad.nope"), ErrUnknownCommand)
	})
}

func TestClient_NotifierEscapesFormats(t *testing.T) {
	r := &fakeRunner{}
	c, _ := newTestClient(t, r)

	c.Info("50# done")
	c.Error("bad")
	assert.Equal(t, [][]string{
		{"display-message", "50## done"},
		{"display-message", "promptpad: bad"},
	}, r.Calls())
}

func TestClient_Host(t *testing.T) {
	c, _ := newTestClient(t, &fakeRunner{})
	bus := host.NewEventBus()
	h := c.Host(bus)
	assert.Same(t, c, h.Editor)
	assert.Same(t, bus, h.Events)
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := ExecRunner{Path: "sh"}

	out, err := r.Run(context.Background(), "-c", "echo hi")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)

	_, err = r.Run(context.Background(), "-c", "echo 'no server running on /tmp/tmux-0/default' >&2; exit 1")
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = r.Run(context.Background(), "-c", "echo 'unknown flag' >&2; exit 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestDefaultEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", DefaultEditor())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", DefaultEditor())

	t.Setenv("VISUAL", "hx")
	assert.Equal(t, "hx", DefaultEditor())
}

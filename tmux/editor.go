package tmux

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/host"
)

// Open implements host.Editor: the editor starts in a new window on path with
// the cursor on opts.Cursor. The new pane ID is the buffer ID. Until the pane
// is recorded, panes in a window of the same name are neither terminals nor
// editors.
func (c *Client) Open(ctx context.Context, path string, opts host.OpenOptions) (host.Buffer, error) {
	argv := strings.Fields(c.editor)
	if len(argv) == 0 {
		return host.Buffer{}, fmt.Errorf("no editor configured")
	}

	window := opts.Title
	if window == "" {
		window = filepath.Base(argv[0])
	}
	c.mu.Lock()
	c.opening[window]++
	c.mu.Unlock()

	args := []string{"new-window", "-P", "-F", "#{pane_id}"}
	if opts.PreserveFocus {
		args = append(args, "-d")
	}
	if opts.Title != "" {
		args = append(args, "-n", opts.Title)
	}
	args = append(args, "--")
	args = append(args, argv...)
	args = append(args, "+"+strconv.Itoa(opts.Cursor.Line+1), path)

	out, err := c.run(ctx, args...)
	id := host.BufferID(strings.TrimSpace(out))

	c.mu.Lock()
	if err == nil && id != "" {
		c.editors[id] = path
	}
	c.opening[window]--
	if c.opening[window] <= 0 {
		delete(c.opening, window)
	}
	c.mu.Unlock()

	if err != nil {
		return host.Buffer{}, fmt.Errorf("open editor: %w", err)
	}
	if id == "" {
		return host.Buffer{}, fmt.Errorf("open editor: tmux returned no pane id")
	}

	c.logger.Debug("editor opened", zap.String("pane", string(id)), zap.String("path", path))
	return host.Buffer{ID: id, Path: path, Title: opts.Title}, nil
}

// OpenUntitled implements host.Editor. tmux editors need a file.
func (c *Client) OpenUntitled(context.Context, host.OpenOptions) (host.Buffer, error) {
	return host.Buffer{}, ErrUntitled
}

// Text implements host.Editor by reading the buffer's file.
func (c *Client) Text(_ context.Context, id host.BufferID) (string, error) {
	c.mu.Lock()
	path, ok := c.editors[id]
	c.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("buffer %s not open", id)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close implements host.Editor by killing the editor pane. A pane that is
// already gone is not an error. The pane stays an editor until it is dead.
func (c *Client) Close(ctx context.Context, id host.BufferID) error {
	c.mu.Lock()
	_, tracked := c.editors[id]
	c.mu.Unlock()
	if !tracked {
		return nil
	}

	if _, err := c.run(ctx, "kill-pane", "-t", string(id)); err != nil &&
		!strings.Contains(err.Error(), "can't find pane") {
		return fmt.Errorf("close editor: %w", err)
	}

	c.mu.Lock()
	delete(c.editors, id)
	c.mu.Unlock()
	return nil
}

// Visible implements host.Editor: the scratch editor panes still alive.
func (c *Client) Visible(ctx context.Context) ([]host.Buffer, error) {
	panes, err := c.Panes(ctx)
	if err != nil {
		return nil, err
	}
	return c.visibleFrom(panes), nil
}

func (c *Client) visibleFrom(panes []Pane) []host.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var bufs []host.Buffer
	for _, p := range panes {
		id := host.BufferID(p.ID)
		if path, ok := c.editors[id]; ok {
			bufs = append(bufs, host.Buffer{ID: id, Path: path, Title: p.WindowName})
		}
	}
	return bufs
}

// Focused implements host.Editor with the active pane of the current client.
func (c *Client) Focused(ctx context.Context) (*host.Focus, error) {
	out, err := c.run(ctx, "display-message", "-p", "#{pane_id}")
	if err != nil {
		return nil, fmt.Errorf("read focus: %w", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		return nil, nil
	}
	return &host.Focus{Buffer: host.BufferID(id)}, nil
}

// Restore implements host.Editor by selecting the recorded pane.
func (c *Client) Restore(ctx context.Context, f host.Focus) error {
	return c.Show(ctx, string(f.Buffer))
}

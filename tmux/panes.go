package tmux

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/promptpad/host"
)

// paneFormat is the list-panes format: one tab-separated line per pane.
const paneFormat = "#{pane_id}\t#{window_id}\t#{window_name}\t#{pane_title}\t#{pane_current_command}"

// Pane is one tmux pane as reported by list-panes.
type Pane struct {
	ID         string
	WindowID   string
	WindowName string
	Title      string
	CurrentCmd string
}

// Name returns the display name used for channel matching: the window name,
// else the pane title, else the running command.
func (p Pane) Name() string {
	for _, s := range []string{p.WindowName, p.Title, p.CurrentCmd} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return p.ID
}

// ParsePanes parses list-panes output produced with paneFormat. Lines that
// do not carry a pane ID are skipped.
func ParsePanes(out string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 5)
		if len(fields) < 5 || !strings.HasPrefix(fields[0], "%") {
			continue
		}
		panes = append(panes, Pane{
			ID:         fields[0],
			WindowID:   fields[1],
			WindowName: fields[2],
			Title:      fields[3],
			CurrentCmd: fields[4],
		})
	}
	return panes
}

// Panes lists every pane on the server.
func (c *Client) Panes(ctx context.Context) ([]Pane, error) {
	out, err := c.run(ctx, "list-panes", "-a", "-F", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("list panes: %w", err)
	}
	return ParsePanes(out), nil
}

// terminal converts a pane, stamping it with the time it was first seen.
func (c *Client) terminal(p Pane) host.Terminal {
	c.mu.Lock()
	seen, ok := c.firstSeen[p.ID]
	if !ok {
		seen = c.now()
		c.firstSeen[p.ID] = seen
	}
	c.mu.Unlock()

	return host.Terminal{
		ID:        p.ID,
		Name:      p.Name(),
		Command:   p.CurrentCmd,
		CreatedAt: seen,
	}
}

// forget drops bookkeeping for panes that no longer exist.
func (c *Client) forget(live []Pane) {
	alive := make(map[string]struct{}, len(live))
	for _, p := range live {
		alive[p.ID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.firstSeen {
		if _, ok := alive[id]; !ok {
			delete(c.firstSeen, id)
		}
	}
}

// isScratch reports whether p is a scratch editor, opened or still opening.
func (c *Client) isScratch(p Pane) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.editors[host.BufferID(p.ID)]; ok {
		return true
	}
	return c.opening[p.WindowName] > 0
}

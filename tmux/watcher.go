package tmux

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/host"
)

// DefaultPollInterval is how often the Watcher lists panes.
const DefaultPollInterval = 250 * time.Millisecond

// maxPendingPolls is how many polls an editor pane may be missing before it
// is first seen. Beyond that the editor is taken to have exited on startup.
const maxPendingPolls = 8

// Watcher turns pane listings into host events.
type Watcher struct {
	client   *Client
	bus      *host.EventBus
	interval time.Duration
	logger   *zap.Logger

	started   bool
	terminals map[string]host.Terminal
	editors   map[host.BufferID]struct{}
	pending   map[host.BufferID]int
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher publishing on bus.
func NewWatcher(c *Client, bus *host.EventBus, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		client:    c,
		bus:       bus,
		interval:  DefaultPollInterval,
		logger:    zap.NewNop(),
		terminals: make(map[string]host.Terminal),
		editors:   make(map[host.BufferID]struct{}),
		pending:   make(map[host.BufferID]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until ctx is done. Poll errors are logged and retried; a tmux
// server that goes away ends the loop with ErrNotRunning.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Poll(ctx); err != nil {
			if errors.Is(err, ErrNotRunning) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Debug("pane poll failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll lists panes once and publishes what changed since the last call. The
// first call only records a baseline. Poll is not safe for concurrent use.
func (w *Watcher) Poll(ctx context.Context) error {
	panes, err := w.client.Panes(ctx)
	if err != nil {
		return err
	}
	w.client.forget(panes)

	alive := make(map[string]struct{}, len(panes))
	terminals := make(map[string]host.Terminal, len(panes))
	for _, p := range panes {
		alive[p.ID] = struct{}{}
		if !w.client.isScratch(p) {
			terminals[p.ID] = w.client.terminal(p)
		}
	}

	// Editor panes: alive ones are visible; ones seen before and now gone are
	// closed; ones never observed yet are still starting and count as visible
	// for a few polls.
	tracked := w.client.editorPaths()
	editors := make(map[host.BufferID]struct{}, len(tracked))
	var visible []host.Buffer
	var closed []host.BufferID
	for id, path := range tracked {
		_, isAlive := alive[string(id)]
		_, wasSeen := w.editors[id]
		switch {
		case isAlive:
			delete(w.pending, id)
			editors[id] = struct{}{}
			visible = append(visible, host.Buffer{ID: id, Path: path})
		case wasSeen:
			closed = append(closed, id)
		case w.pending[id] >= maxPendingPolls:
			delete(w.pending, id)
			closed = append(closed, id)
		default:
			w.pending[id]++
			visible = append(visible, host.Buffer{ID: id, Path: path})
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].ID < visible[j].ID })
	sort.Slice(closed, func(i, j int) bool { return closed[i] < closed[j] })

	if !w.started {
		w.started = true
		w.terminals = terminals
		w.editors = editors
		return nil
	}

	for _, id := range sortedKeys(terminals) {
		if _, ok := w.terminals[id]; !ok {
			w.bus.Publish(host.TerminalOpened{Terminal: terminals[id]})
		}
	}
	for _, id := range sortedKeys(w.terminals) {
		if _, ok := terminals[id]; !ok {
			w.bus.Publish(host.TerminalClosed{Terminal: w.terminals[id]})
		}
	}

	for _, id := range closed {
		w.bus.Publish(host.BufferClosed{ID: id})
	}
	if len(closed) > 0 || len(editors) != len(w.editors) {
		w.bus.Publish(host.VisibleBuffersChanged{Buffers: visible})
	}
	w.client.dropEditors(closed)

	w.terminals = terminals
	w.editors = editors
	return nil
}

func sortedKeys(m map[string]host.Terminal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Client) editorPaths() map[host.BufferID]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[host.BufferID]string, len(c.editors))
	for id, p := range c.editors {
		out[id] = p
	}
	return out
}

func (c *Client) dropEditors(ids []host.BufferID) {
	if len(ids) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.editors, id)
	}
}

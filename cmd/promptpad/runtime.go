package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/clipboard"
	"github.com/randalmurphal/promptpad/config"
	"github.com/randalmurphal/promptpad/extension"
	"github.com/randalmurphal/promptpad/host"
	"github.com/randalmurphal/promptpad/tmux"
)

var errNoTmux = errors.New("promptpad must run inside a tmux session")

// runtime is an activated extension on the current tmux server, with a
// watcher turning pane changes into host events.
type runtime struct {
	cfg    config.Config
	client *tmux.Client
	ext    *extension.Extension
	logger *zap.Logger

	cancel      context.CancelFunc
	watcherDone chan struct{}
	watcherErr  error
}

func newClient(cfg config.Config, logger *zap.Logger) *tmux.Client {
	opts := []tmux.Option{
		tmux.WithPath(cfg.Tmux.Path),
		tmux.WithEditor(cfg.Tmux.Editor),
		tmux.WithChannel(cfg.Tmux.ChannelName, cfg.Tmux.ChannelCommand),
		tmux.WithLogger(logger),
	}
	if !clipboard.Unsupported() {
		opts = append(opts, tmux.WithClipboard(clipboard.System{}))
	}
	return tmux.New(opts...)
}

// start activates the extension. The caller must call close.
func (a *app) start(ctx context.Context, opts ...extension.Option) (*runtime, error) {
	if !tmux.InSession() {
		return nil, errNoTmux
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	client := newClient(cfg, a.logger)
	bus := host.NewEventBus()
	watcher := tmux.NewWatcher(client, bus,
		tmux.WithInterval(cfg.Tmux.PollInterval),
		tmux.WithWatcherLogger(a.logger))
	if err := watcher.Poll(ctx); err != nil {
		return nil, fmt.Errorf("tmux: %w", err)
	}

	ext, err := extension.Activate(ctx, client.Host(bus), cfg,
		append([]extension.Option{extension.WithLogger(a.logger)}, opts...)...)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	rt := &runtime{
		cfg:         cfg,
		client:      client,
		ext:         ext,
		logger:      a.logger,
		cancel:      cancel,
		watcherDone: make(chan struct{}),
	}
	go func() {
		defer close(rt.watcherDone)
		rt.watcherErr = watcher.Run(wctx)
	}()
	return rt, nil
}

// waitIdle blocks until no scratch session is open, ctx is done or the tmux
// server goes away.
func (r *runtime) waitIdle(ctx context.Context) error {
	interval := r.cfg.Tmux.PollInterval
	if interval <= 0 {
		interval = tmux.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for r.ext.Registry().Count() > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-r.watcherDone:
			return r.watcherErr
		case <-ticker.C:
		}
	}
	return nil
}

// close waits for pending deliveries, then stops the watcher.
func (r *runtime) close() {
	r.ext.Deactivate()
	r.cancel()
	<-r.watcherDone
	if err := r.watcherErr; err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Warn("pane watcher stopped", zap.Error(err))
	}
}

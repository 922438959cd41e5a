package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/randalmurphal/promptpad/host"
)

// ErrNotFound indicates no channel exists even after trying to create one.
var ErrNotFound = errors.New("channel not found")

// Locator resolves the destination terminal.
type Locator struct {
	config    config
	terminals host.Terminals
	commands  host.Commands
	matcher   *Matcher
	group     singleflight.Group

	mu     sync.Mutex
	target *host.Terminal
	seen   []host.Terminal
}

// NewLocator creates a locator. commands may be nil when channel creation is
// not wanted.
func NewLocator(terminals host.Terminals, commands host.Commands, opts ...Option) (*Locator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	m, err := NewMatcher(cfg.patterns...)
	if err != nil {
		return nil, err
	}
	return &Locator{
		config:    cfg,
		terminals: terminals,
		commands:  commands,
		matcher:   m,
	}, nil
}

// Matcher returns the name matcher in use.
func (l *Locator) Matcher() *Matcher {
	return l.matcher
}

// Find returns the first terminal whose name matches, or nil when there is none.
func (l *Locator) Find(ctx context.Context) (*host.Terminal, error) {
	terms, err := l.terminals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list terminals: %w", err)
	}
	t := l.pick(terms)

	l.mu.Lock()
	l.seen = append(l.seen[:0:0], terms...)
	if t != nil {
		resolved := *t
		l.target = &resolved
	}
	l.mu.Unlock()
	return t, nil
}

// Target returns the terminal Find last resolved, if it is still open.
func (l *Locator) Target() (host.Terminal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.target == nil {
		return host.Terminal{}, false
	}
	return *l.target, true
}

// IsTarget reports whether t is the channel prompts go to. That is the
// terminal Find last resolved; before anything was resolved it is the one
// Find would pick from the terminals known just before t closed.
func (l *Locator) IsTarget(t host.Terminal) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.target != nil {
		return l.target.ID == t.ID
	}

	known := append([]host.Terminal(nil), l.seen...)
	if indexOf(known, t.ID) < 0 {
		known = append(known, t)
	}
	p := l.pick(known)
	return p != nil && p.ID == t.ID
}

// Observe keeps the known terminal set current from host events. A closed
// target is forgotten. Feed it after IsTarget has judged the same event.
func (l *Locator) Observe(ev host.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch e := ev.(type) {
	case host.TerminalOpened:
		if indexOf(l.seen, e.Terminal.ID) < 0 {
			l.seen = append(l.seen, e.Terminal)
		}
	case host.TerminalClosed:
		if i := indexOf(l.seen, e.Terminal.ID); i >= 0 {
			l.seen = append(l.seen[:i:i], l.seen[i+1:]...)
		}
		if l.target != nil && l.target.ID == e.Terminal.ID {
			l.target = nil
		}
	}
}

func indexOf(terms []host.Terminal, id string) int {
	for i := range terms {
		if terms[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Locator) pick(terms []host.Terminal) *host.Terminal {
	for i := range terms {
		if l.matcher.Match(terms[i].Name) {
			t := terms[i]
			return &t
		}
	}
	if !l.config.fallback || len(terms) == 0 {
		return nil
	}

	newest := 0
	for i := range terms {
		if !terms[i].CreatedAt.Before(terms[newest].CreatedAt) {
			newest = i
		}
	}
	t := terms[newest]
	l.config.logger.Debug("no terminal matched, using most recent",
		zap.String("terminal", t.Name))
	return &t
}

// Ensure returns a matching terminal, creating one through the host when
// none exists. Concurrent callers share a single creation attempt.
func (l *Locator) Ensure(ctx context.Context) (*host.Terminal, error) {
	t, err := l.Find(ctx)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}
	if l.commands == nil || l.config.createCommand == "" {
		return nil, ErrNotFound
	}

	ch := l.group.DoChan("create", func() (any, error) {
		return l.create(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*host.Terminal), nil
	}
}

func (l *Locator) create(ctx context.Context) (*host.Terminal, error) {
	var opened chan host.Terminal
	if l.config.events != nil && l.config.fixedDelay <= 0 {
		opened = make(chan host.Terminal, 1)
		sub := l.config.events.Subscribe(func(ev host.Event) {
			o, ok := ev.(host.TerminalOpened)
			if !ok || !l.matcher.Match(o.Terminal.Name) {
				return
			}
			select {
			case opened <- o.Terminal:
			default:
			}
		})
		defer sub.Dispose()
	}

	l.config.logger.Info("no channel found, creating one",
		zap.String("command", l.config.createCommand))
	if err := l.commands.Execute(ctx, l.config.createCommand, l.config.createArgs...); err != nil {
		l.config.logger.Warn("create channel command failed", zap.Error(err))
		return nil, fmt.Errorf("%w: create command: %v", ErrNotFound, err)
	}

	switch {
	case l.config.fixedDelay > 0:
		if err := l.config.sleep(ctx, l.config.fixedDelay); err != nil {
			return nil, err
		}
	case opened != nil:
		if err := l.waitEvent(ctx, opened); err != nil {
			return nil, err
		}
	default:
		t, err := l.poll(ctx)
		if err != nil || t != nil {
			return t, err
		}
	}

	t, err := l.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// waitEvent blocks until a matching terminal opens or the readiness timeout passes.
func (l *Locator) waitEvent(ctx context.Context, opened <-chan host.Terminal) error {
	timer := time.NewTimer(l.config.readinessTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case t := <-opened:
		l.config.logger.Debug("channel ready", zap.String("terminal", t.Name))
		return nil
	case <-timer.C:
		return nil
	}
}

// poll searches with exponential backoff until a channel appears or the
// readiness timeout is spent. A nil terminal and nil error mean time ran out.
func (l *Locator) poll(ctx context.Context) (*host.Terminal, error) {
	interval := l.config.pollInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	var waited time.Duration
	for waited < l.config.readinessTimeout {
		d := min(interval, l.config.readinessTimeout-waited)
		if err := l.config.sleep(ctx, d); err != nil {
			return nil, err
		}
		waited += d

		if t, err := l.Find(ctx); err == nil && t != nil {
			return t, nil
		}
		interval *= 2
		if l.config.maxPollInterval > 0 && interval > l.config.maxPollInterval {
			interval = l.config.maxPollInterval
		}
	}
	return nil, nil
}

package channel

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/host"
)

// Option configures a Locator.
type Option func(*config)

type config struct {
	patterns []string
	fallback bool

	// Channel creation
	createCommand string
	createArgs    []string

	// Readiness
	events           host.Source
	readinessTimeout time.Duration
	pollInterval     time.Duration
	maxPollInterval  time.Duration
	fixedDelay       time.Duration

	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func defaultConfig() config {
	return config{
		patterns:         DefaultPatterns,
		readinessTimeout: 5 * time.Second,
		pollInterval:     100 * time.Millisecond,
		maxPollInterval:  time.Second,
		logger:           zap.NewNop(),
		sleep:            Sleep,
	}
}

// WithPatterns replaces the name patterns.
func WithPatterns(patterns ...string) Option {
	return func(c *config) { c.patterns = patterns }
}

// WithFallback makes Find return the most recently created terminal when no
// name matches. This can target an unrelated terminal.
func WithFallback(enabled bool) Option {
	return func(c *config) { c.fallback = enabled }
}

// WithCreateCommand sets the host command Ensure runs when no channel exists.
// An empty name disables creation.
func WithCreateCommand(name string, args ...string) Option {
	return func(c *config) {
		c.createCommand = name
		c.createArgs = args
	}
}

// WithEvents waits for a matching TerminalOpened event after creation.
func WithEvents(src host.Source) Option {
	return func(c *config) { c.events = src }
}

// WithReadinessTimeout bounds how long Ensure waits after creation.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *config) { c.readinessTimeout = d }
}

// WithPollInterval sets the first polling interval and its cap.
func WithPollInterval(initial, max time.Duration) Option {
	return func(c *config) {
		c.pollInterval = initial
		c.maxPollInterval = max
	}
}

// WithFixedDelay waits exactly d after creation and searches once more,
// ignoring events and polling.
func WithFixedDelay(d time.Duration) Option {
	return func(c *config) { c.fixedDelay = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSleep replaces the wait function.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *config) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

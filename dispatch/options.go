package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/channel"
	"github.com/randalmurphal/promptpad/host"
)

// Strategy selects how text reaches the channel.
type Strategy string

// Strategy constants.
const (
	StrategyDirect    Strategy = "direct"
	StrategyClipboard Strategy = "clipboard"
)

// ParseStrategy validates a strategy name. Empty means StrategyDirect.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyDirect:
		return StrategyDirect, nil
	case StrategyClipboard:
		return StrategyClipboard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	strategy Strategy

	// Direct send
	submit          bool
	submitEmptyLine bool
	submitDelay     time.Duration

	// Clipboard bridge
	clipboard    host.Clipboard
	pasteCommand string

	// Timing
	focusDelay       time.Duration
	returnFocusDelay time.Duration

	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func defaultConfig() config {
	return config{
		strategy:         StrategyDirect,
		submit:           true,
		submitDelay:      50 * time.Millisecond,
		focusDelay:       100 * time.Millisecond,
		returnFocusDelay: time.Second,
		logger:           zap.NewNop(),
		sleep:            channel.Sleep,
	}
}

// WithStrategy selects the delivery strategy.
func WithStrategy(s Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithSubmit controls whether the text is sent as a submitted line.
func WithSubmit(submit bool) Option {
	return func(c *config) { c.submit = submit }
}

// WithSubmitEmptyLine sends an extra empty line after the text so
// interactive prompts treat it as a command.
func WithSubmitEmptyLine(enabled bool) Option {
	return func(c *config) { c.submitEmptyLine = enabled }
}

// WithClipboard sets the clipboard and the host command that pastes into the
// active channel.
func WithClipboard(cb host.Clipboard, pasteCommand string) Option {
	return func(c *config) {
		c.clipboard = cb
		c.pasteCommand = pasteCommand
	}
}

// WithFocusDelay sets the wait between showing the channel and sending.
func WithFocusDelay(d time.Duration) Option {
	return func(c *config) { c.focusDelay = d }
}

// WithSubmitDelay sets the wait before the extra empty line.
func WithSubmitDelay(d time.Duration) Option {
	return func(c *config) { c.submitDelay = d }
}

// WithReturnFocusDelay sets the wait before focus returns to the reporter.
func WithReturnFocusDelay(d time.Duration) Option {
	return func(c *config) { c.returnFocusDelay = d }
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

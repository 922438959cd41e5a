package extension

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Option configures an Extension.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	showPanel func(ctx context.Context) error
	sleep     func(ctx context.Context, d time.Duration) error
	queueSize int
}

func defaultOptions() options {
	return options{
		logger:    zap.NewNop(),
		queueSize: 64,
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPanel sets the function behind the show-input-panel command.
func WithPanel(show func(ctx context.Context) error) Option {
	return func(o *options) { o.showPanel = show }
}

// WithSleep replaces the wait used for readiness polling and delivery pacing.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleep = fn }
}

// WithEventQueue sets how many host events may wait for the loop.
func WithEventQueue(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

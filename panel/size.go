package panel

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Collapse counts by screen size.
const (
	MinCollapse      = 3
	FallbackCollapse = 5

	mediumHeight = 1440
	largeHeight  = 1800
)

// DefaultCellHeight is the assumed pixel height of one terminal row.
const DefaultCellHeight = 20

// DefaultProbeTimeout bounds a single screen probe.
const DefaultProbeTimeout = 2 * time.Second

// Probe reports the screen height in terminal rows.
type Probe func(ctx context.Context) (rows int, err error)

// TermProbe measures the terminal attached to f.
func TermProbe(f *os.File) Probe {
	return func(context.Context) (int, error) {
		_, rows, err := term.GetSize(int(f.Fd()))
		return rows, err
	}
}

// CollapseFor maps an effective pixel height to a collapse count.
func CollapseFor(effectiveHeight int) int {
	switch {
	case effectiveHeight >= largeHeight:
		return 5
	case effectiveHeight >= mediumHeight:
		return 4
	default:
		return MinCollapse
	}
}

// SizeDetector picks how far the input panel collapses for the current
// screen. The first successful probe is cached until Clear.
type SizeDetector struct {
	probe      Probe
	cellHeight int
	timeout    time.Duration
	logger     *zap.Logger

	mu     sync.Mutex
	cached int
}

// SizeOption configures a SizeDetector.
type SizeOption func(*SizeDetector)

// WithProbe replaces the screen probe.
func WithProbe(p Probe) SizeOption {
	return func(d *SizeDetector) { d.probe = p }
}

// WithCellHeight sets the pixel height of one row.
func WithCellHeight(px int) SizeOption {
	return func(d *SizeDetector) {
		if px > 0 {
			d.cellHeight = px
		}
	}
}

// WithProbeTimeout sets how long a probe may take before the fallback is used.
func WithProbeTimeout(timeout time.Duration) SizeOption {
	return func(d *SizeDetector) { d.timeout = timeout }
}

// WithSizeLogger sets the logger.
func WithSizeLogger(l *zap.Logger) SizeOption {
	return func(d *SizeDetector) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewSizeDetector creates a detector probing stdout by default.
func NewSizeDetector(opts ...SizeOption) *SizeDetector {
	d := &SizeDetector{
		probe:      TermProbe(os.Stdout),
		cellHeight: DefaultCellHeight,
		timeout:    DefaultProbeTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CollapseCount returns the collapse count, probing on first use. A failed
// or slow probe yields FallbackCollapse and is not cached.
func (d *SizeDetector) CollapseCount(ctx context.Context) int {
	d.mu.Lock()
	if d.cached > 0 {
		n := d.cached
		d.mu.Unlock()
		return n
	}
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type result struct {
		rows int
		err  error
	}
	done := make(chan result, 1)
	go func() {
		rows, err := d.probe(ctx)
		done <- result{rows, err}
	}()

	select {
	case <-ctx.Done():
		d.logger.Debug("screen probe timed out")
		return FallbackCollapse
	case r := <-done:
		if r.err != nil || r.rows <= 0 {
			d.logger.Debug("screen probe failed", zap.Error(r.err))
			return FallbackCollapse
		}
		n := CollapseFor(r.rows * d.cellHeight)
		d.mu.Lock()
		d.cached = n
		d.mu.Unlock()
		d.logger.Debug("screen size detected", zap.Int("rows", r.rows), zap.Int("collapse", n))
		return n
	}
}

// Clear drops the cached result.
func (d *SizeDetector) Clear() {
	d.mu.Lock()
	d.cached = 0
	d.mu.Unlock()
}

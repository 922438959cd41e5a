package scratch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/dispatch"
	"github.com/randalmurphal/promptpad/host"
	"github.com/randalmurphal/promptpad/session"
)

// Sender delivers finished text to a channel.
type Sender interface {
	Send(ctx context.Context, text string) (*host.Terminal, error)
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithTarget identifies the channel whose closing resets every session.
func WithTarget(isTarget func(host.Terminal) bool) DetectorOption {
	return func(d *Detector) { d.isTarget = isTarget }
}

// WithPreserveOnFailure copies text that could not be delivered to cb.
func WithPreserveOnFailure(cb host.Clipboard) DetectorOption {
	return func(d *Detector) { d.preserve = cb }
}

// WithDetectorLogger sets the logger.
func WithDetectorLogger(l *zap.Logger) DetectorOption {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// Detector turns host notifications into exactly one finalize per session.
type Detector struct {
	registry  *session.Registry
	editor    host.Editor
	finalizer *Finalizer
	sender    Sender
	notifier  host.Notifier
	isTarget  func(host.Terminal) bool
	preserve  host.Clipboard
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewDetector creates a detector. notifier may be nil.
func NewDetector(reg *session.Registry, editor host.Editor, finalizer *Finalizer, sender Sender, notifier host.Notifier, opts ...DetectorOption) *Detector {
	d := &Detector{
		registry:  reg,
		editor:    editor,
		finalizer: finalizer,
		sender:    sender,
		notifier:  notifier,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle processes one host event. Sessions that closed are removed from the
// registry before Handle returns; their finalize flows run in the background.
func (d *Detector) Handle(ctx context.Context, ev host.Event) {
	switch e := ev.(type) {
	case host.VisibleBuffersChanged:
		visible := make([]host.BufferID, len(e.Buffers))
		for i, b := range e.Buffers {
			visible[i] = b.ID
		}
		d.closed(ctx, ClosedFromVisible(d.registry.IDs(), visible))

	case host.TabsClosed:
		d.closed(ctx, ClosedFromTabs(d.registry.IDs(), e.IDs))

	case host.BufferClosed:
		d.closed(ctx, []host.BufferID{e.ID})

	case host.BufferChanged:
		if s, ok := d.registry.Get(e.ID); ok {
			s.SetCachedText(e.Text)
		}

	case host.TerminalClosed:
		if d.isTarget != nil && d.isTarget(e.Terminal) {
			d.Reset(ctx)
		}
	}
}

func (d *Detector) closed(ctx context.Context, ids []host.BufferID) {
	for _, id := range ids {
		s, ok := d.registry.Take(id)
		if !ok {
			continue
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(ctx, s)
		}()
	}
}

// run is the finalize flow: extract, then locate and deliver.
func (d *Detector) run(ctx context.Context, s *session.Session) {
	text := d.finalizer.Finalize(ctx, s)
	if text == "" {
		return
	}

	t, err := d.sender.Send(ctx, text)
	if err != nil {
		d.logger.Warn("prompt not delivered", zap.String("buffer", string(s.ID)), zap.Error(err))
		d.notifyError(dispatch.UserMessage(err))
		d.preserveText(text)
		return
	}
	d.logger.Info("scratch prompt sent",
		zap.String("buffer", string(s.ID)),
		zap.String("terminal", t.Name))
}

func (d *Detector) preserveText(text string) {
	if d.preserve == nil {
		return
	}
	if err := d.preserve.WriteText(text); err != nil {
		d.logger.Warn("could not preserve prompt", zap.Error(err))
		return
	}
	if d.notifier != nil {
		d.notifier.Info("Your prompt was copied to the clipboard.")
	}
}

func (d *Detector) notifyError(msg string) {
	if d.notifier != nil {
		d.notifier.Error(msg)
	}
}

// Reset discards every open session without extracting or sending: buffers
// are closed and backing files removed.
func (d *Detector) Reset(ctx context.Context) {
	sessions := d.registry.Drain()
	for _, s := range sessions {
		s.Stop()
		if d.editor != nil {
			if err := d.editor.Close(ctx, s.ID); err != nil {
				d.logger.Warn("close scratch buffer", zap.String("buffer", string(s.ID)), zap.Error(err))
			}
		}
		if s.HasBackingFile() {
			removeQuiet(d.logger, s.Path)
		}
	}
	if len(sessions) > 0 {
		d.logger.Info("channel closed, discarded scratch sessions", zap.Int("count", len(sessions)))
	}
}

// Wait blocks until every running finalize flow has finished.
func (d *Detector) Wait() {
	d.wg.Wait()
}

// ClosedFromVisible returns the tracked IDs missing from the visible snapshot.
func ClosedFromVisible(tracked, visible []host.BufferID) []host.BufferID {
	seen := make(map[host.BufferID]struct{}, len(visible))
	for _, id := range visible {
		seen[id] = struct{}{}
	}
	var out []host.BufferID
	for _, id := range tracked {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// ClosedFromTabs returns the tracked IDs present in closed, in tracked order.
func ClosedFromTabs(tracked, closed []host.BufferID) []host.BufferID {
	gone := make(map[host.BufferID]struct{}, len(closed))
	for _, id := range closed {
		gone[id] = struct{}{}
	}
	var out []host.BufferID
	for _, id := range tracked {
		if _, ok := gone[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

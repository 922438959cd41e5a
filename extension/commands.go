package extension

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

func (e *Extension) openScratch(ctx context.Context, _ ...string) error {
	s, err := e.manager.Create(ctx)
	if err != nil {
		return err
	}
	e.logger.Debug("scratch input opened", zap.String("buffer", string(s.ID)))
	return nil
}

// send delivers its arguments, joined by spaces, to the channel.
func (e *Extension) send(ctx context.Context, args ...string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return ErrNoText
	}
	_, err := e.pipeline.Send(ctx, text)
	return err
}

func (e *Extension) showPanel(ctx context.Context, _ ...string) error {
	if e.opts.showPanel == nil {
		return ErrNoPanel
	}
	return e.opts.showPanel(ctx)
}

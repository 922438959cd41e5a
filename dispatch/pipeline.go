package dispatch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/channel"
	"github.com/randalmurphal/promptpad/host"
)

// NotFoundMessage is shown when no channel could be found or created.
const NotFoundMessage = "Claude terminal not found. Make sure a terminal running Claude is open."

// UserMessage turns a pipeline error into text for the user.
func UserMessage(err error) string {
	if errors.Is(err, channel.ErrNotFound) {
		return NotFoundMessage
	}
	return fmt.Sprintf("An error occurred: %v", err)
}

// Locator resolves the destination channel.
type Locator interface {
	Ensure(ctx context.Context) (*host.Terminal, error)
}

// Reporter receives progress from a Pipeline. The input panel implements it.
type Reporter interface {
	// Loading toggles the busy state.
	Loading(loading bool)

	// Error shows a failure to the user.
	Error(msg string)

	// ReturnFocus gives focus back to the input surface after a send.
	ReturnFocus()
}

// Pipeline locates the channel and delivers text to it.
type Pipeline struct {
	locator    Locator
	dispatcher *Dispatcher
}

// NewPipeline creates a pipeline.
func NewPipeline(locator Locator, dispatcher *Dispatcher) *Pipeline {
	return &Pipeline{locator: locator, dispatcher: dispatcher}
}

// Send delivers text and returns the channel it went to.
func (p *Pipeline) Send(ctx context.Context, text string) (*host.Terminal, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	t, err := p.locator.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.dispatcher.Deliver(ctx, *t, text); err != nil {
		return t, err
	}
	p.dispatcher.config.logger.Info("prompt delivered", zap.String("terminal", t.Name))
	return t, nil
}

// SendWithReporter runs Send while driving r: loading on, loading off, an
// error message on failure and a delayed focus return on success.
func (p *Pipeline) SendWithReporter(ctx context.Context, text string, r Reporter) error {
	r.Loading(true)
	defer r.Loading(false)

	if _, err := p.Send(ctx, text); err != nil {
		r.Error(UserMessage(err))
		return err
	}

	if err := p.dispatcher.config.sleep(ctx, p.dispatcher.config.returnFocusDelay); err != nil {
		return nil
	}
	r.ReturnFocus()
	return nil
}

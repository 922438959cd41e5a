package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/host"
)

// Dispatcher delivers text to a located channel.
type Dispatcher struct {
	config    config
	terminals host.Terminals
	commands  host.Commands
}

// New creates a dispatcher.
func New(terminals host.Terminals, commands host.Commands, opts ...Option) (*Dispatcher, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := ParseStrategy(string(cfg.strategy)); err != nil {
		return nil, err
	}
	if cfg.strategy == StrategyClipboard {
		if cfg.clipboard == nil {
			return nil, ErrNoClipboard
		}
		if commands == nil {
			return nil, ErrNoCommands
		}
	}
	return &Dispatcher{config: cfg, terminals: terminals, commands: commands}, nil
}

// Strategy returns the configured strategy.
func (d *Dispatcher) Strategy() Strategy {
	return d.config.strategy
}

// Deliver sends text to t.
func (d *Dispatcher) Deliver(ctx context.Context, t host.Terminal, text string) error {
	if text == "" {
		return ErrEmptyText
	}

	d.config.logger.Debug("delivering prompt",
		zap.String("terminal", t.Name),
		zap.String("strategy", string(d.config.strategy)),
		zap.Int("bytes", len(text)))

	switch d.config.strategy {
	case StrategyClipboard:
		return d.viaClipboard(ctx, t, text)
	default:
		return d.direct(ctx, t, text)
	}
}

func (d *Dispatcher) direct(ctx context.Context, t host.Terminal, text string) error {
	if err := d.terminals.Show(ctx, t.ID); err != nil {
		return &Error{Op: "show", Channel: t.Name, Err: err}
	}
	if err := d.config.sleep(ctx, d.config.focusDelay); err != nil {
		return &Error{Op: "show", Channel: t.Name, Err: err}
	}
	if err := d.terminals.SendText(ctx, t.ID, text, d.config.submit); err != nil {
		return &Error{Op: "send", Channel: t.Name, Err: err}
	}
	if !d.config.submitEmptyLine {
		return nil
	}
	if err := d.config.sleep(ctx, d.config.submitDelay); err != nil {
		return &Error{Op: "send", Channel: t.Name, Err: err}
	}
	if err := d.terminals.SendText(ctx, t.ID, "", true); err != nil {
		return &Error{Op: "send", Channel: t.Name, Err: err}
	}
	return nil
}

func (d *Dispatcher) viaClipboard(ctx context.Context, t host.Terminal, text string) error {
	if err := d.config.clipboard.WriteText(text); err != nil {
		return &Error{Op: "clipboard", Channel: t.Name, Err: err}
	}
	if err := d.terminals.Show(ctx, t.ID); err != nil {
		return &Error{Op: "show", Channel: t.Name, Err: err}
	}
	if err := d.config.sleep(ctx, d.config.focusDelay); err != nil {
		return &Error{Op: "show", Channel: t.Name, Err: err}
	}
	if err := d.commands.Execute(ctx, d.config.pasteCommand, t.ID); err != nil {
		return &Error{Op: "paste", Channel: t.Name, Err: err}
	}
	return nil
}

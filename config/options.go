package config

import (
	"github.com/randalmurphal/promptpad/channel"
	"github.com/randalmurphal/promptpad/dispatch"
	"github.com/randalmurphal/promptpad/host"
	"github.com/randalmurphal/promptpad/scratch"
	"github.com/randalmurphal/promptpad/session"
)

// RegistryOptions converts the config to session registry options.
func (c *Config) RegistryOptions() []session.RegistryOption {
	return []session.RegistryOption{session.WithMaxSessions(c.MaxSessions)}
}

// ManagerOptions converts the config to scratch manager options.
func (c *Config) ManagerOptions() []scratch.ManagerOption {
	opts := make([]scratch.ManagerOption, 0, 6)
	if c.TempDir != "" {
		opts = append(opts, scratch.WithDir(c.TempDir))
	}
	if c.FilePrefix != "" {
		opts = append(opts, scratch.WithPrefix(c.FilePrefix))
	}
	switch {
	case c.NoPlaceholder:
		opts = append(opts, scratch.WithPlaceholder(""))
	case c.Placeholder != "":
		opts = append(opts, scratch.WithPlaceholder(c.Placeholder))
	}
	opts = append(opts,
		scratch.WithUntitled(c.Untitled),
		scratch.WithLiveCapture(c.LiveCapture),
		scratch.WithRecordFocus(c.RestoreFocus),
	)
	return opts
}

// FinalizerOptions converts the config to finalizer options.
func (c *Config) FinalizerOptions() []scratch.FinalizerOption {
	return []scratch.FinalizerOption{
		scratch.WithEmptyMessage(c.EmptyMessage),
		scratch.WithRestoreFocus(c.RestoreFocus),
	}
}

// ChannelOptions converts the config to locator options. events feeds
// readiness detection and may be nil.
func (c *Config) ChannelOptions(events host.Source) []channel.Option {
	opts := []channel.Option{
		channel.WithFallback(c.Fallback),
		channel.WithCreateCommand(c.CreateCommand),
	}
	if len(c.Patterns) > 0 {
		opts = append(opts, channel.WithPatterns(c.Patterns...))
	}
	if events != nil {
		opts = append(opts, channel.WithEvents(events))
	}
	if c.ReadinessTimeout > 0 {
		opts = append(opts, channel.WithReadinessTimeout(c.ReadinessTimeout))
	}
	if c.PollInterval > 0 {
		opts = append(opts, channel.WithPollInterval(c.PollInterval, max(c.MaxPollInterval, c.PollInterval)))
	}
	if c.FixedDelay > 0 {
		opts = append(opts, channel.WithFixedDelay(c.FixedDelay))
	}
	return opts
}

// DispatchOptions converts the config to dispatcher options. cb is used by
// the clipboard strategy and may be nil otherwise.
func (c *Config) DispatchOptions(cb host.Clipboard) []dispatch.Option {
	strategy, _ := dispatch.ParseStrategy(c.Strategy)
	opts := []dispatch.Option{
		dispatch.WithStrategy(strategy),
		dispatch.WithSubmit(c.Submit),
		dispatch.WithSubmitEmptyLine(c.SubmitEmptyLine),
		dispatch.WithFocusDelay(c.FocusDelay),
		dispatch.WithSubmitDelay(c.SubmitDelay),
		dispatch.WithReturnFocusDelay(c.ReturnFocusDelay),
	}
	if strategy == dispatch.StrategyClipboard {
		opts = append(opts, dispatch.WithClipboard(cb, c.PasteCommand))
	}
	return opts
}

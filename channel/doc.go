// Package channel finds the terminal that receives finished prompts.
//
// A channel is located by matching terminal names against a small set of
// case-insensitive patterns. When nothing matches, Locator.Ensure can ask the
// host to create one and wait for it to show up:
//
//	loc := channel.NewLocator(terms, cmds,
//	    channel.WithCreateCommand("promptpad.createChannel"),
//	    channel.WithEvents(bus),
//	)
//	term, err := loc.Ensure(ctx)
//	if errors.Is(err, channel.ErrNotFound) {
//	    // tell the user
//	}
//
// Readiness is detected from a TerminalOpened event when an event source is
// configured, otherwise by polling with exponential backoff. WithFixedDelay
// restores the single fixed wait used by older hosts.
package channel

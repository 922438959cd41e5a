// Package dispatch delivers finished prompt text to a channel.
//
// Two strategies exist. StrategyDirect shows the channel, waits for focus to
// settle and types the text. StrategyClipboard copies the text, shows the
// channel and runs the host's paste action. Neither retries.
//
// Pipeline ties a channel.Locator to a Dispatcher and reports progress to an
// optional Reporter (the input panel shows a loading state with it).
package dispatch

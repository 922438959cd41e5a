// Package promptpad lets you write prompts for Claude in a real editor.
//
// A scratch buffer opens with a placeholder comment. When the buffer is closed
// its text, minus comments, is delivered to the terminal running Claude. If no
// such terminal exists one is created and awaited first. Each buffer is sent
// at most once no matter how many close signals arrive.
//
// The packages can be used on their own:
//
//   - host: interfaces for the editor, terminals, commands and events
//   - session: scratch sessions and the registry that tracks them
//   - parser: comment stripping and blank detection
//   - channel: finding or creating the Claude terminal
//   - dispatch: delivering text with the direct or clipboard strategy
//   - scratch: creating, finalizing and close detection for scratch buffers
//   - message: the panel message protocol and its JSON Schema
//   - panel: the interactive input panel and its JSON-lines bridge
//   - tmux: a host backed by a tmux server
//   - config: layered file and environment configuration
//   - extension: wiring everything together behind named commands
//
// # Quick Start
//
// Inside tmux:
//
//	bus := host.NewEventBus()
//	client := tmux.New()
//	ext, err := extension.Activate(ctx, client.Host(bus), config.Default())
//	if err != nil {
//	    return err
//	}
//	defer ext.Deactivate()
//	go tmux.NewWatcher(client, bus).Run(ctx)
//
//	err = ext.Run(ctx, extension.CommandOpenScratch)
//
// Sending text directly:
//
//	err = ext.Run(ctx, extension.CommandSend, "Summarize this file")
//
// The promptpad command wraps the same flow; see cmd/promptpad.
package promptpad

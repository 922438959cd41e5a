// Package tmux hosts promptpad inside a tmux server.
//
// Terminals are panes: any pane whose window name (or title, or running
// command) matches the channel patterns is a candidate channel. Scratch
// buffers are $EDITOR processes started in their own windows; the pane ID
// doubles as the buffer ID, so killing the pane or quitting the editor closes
// the buffer.
//
// tmux has no change notifications, so a Watcher lists panes on an interval
// and publishes the differences as host events.
//
//	c := tmux.New(tmux.WithEditor("nvim"))
//	bus := host.NewEventBus()
//	w := tmux.NewWatcher(c, bus)
//	go w.Run(ctx)
package tmux

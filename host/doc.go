// Package host defines the surfaces promptpad drives but does not own.
//
// A host provides an editor surface (scratch buffers), a channel surface
// (interactive terminals running the assistant), a command palette of named
// external actions, a clipboard and a way to show messages to the user.
// Lifecycle notifications arrive as Events through a Source.
//
// The tmux package implements these interfaces on top of a tmux server and
// $EDITOR. The Mock* types in this package are in-memory doubles for tests.
//
// # Subscriptions
//
// Every Subscribe call returns a Disposable. Subscriptions aggregates them so
// a single Dispose tears everything down:
//
//	var subs host.Subscriptions
//	subs.Add(bus.Subscribe(handle))
//	defer subs.Dispose()
package host

// Package session tracks scratch sessions: the association between an open
// scratch buffer and its backing storage for one compose-and-send cycle.
//
// A Registry is owned by the extension that creates it. It is created at
// activation, cleared at deactivation and handed to the callbacks that need
// it; there is no package-level state.
//
// # At-most-once finalize
//
// Close signals from a host often arrive in bursts. Take removes a session and
// returns it in one step, so exactly one caller wins:
//
//	if s, ok := reg.Take(id); ok {
//	    go finalize(ctx, s)
//	}
//
// Callers must Take before doing anything that can block.
package session

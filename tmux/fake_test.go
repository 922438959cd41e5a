package tmux

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeRunner answers tmux invocations from a handler and records them.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	handler func(args []string) (string, error)
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return "", nil
	}
	return h(args)
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

func (f *fakeRunner) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

// paneServer is a fake tmux server state for list-panes.
type paneServer struct {
	mu    sync.Mutex
	panes []string
	next  int
}

func (s *paneServer) set(lines ...string) {
	s.mu.Lock()
	s.panes = lines
	s.mu.Unlock()
}

func (s *paneServer) add(line string) {
	s.mu.Lock()
	s.panes = append(s.panes, line)
	s.mu.Unlock()
}

func (s *paneServer) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.panes {
		if strings.HasPrefix(l, id+"\t") {
			s.panes = append(s.panes[:i], s.panes[i+1:]...)
			return
		}
	}
}

func (s *paneServer) handle(args []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch args[0] {
	case "list-panes":
		return strings.Join(s.panes, "\n") + "\n", nil
	case "new-window":
		s.next++
		id := "%" + string(rune('a'+s.next))
		return id + "\n", nil
	}
	return "", nil
}

func pane(id, window, name, title, cmd string) string {
	return strings.Join([]string{id, window, name, title, cmd}, "\t")
}

func newTestClient(t *testing.T, r Runner, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()
	var slept []time.Duration
	var mu sync.Mutex
	base := []Option{
		WithRunner(r),
		WithEditor("nvim"),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			mu.Lock()
			slept = append(slept, d)
			mu.Unlock()
			return ctx.Err()
		}),
	}
	return New(append(base, opts...)...), &slept
}

package panel

import (
	"context"
	"sync"

	"github.com/randalmurphal/promptpad/dispatch"
)

// fakeSender reports the way dispatch.Pipeline does.
type fakeSender struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeSender) SendWithReporter(_ context.Context, text string, r dispatch.Reporter) error {
	r.Loading(true)
	defer r.Loading(false)

	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()

	if f.err != nil {
		r.Error(dispatch.UserMessage(f.err))
		return f.err
	}
	r.ReturnFocus()
	return nil
}

func (f *fakeSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

package host

import (
	"errors"
	"sync"
)

// Disposable releases a subscription or registration.
type Disposable interface {
	Dispose() error
}

// DisposableFunc adapts a function to Disposable.
type DisposableFunc func() error

// Dispose implements Disposable.
func (f DisposableFunc) Dispose() error {
	if f == nil {
		return nil
	}
	return f()
}

// Subscriptions aggregates disposables under one teardown handle.
// The zero value is ready to use.
type Subscriptions struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// Add registers d. If the set was already disposed, d is disposed immediately.
func (s *Subscriptions) Add(d ...Disposable) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		for _, item := range d {
			if item != nil {
				_ = item.Dispose()
			}
		}
		return
	}
	s.items = append(s.items, d...)
	s.mu.Unlock()
}

// Len returns the number of live registrations.
func (s *Subscriptions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Dispose tears down every registration in reverse order and joins the errors.
// Calling Dispose more than once is a no-op.
func (s *Subscriptions) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	items := s.items
	s.items = nil
	s.mu.Unlock()

	var errs []error
	for i := len(items) - 1; i >= 0; i-- {
		if items[i] == nil {
			continue
		}
		if err := items[i].Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/host"
)

// Sentinel errors for registry operations.
var (
	// ErrDuplicate indicates a live session already uses the buffer ID.
	ErrDuplicate = errors.New("session already registered")

	// ErrLimit indicates the registry is full.
	ErrLimit = errors.New("max sessions reached")

	// ErrClosed indicates the registry was cleared for shutdown.
	ErrClosed = errors.New("registry is closed")
)

// Registry maps open buffer IDs to their sessions.
type Registry struct {
	config   registryConfig
	mu       sync.Mutex
	sessions map[host.BufferID]*Session
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{
		config:   cfg,
		sessions: make(map[host.BufferID]*Session),
	}
}

// Add registers s under s.ID.
func (r *Registry) Add(s *Session) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("session has no buffer id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, s.ID)
	}
	if r.config.maxSessions > 0 && len(r.sessions) >= r.config.maxSessions {
		return fmt.Errorf("%w (%d)", ErrLimit, r.config.maxSessions)
	}

	r.sessions[s.ID] = s
	r.config.logger.Debug("session registered",
		zap.String("buffer", string(s.ID)),
		zap.String("path", s.Path))
	return nil
}

// Get returns the live session for id.
func (r *Registry) Get(id host.BufferID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Has reports whether id is tracked.
func (r *Registry) Has(id host.BufferID) bool {
	_, ok := r.Get(id)
	return ok
}

// Take removes and returns the session for id. Only the first caller for a
// given registration gets ok == true.
func (r *Registry) Take(id host.BufferID) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		s.setStatus(StatusClosing)
		r.config.logger.Debug("session taken", zap.String("buffer", string(id)))
	}
	return s, ok
}

// Drain removes and returns every session.
func (r *Registry) Drain() []*Session {
	r.mu.Lock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.sessions = make(map[host.BufferID]*Session)
	r.mu.Unlock()

	sortSessions(out)
	for _, s := range out {
		s.setStatus(StatusClosing)
	}
	return out
}

// IDs returns the tracked buffer IDs, oldest first.
func (r *Registry) IDs() []host.BufferID {
	r.mu.Lock()
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.Unlock()

	sortSessions(list)
	ids := make([]host.BufferID, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}

// Count returns the number of tracked sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// List returns metadata for every tracked session, oldest first.
func (r *Registry) List() []Info {
	r.mu.Lock()
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.Unlock()

	sortSessions(list)
	infos := make([]Info, len(list))
	for i, s := range list {
		infos[i] = s.Info()
	}
	return infos
}

// Clear drops every session and refuses further Adds. It stops each
// dropped session but does not touch backing files.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.closed = true
	dropped := r.sessions
	r.sessions = make(map[host.BufferID]*Session)
	r.mu.Unlock()

	for _, s := range dropped {
		s.Stop()
	}
}

func sortSessions(list []*Session) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

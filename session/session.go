package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/promptpad/host"
)

// Status represents where a session is in its lifecycle.
type Status string

// Session status constants.
const (
	StatusActive  Status = "active"
	StatusClosing Status = "closing"
	StatusClosed  Status = "closed"
)

// Session is one scratch buffer and its backing state.
type Session struct {
	// ID is the host buffer handle.
	ID host.BufferID

	// Path is the backing temp file. Empty for untitled buffers.
	Path string

	// Token is a random identifier unique to this session.
	Token string

	// OriginalFocus is the focus to restore when the session ends.
	OriginalFocus *host.Focus

	// CreatedAt is when the session was registered.
	CreatedAt time.Time

	mu         sync.Mutex
	cachedText string
	status     Status
	stop       func()
}

// New creates an active session for a buffer.
func New(id host.BufferID, path string) *Session {
	return &Session{
		ID:        id,
		Path:      path,
		Token:     NewToken(),
		CreatedAt: time.Now(),
		status:    StatusActive,
	}
}

// NewToken returns a fresh random token.
func NewToken() string {
	return uuid.New().String()
}

// ShortToken returns the first eight characters of Token.
func (s *Session) ShortToken() string {
	if len(s.Token) <= 8 {
		return s.Token
	}
	return s.Token[:8]
}

// HasBackingFile reports whether the session is backed by a temp file.
func (s *Session) HasBackingFile() bool {
	return s.Path != ""
}

// SetCachedText records an edit. Blank text is ignored so the cache always
// holds the last non-blank capture.
func (s *Session) SetCachedText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.mu.Lock()
	s.cachedText = text
	s.mu.Unlock()
}

// CachedText returns the last non-blank capture.
func (s *Session) CachedText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedText
}

// Status returns the current state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == "" {
		return StatusActive
	}
	return s.status
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// OnStop registers a cleanup hook run once by Stop, replacing any earlier hook.
func (s *Session) OnStop(fn func()) {
	s.mu.Lock()
	s.stop = fn
	s.mu.Unlock()
}

// Stop runs the cleanup hook, if any, and marks the session closed.
func (s *Session) Stop() {
	s.mu.Lock()
	fn := s.stop
	s.stop = nil
	s.status = StatusClosed
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Info is a snapshot of session metadata.
type Info struct {
	ID        host.BufferID `json:"id"`
	Path      string        `json:"path,omitempty"`
	Token     string        `json:"token"`
	Status    Status        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Info returns a metadata snapshot.
func (s *Session) Info() Info {
	return Info{
		ID:        s.ID,
		Path:      s.Path,
		Token:     s.Token,
		Status:    s.Status(),
		CreatedAt: s.CreatedAt,
	}
}

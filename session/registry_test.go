package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptpad/host"
)

func TestRegistryConfig_Defaults(t *testing.T) {
	cfg := defaultRegistryConfig()
	assert.Equal(t, 16, cfg.maxSessions)
	assert.NotNil(t, cfg.logger)
}

func TestRegistry_AddGet(t *testing.T) {
	reg := NewRegistry()
	s := New("buf-1", "/tmp/a.md")

	require.NoError(t, reg.Add(s))
	got, ok := reg.Get("buf-1")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.True(t, reg.Has("buf-1"))
	assert.Equal(t, 1, reg.Count())
}

func TestRegistry_AddRejects(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Registry)
		session *Session
		wantErr error
	}{
		{
			name:    "duplicate live id",
			setup:   func(r *Registry) { _ = r.Add(New("a", "")) },
			session: New("a", ""),
			wantErr: ErrDuplicate,
		},
		{
			name: "limit reached",
			setup: func(r *Registry) {
				_ = r.Add(New("a", ""))
				_ = r.Add(New("b", ""))
			},
			session: New("c", ""),
			wantErr: ErrLimit,
		},
		{
			name:    "cleared",
			setup:   func(r *Registry) { r.Clear() },
			session: New("a", ""),
			wantErr: ErrClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(WithMaxSessions(2))
			tt.setup(reg)
			assert.ErrorIs(t, reg.Add(tt.session), tt.wantErr)
		})
	}

	t.Run("empty id", func(t *testing.T) {
		assert.Error(t, NewRegistry().Add(New("", "")))
	})
}

func TestRegistry_TakeAtMostOnce(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(New("buf-1", "")))

	const signals = 50
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < signals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := reg.Take("buf-1"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 0, reg.Count())
}

func TestRegistry_ReuseAfterTakeStartsFresh(t *testing.T) {
	reg := NewRegistry()
	first := New("buf-1", "/tmp/first.md")
	first.SetCachedText("old draft")
	require.NoError(t, reg.Add(first))

	taken, ok := reg.Take("buf-1")
	require.True(t, ok)
	assert.Equal(t, StatusClosing, taken.Status())

	second := New("buf-1", "/tmp/second.md")
	require.NoError(t, reg.Add(second))

	got, ok := reg.Get("buf-1")
	require.True(t, ok)
	assert.Equal(t, "/tmp/second.md", got.Path)
	assert.Empty(t, got.CachedText())
	assert.NotEqual(t, first.Token, got.Token)
}

func TestRegistry_DrainOldestFirst(t *testing.T) {
	reg := NewRegistry()
	now := time.Now()
	for i, id := range []host.BufferID{"c", "a", "b"} {
		s := New(id, "")
		s.CreatedAt = now.Add(time.Duration(i) * time.Second)
		require.NoError(t, reg.Add(s))
	}

	assert.Equal(t, []host.BufferID{"c", "a", "b"}, reg.IDs())

	drained := reg.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, host.BufferID("c"), drained[0].ID)
	assert.Equal(t, 0, reg.Count())

	_, ok := reg.Take("a")
	assert.False(t, ok)
}

func TestRegistry_ClearStopsSessions(t *testing.T) {
	reg := NewRegistry()
	s := New("a", "")
	stopped := 0
	s.OnStop(func() { stopped++ })
	require.NoError(t, reg.Add(s))

	reg.Clear()
	assert.Equal(t, 1, stopped)
	assert.Equal(t, StatusClosed, s.Status())
	assert.Equal(t, 0, reg.Count())
}

func TestRegistry_List(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(New("a", "/tmp/a.md")))

	infos := reg.List()
	require.Len(t, infos, 1)
	assert.Equal(t, host.BufferID("a"), infos[0].ID)
	assert.Equal(t, StatusActive, infos[0].Status)
	assert.NotEmpty(t, infos[0].Token)
}

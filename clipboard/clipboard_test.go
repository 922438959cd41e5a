package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptpad/host"
)

var _ host.Clipboard = System{}

func fakeClipboard(t *testing.T, supported bool) *string {
	t.Helper()
	var store string
	origWrite, origRead, origUnsupported := writeAll, readAll, unsupported
	t.Cleanup(func() { writeAll, readAll, unsupported = origWrite, origRead, origUnsupported })

	writeAll = func(s string) error { store = s; return nil }
	readAll = func() (string, error) { return store, nil }
	unsupported = func() bool { return !supported }
	return &store
}

func TestSystem_RoundTrip(t *testing.T) {
	store := fakeClipboard(t, true)

	require.NoError(t, System{}.WriteText("prompt text"))
	assert.Equal(t, "prompt text", *store)

	got, err := System{}.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "prompt text", got)
}

func TestSystem_Unsupported(t *testing.T) {
	fakeClipboard(t, false)

	assert.True(t, Unsupported())
	assert.ErrorIs(t, System{}.WriteText("x"), ErrUnavailable)
	_, err := System{}.ReadText()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSystem_WrapsErrors(t *testing.T) {
	fakeClipboard(t, true)
	boom := errors.New("xclip exited 1")
	writeAll = func(string) error { return boom }

	err := System{}.WriteText("x")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "write clipboard")
}

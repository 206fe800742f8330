package lock

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) *CatalogLock {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(filepath.Join(t.TempDir(), "movies.db"), logger)
}

func TestAcquireRelease(t *testing.T) {
	l := newTestLock(t)

	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())

	// A released lock can be taken again.
	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())
}

func TestSecondAcquireFails(t *testing.T) {
	l := newTestLock(t)

	require.NoError(t, l.Acquire())
	t.Cleanup(func() { _ = l.Release() })

	err := l.Acquire()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in use")
}

func TestStaleLockIsReclaimed(t *testing.T) {
	l := newTestLock(t)

	require.NoError(t, l.Acquire())

	// Age the lock file beyond the stale window.
	old := time.Now().Add(-2 * staleAfter)
	require.NoError(t, os.Chtimes(l.path, old, old))

	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())
}

func TestReleaseWithoutAcquire(t *testing.T) {
	l := newTestLock(t)
	assert.NoError(t, l.Release())
}

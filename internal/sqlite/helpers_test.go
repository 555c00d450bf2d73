package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// fakeClock is a settable clock for deterministic timer tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// setupBackend attaches a backend to an isolated temp directory and detaches
// it when the test ends.
func setupBackend(t *testing.T, opts ...Option) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend(opts...)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

// mustAddTrip creates a trip and returns its ID.
func mustAddTrip(t *testing.T, b *Backend, name string) int64 {
	t.Helper()
	id, err := b.AddTrip(context.Background(), name)
	require.NoError(t, err)
	return id
}

// mustAddRoute creates a route under trip and returns its ID.
func mustAddRoute(t *testing.T, b *Backend, name string, trip int64) int64 {
	t.Helper()
	id, err := b.AddRoute(context.Background(), name, trip)
	require.NoError(t, err)
	return id
}

// mustAddEntry records an entry departing at dep and lasting dur milliseconds.
func mustAddEntry(t *testing.T, b *Backend, trip, route, dep, dur int64) types.Entry {
	t.Helper()
	e, err := b.AddEntry(context.Background(), trip, route, dep, dep+dur)
	require.NoError(t, err)
	return e
}

// countRows returns the number of rows in a SQLite table.
func countRows(t *testing.T, b *Backend, table string) int {
	t.Helper()
	var n int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

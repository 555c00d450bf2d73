package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/routetimer/internal/sqlite"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// fakePrompter answers confirmations and prompts with fixed values and
// records what it was asked.
type fakePrompter struct {
	mu       sync.Mutex
	confirm  bool
	answer   string
	answerOK bool
	asked    []string
}

func (p *fakePrompter) Confirm(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, message)
	return p.confirm
}

func (p *fakePrompter) Prompt(message string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, message)
	return p.answer, p.answerOK
}

// fakeClock is a settable clock handed to the backend.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

// faultyRepo wraps a repository and fails selected calls. With failLists
// set, every single-table list call fails, so a view can only be built from
// ViewTrip.
type faultyRepo struct {
	types.Repository
	failView  error
	failState error
	failLists error
}

func (r *faultyRepo) ViewTrip(ctx context.Context, tripID int64) (types.TripView, error) {
	if r.failView != nil {
		return types.TripView{}, r.failView
	}
	return r.Repository.ViewTrip(ctx, tripID)
}

func (r *faultyRepo) SetUIState(ctx context.Context, trip, route int64) error {
	if r.failState != nil {
		return r.failState
	}
	return r.Repository.SetUIState(ctx, trip, route)
}

func (r *faultyRepo) ListTrips(ctx context.Context) ([]types.Trip, error) {
	if r.failLists != nil {
		return nil, r.failLists
	}
	return r.Repository.ListTrips(ctx)
}

func (r *faultyRepo) ListRoutes(ctx context.Context, tripID int64) ([]types.Route, error) {
	if r.failLists != nil {
		return nil, r.failLists
	}
	return r.Repository.ListRoutes(ctx, tripID)
}

func (r *faultyRepo) ListEntries(ctx context.Context, tripID int64) ([]types.Entry, error) {
	if r.failLists != nil {
		return nil, r.failLists
	}
	return r.Repository.ListEntries(ctx, tripID)
}

func (r *faultyRepo) ListTimers(ctx context.Context) ([]types.Timer, error) {
	if r.failLists != nil {
		return nil, r.failLists
	}
	return r.Repository.ListTimers(ctx)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupBackend attaches a SQLite backend to a temp directory.
func setupBackend(t *testing.T, opts ...sqlite.Option) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend(opts...)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// newSession creates a loaded session over repo.
func newSession(t *testing.T, repo types.Repository, p Prompter) *Session {
	t.Helper()
	s := New(repo, p, quietLogger())
	t.Cleanup(s.Close)
	require.NoError(t, s.Load(context.Background()))
	return s
}

// fixture holds the IDs of a seeded store: two trips, three routes.
type fixture struct {
	home, gym    int64
	r71, r12, r5 int64
}

func seed(t *testing.T, b *sqlite.Backend) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error
	f.home, err = b.AddTrip(ctx, "Home to Work")
	require.NoError(t, err)
	f.gym, err = b.AddTrip(ctx, "Work to Gym")
	require.NoError(t, err)
	f.r71, err = b.AddRoute(ctx, "Route 71", f.home)
	require.NoError(t, err)
	f.r12, err = b.AddRoute(ctx, "Route 12", f.home)
	require.NoError(t, err)
	f.r5, err = b.AddRoute(ctx, "Route 5", f.gym)
	require.NoError(t, err)
	return f
}

func ptr(id int64) *int64 {
	return &id
}

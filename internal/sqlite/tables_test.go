package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

func TestTrips(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	trips, err := b.ListTrips(ctx)
	require.NoError(t, err)
	assert.Empty(t, trips)

	first := mustAddTrip(t, b, "Home to Work")
	second := mustAddTrip(t, b, "  Work to Gym  ")
	assert.Greater(t, second, first)

	trips, err = b.ListTrips(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Trip{
		{ID: first, Name: "Home to Work"},
		{ID: second, Name: "Work to Gym"},
	}, trips)

	_, err = b.AddTrip(ctx, " ")
	assert.ErrorIs(t, err, types.ErrInvalidName)

	assert.ErrorIs(t, b.RemoveTrip(ctx, 999), types.ErrTripNotFound)
}

func TestRoutes(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	home := mustAddTrip(t, b, "Home to Work")
	gym := mustAddTrip(t, b, "Work to Gym")
	r71 := mustAddRoute(t, b, "Route 71", home)
	r5 := mustAddRoute(t, b, "Route 5", gym)
	r12 := mustAddRoute(t, b, "Route 12", home)

	routes, err := b.ListRoutes(ctx, home)
	require.NoError(t, err)
	assert.Equal(t, []types.Route{
		{ID: r71, Name: "Route 71", ParentTrip: home},
		{ID: r12, Name: "Route 12", ParentTrip: home},
	}, routes)

	routes, err = b.ListRoutes(ctx, gym)
	require.NoError(t, err)
	assert.Equal(t, []types.Route{{ID: r5, Name: "Route 5", ParentTrip: gym}}, routes)

	_, err = b.AddRoute(ctx, "Orphan", 999)
	assert.ErrorIs(t, err, types.ErrTripNotFound)
	_, err = b.AddRoute(ctx, "", home)
	assert.ErrorIs(t, err, types.ErrInvalidName)

	assert.ErrorIs(t, b.RemoveRoute(ctx, 999), types.ErrRouteNotFound)
}

func TestRemoveTripCascades(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	home := mustAddTrip(t, b, "Home to Work")
	gym := mustAddTrip(t, b, "Work to Gym")
	r71 := mustAddRoute(t, b, "Route 71", home)
	r12 := mustAddRoute(t, b, "Route 12", home)
	r5 := mustAddRoute(t, b, "Route 5", gym)
	mustAddEntry(t, b, home, r71, 0, 100)
	mustAddEntry(t, b, home, r12, 0, 200)
	kept := mustAddEntry(t, b, gym, r5, 0, 300)
	_, err := b.StartTimer(ctx, home, r71)
	require.NoError(t, err)

	require.NoError(t, b.RemoveTrip(ctx, home))

	trips, err := b.ListTrips(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Trip{{ID: gym, Name: "Work to Gym"}}, trips)

	routes, err := b.ListRoutes(ctx, home)
	require.NoError(t, err)
	assert.Empty(t, routes)
	entries, err := b.ListEntries(ctx, home)
	require.NoError(t, err)
	assert.Empty(t, entries)
	timers, err := b.ListTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers, "timer on a removed trip is removed with it")

	routes, err = b.ListRoutes(ctx, gym)
	require.NoError(t, err)
	assert.Len(t, routes, 1)
	entries, err = b.ListEntries(ctx, gym)
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{kept}, entries)
}

func TestRemoveTripIsAtomic(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	home := mustAddTrip(t, b, "Home to Work")
	r71 := mustAddRoute(t, b, "Route 71", home)
	mustAddEntry(t, b, home, r71, 0, 100)

	// Make the entries delete fail after trips and routes were deleted.
	_, err := b.db.Exec(`CREATE TRIGGER fail_entry_delete BEFORE DELETE ON entries
BEGIN SELECT RAISE(ABORT, 'entry delete refused'); END;`)
	require.NoError(t, err)

	err = b.RemoveTrip(ctx, home)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStoreOperationFailed)

	assert.Equal(t, 1, countRows(t, b, "trips"))
	assert.Equal(t, 1, countRows(t, b, "routes"))
	assert.Equal(t, 1, countRows(t, b, "entries"))

	err = b.RemoveRoute(ctx, r71)
	assert.ErrorIs(t, err, types.ErrStoreOperationFailed)
	assert.Equal(t, 1, countRows(t, b, "routes"))
}

func TestRemoveRouteCascades(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	home := mustAddTrip(t, b, "Home to Work")
	r71 := mustAddRoute(t, b, "Route 71", home)
	r12 := mustAddRoute(t, b, "Route 12", home)
	mustAddEntry(t, b, home, r71, 0, 100)
	kept := mustAddEntry(t, b, home, r12, 0, 200)
	_, err := b.StartTimer(ctx, home, r71)
	require.NoError(t, err)

	require.NoError(t, b.RemoveRoute(ctx, r71))

	routes, err := b.ListRoutes(ctx, home)
	require.NoError(t, err)
	assert.Equal(t, []types.Route{{ID: r12, Name: "Route 12", ParentTrip: home}}, routes)

	entries, err := b.ListEntries(ctx, home)
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{kept}, entries)

	timers, err := b.ListTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func TestEntries(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	home := mustAddTrip(t, b, "Home to Work")
	r71 := mustAddRoute(t, b, "Route 71", home)

	first := mustAddEntry(t, b, home, r71, 1_000, 10_000)
	second := mustAddEntry(t, b, home, r71, 50_000, 20_000)

	entries, err := b.ListEntries(ctx, home)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "most recent first")
	assert.Equal(t, first.ID, entries[1].ID)
	for _, e := range entries {
		assert.Equal(t, e.ArrivalTime-e.DepartureTime, e.Duration)
	}

	_, err = b.AddEntry(ctx, home, r71, 10, 5)
	assert.ErrorIs(t, err, types.ErrInvalidTimes)

	other := mustAddTrip(t, b, "Elsewhere")
	_, err = b.AddEntry(ctx, other, r71, 0, 5)
	assert.ErrorIs(t, err, types.ErrRouteNotFound, "route must belong to the trip")

	require.NoError(t, b.RemoveEntry(ctx, first.ID))
	entries, err = b.ListEntries(ctx, home)
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{second}, entries)

	assert.ErrorIs(t, b.RemoveEntry(ctx, first.ID), types.ErrEntryNotFound)
}

func TestAddEntryClearsTimers(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	home := mustAddTrip(t, b, "Home to Work")
	r71 := mustAddRoute(t, b, "Route 71", home)
	_, err := b.StartTimer(ctx, home, r71)
	require.NoError(t, err)

	mustAddEntry(t, b, home, r71, 0, 100)

	timers, err := b.ListTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func TestTimerRoundTrip(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 7, 45, 0, 0, time.UTC)
	clock := newFakeClock(t0)
	b, _ := setupBackend(t, WithClock(clock.Now))
	ctx := context.Background()

	trip := mustAddTrip(t, b, "Home to Work")
	mustAddRoute(t, b, "Route 12", trip)
	route := mustAddRoute(t, b, "Route 71", trip)

	timer, err := b.StartTimer(ctx, trip, route)
	require.NoError(t, err)
	assert.Equal(t, types.Timer{
		TimerRunning:  types.TimerKey,
		Trip:          trip,
		Route:         route,
		DepartureTime: t0.UnixMilli(),
	}, timer)

	timers, err := b.ListTimers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Timer{timer}, timers)

	clock.Advance(23 * time.Minute)
	t1 := clock.Now()

	entry, err := b.StopTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, trip, entry.Trip)
	assert.Equal(t, route, entry.Route)
	assert.Equal(t, t0.UnixMilli(), entry.DepartureTime)
	assert.Equal(t, t1.UnixMilli(), entry.ArrivalTime)
	assert.Equal(t, t1.UnixMilli()-t0.UnixMilli(), entry.Duration)

	entries, err := b.ListEntries(ctx, trip)
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{entry}, entries)

	timers, err = b.ListTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func TestStopTimerAfterClockMovesBack(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 7, 45, 0, 0, time.UTC)
	clock := newFakeClock(t0)
	b, _ := setupBackend(t, WithClock(clock.Now))
	ctx := context.Background()

	trip := mustAddTrip(t, b, "Home to Work")
	route := mustAddRoute(t, b, "Route 71", trip)

	_, err := b.StartTimer(ctx, trip, route)
	require.NoError(t, err)

	clock.Advance(-10 * time.Minute)

	entry, err := b.StopTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, t0.UnixMilli(), entry.DepartureTime)
	assert.Equal(t, t0.UnixMilli(), entry.ArrivalTime, "arrival is clamped to departure")
	assert.Zero(t, entry.Duration)

	timers, err := b.ListTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers)

	_, err = b.StartTimer(ctx, trip, route)
	assert.NoError(t, err, "a new timer can start once the old one is stopped")
}

func TestStartTimerErrors(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	home := mustAddTrip(t, b, "Home to Work")
	gym := mustAddTrip(t, b, "Work to Gym")
	r71 := mustAddRoute(t, b, "Route 71", home)

	tests := []struct {
		name    string
		trip    int64
		route   int64
		wantErr error
	}{
		{name: "unknown trip", trip: 999, route: r71, wantErr: types.ErrTripNotFound},
		{name: "unknown route", trip: home, route: 999, wantErr: types.ErrRouteNotFound},
		{name: "route of another trip", trip: gym, route: r71, wantErr: types.ErrRouteNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.StartTimer(ctx, tt.trip, tt.route)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("second start is rejected", func(t *testing.T) {
		_, err := b.StartTimer(ctx, home, r71)
		require.NoError(t, err)
		_, err = b.StartTimer(ctx, home, r71)
		assert.ErrorIs(t, err, types.ErrTimerRunning)
		assert.Equal(t, 1, countRows(t, b, "timers"))
	})

	t.Run("stop without timer", func(t *testing.T) {
		_, err := b.StopTimer(ctx)
		require.NoError(t, err)
		_, err = b.StopTimer(ctx)
		assert.ErrorIs(t, err, types.ErrNoTimer)
	})
}

func TestUIState(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	_, err := b.GetUIState(ctx)
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, b.SetUIState(ctx, 1, 5))
	require.NoError(t, b.SetUIState(ctx, 2, 7))

	state, err := b.GetUIState(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.UIState{ID: types.UIStateID, Trip: 2, Route: 7}, state)
	assert.Equal(t, 1, countRows(t, b, "ui_state"))
}

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	tests := []struct {
		name      string
		departure int64
		arrival   int64
		want      int64
		wantErr   error
	}{
		{name: "duration is arrival minus departure", departure: 1_000, arrival: 61_000, want: 60_000},
		{name: "zero length trip", departure: 5_000, arrival: 5_000, want: 0},
		{name: "arrival before departure", departure: 10_000, arrival: 9_999, wantErr: ErrInvalidTimes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEntry(1, 2, tt.departure, tt.arrival)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Duration)
			assert.Equal(t, e.ArrivalTime-e.DepartureTime, e.Duration)
			assert.Equal(t, int64(1), e.Trip)
			assert.Equal(t, int64(2), e.Route)
		})
	}
}

func TestTimerStop(t *testing.T) {
	timer := Timer{TimerRunning: TimerKey, Trip: 3, Route: 7, DepartureTime: 100}

	e, err := timer.Stop(450)
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.Trip)
	assert.Equal(t, int64(7), e.Route)
	assert.Equal(t, int64(350), e.Duration)

	_, err = timer.Stop(99)
	assert.ErrorIs(t, err, ErrInvalidTimes)
}

func TestTimerElapsed(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	timer := Timer{TimerRunning: TimerKey, DepartureTime: EpochMillis(start)}
	assert.Equal(t, 90*time.Second, timer.Elapsed(start.Add(90*time.Second)))
}

func TestSentinelWrapping(t *testing.T) {
	assert.ErrorIs(t, ErrTripNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrRouteNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrEntryNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrNoTrips, ErrEmptyCollection)
	assert.ErrorIs(t, ErrNoRoutes, ErrEmptyCollection)
	assert.NotErrorIs(t, ErrNoTrips, ErrNotFound)
}

func TestValidateName(t *testing.T) {
	got, err := ValidateName("  Home to Work ")
	require.NoError(t, err)
	assert.Equal(t, "Home to Work", got)

	_, err = ValidateName("   ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestExportTable(t *testing.T) {
	doc := Export{
		{TableName: TripsTable},
		{TableName: RoutesTable},
	}
	d, ok := doc.Table(RoutesTable)
	assert.True(t, ok)
	assert.Equal(t, RoutesTable, d.TableName)

	_, ok = doc.Table(StateTable)
	assert.False(t, ok)
}

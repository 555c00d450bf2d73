// This file implements the timers table accessors.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// ListTimers returns the running timers. The primary key limits the table
// to at most one row.
func (b *Backend) ListTimers(ctx context.Context) ([]types.Timer, error) {
	var timers []types.Timer
	err := b.read(func(db *sql.DB) error {
		var err error
		timers, err = listTimers(ctx, db)
		return err
	})
	return timers, err
}

func listTimers(ctx context.Context, q queryer) ([]types.Timer, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT timer_running, trip, route, departure_time FROM timers ORDER BY timer_running")
	if err != nil {
		return nil, storeErr("listing timers", err)
	}
	defer rows.Close()

	timers := []types.Timer{}
	for rows.Next() {
		var t types.Timer
		if err := rows.Scan(&t.TimerRunning, &t.Trip, &t.Route, &t.DepartureTime); err != nil {
			return nil, storeErr("scanning timer", err)
		}
		timers = append(timers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("listing timers", err)
	}
	return timers, nil
}

// StartTimer starts the timer for trip and route with the departure time
// taken from the backend clock. The route must belong to the trip.
// Returns ErrTimerRunning if a timer already exists.
func (b *Backend) StartTimer(ctx context.Context, trip, route int64) (types.Timer, error) {
	t := types.Timer{
		TimerRunning: types.TimerKey,
		Trip:         trip,
		Route:        route,
	}

	err := b.withTx(ctx, "starting timer", func(tx *sql.Tx) error {
		running, err := rowExists(ctx, tx, "SELECT 1 FROM timers")
		if err != nil {
			return storeErr("checking timers", err)
		}
		if running {
			return types.ErrTimerRunning
		}
		if err := checkRouteInTrip(ctx, tx, trip, route); err != nil {
			return err
		}

		t.DepartureTime = b.nowMillis()
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timers (timer_running, trip, route, departure_time) VALUES (?, ?, ?, ?)",
			t.TimerRunning, t.Trip, t.Route, t.DepartureTime); err != nil {
			return storeErr("inserting timer", err)
		}
		return nil
	})
	if err != nil {
		return types.Timer{}, err
	}
	return t, nil
}

// StopTimer converts the running timer into an entry arriving now and
// clears the timers table, in one transaction. Arrival is never earlier than
// departure.
// Returns ErrNoTimer if no timer is running.
func (b *Backend) StopTimer(ctx context.Context) (types.Entry, error) {
	var e types.Entry
	err := b.withTx(ctx, "stopping timer", func(tx *sql.Tx) error {
		var t types.Timer
		err := tx.QueryRowContext(ctx,
			"SELECT timer_running, trip, route, departure_time FROM timers ORDER BY timer_running LIMIT 1").
			Scan(&t.TimerRunning, &t.Trip, &t.Route, &t.DepartureTime)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNoTimer
		}
		if err != nil {
			return storeErr("reading timer", err)
		}

		// A clock set back since departure records a zero-length trip
		// rather than leaving the timer impossible to stop.
		e, err = t.Stop(max(b.nowMillis(), t.DepartureTime))
		if err != nil {
			return err
		}
		return insertEntryClearTimers(ctx, tx, &e)
	})
	if err != nil {
		return types.Entry{}, err
	}
	return e, nil
}

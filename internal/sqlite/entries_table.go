// This file implements the entries table accessors.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

const entryColumns = "id, trip, route, departure_time, arrival_time, duration"

// ListEntries returns the entries of tripID in reverse creation order.
func (b *Backend) ListEntries(ctx context.Context, tripID int64) ([]types.Entry, error) {
	var entries []types.Entry
	err := b.read(func(db *sql.DB) error {
		var err error
		entries, err = queryEntries(ctx, db,
			"SELECT "+entryColumns+" FROM entries WHERE trip = ? ORDER BY id DESC", tripID)
		return err
	})
	return entries, err
}

func queryEntries(ctx context.Context, q queryer, query string, args ...any) ([]types.Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("listing entries", err)
	}
	defer rows.Close()

	entries := []types.Entry{}
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.ID, &e.Trip, &e.Route, &e.DepartureTime, &e.ArrivalTime, &e.Duration); err != nil {
			return nil, storeErr("scanning entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("listing entries", err)
	}
	return entries, nil
}

// AddEntry records a completed entry and clears the timers table in the
// same transaction, so no timer is left running afterwards.
// Returns ErrInvalidTimes if arrivalTime precedes departureTime.
func (b *Backend) AddEntry(ctx context.Context, trip, route, departureTime, arrivalTime int64) (types.Entry, error) {
	e, err := types.NewEntry(trip, route, departureTime, arrivalTime)
	if err != nil {
		return types.Entry{}, err
	}

	err = b.withTx(ctx, "adding entry", func(tx *sql.Tx) error {
		if err := checkRouteInTrip(ctx, tx, trip, route); err != nil {
			return err
		}
		return insertEntryClearTimers(ctx, tx, &e)
	})
	if err != nil {
		return types.Entry{}, err
	}
	return e, nil
}

// insertEntryClearTimers inserts e, sets its ID, and empties the timers table.
func insertEntryClearTimers(ctx context.Context, tx *sql.Tx, e *types.Entry) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO entries (trip, route, departure_time, arrival_time, duration) VALUES (?, ?, ?, ?, ?)",
		e.Trip, e.Route, e.DepartureTime, e.ArrivalTime, e.Duration)
	if err != nil {
		return storeErr("inserting entry", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return storeErr("reading entry id", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM timers"); err != nil {
		return storeErr("clearing timers", err)
	}
	return nil
}

// RemoveEntry deletes one entry.
// Returns ErrEntryNotFound if no entry has the given ID.
func (b *Backend) RemoveEntry(ctx context.Context, id int64) error {
	return b.withTx(ctx, "removing entry", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
		if err != nil {
			return storeErr("deleting entry", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storeErr("deleting entry", err)
		}
		if n == 0 {
			return fmt.Errorf("entry %d: %w", id, types.ErrEntryNotFound)
		}
		return nil
	})
}

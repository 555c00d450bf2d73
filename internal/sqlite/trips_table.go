// This file implements the trips table accessors.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowExists reports whether query returns at least one row.
func rowExists(ctx context.Context, q queryer, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListTrips returns all trips ordered by ID ascending.
func (b *Backend) ListTrips(ctx context.Context) ([]types.Trip, error) {
	var trips []types.Trip
	err := b.read(func(db *sql.DB) error {
		var err error
		trips, err = listTrips(ctx, db)
		return err
	})
	return trips, err
}

func listTrips(ctx context.Context, q queryer) ([]types.Trip, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name FROM trips ORDER BY id")
	if err != nil {
		return nil, storeErr("listing trips", err)
	}
	defer rows.Close()

	trips := []types.Trip{}
	for rows.Next() {
		var t types.Trip
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, storeErr("scanning trip", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("listing trips", err)
	}
	return trips, nil
}

// AddTrip creates a trip and returns its ID.
// Returns ErrInvalidName if name is blank.
func (b *Backend) AddTrip(ctx context.Context, name string) (int64, error) {
	name, err := types.ValidateName(name)
	if err != nil {
		return 0, err
	}

	var id int64
	err = b.withTx(ctx, "adding trip", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO trips (name) VALUES (?)", name)
		if err != nil {
			return storeErr("inserting trip", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return storeErr("reading trip id", err)
		}
		return nil
	})
	return id, err
}

// RemoveTrip deletes the trip together with its routes, its entries and a
// timer running on it, in one transaction.
// Returns ErrTripNotFound if no trip has the given ID.
func (b *Backend) RemoveTrip(ctx context.Context, id int64) error {
	return b.withTx(ctx, "removing trip", func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "SELECT 1 FROM trips WHERE id = ?", id)
		if err != nil {
			return storeErr("checking trip", err)
		}
		if !ok {
			return fmt.Errorf("trip %d: %w", id, types.ErrTripNotFound)
		}

		for _, stmt := range []struct{ what, query string }{
			{"trip", "DELETE FROM trips WHERE id = ?"},
			{"trip routes", "DELETE FROM routes WHERE parent_trip = ?"},
			{"trip entries", "DELETE FROM entries WHERE trip = ?"},
			{"trip timer", "DELETE FROM timers WHERE trip = ?"},
		} {
			if _, err := tx.ExecContext(ctx, stmt.query, id); err != nil {
				return storeErr("deleting "+stmt.what, err)
			}
		}
		return nil
	})
}

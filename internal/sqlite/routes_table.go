// This file implements the routes table accessors.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// ListRoutes returns the routes whose parent is tripID, ordered by ID.
func (b *Backend) ListRoutes(ctx context.Context, tripID int64) ([]types.Route, error) {
	var routes []types.Route
	err := b.read(func(db *sql.DB) error {
		var err error
		routes, err = listRoutes(ctx, db, tripID)
		return err
	})
	return routes, err
}

func listRoutes(ctx context.Context, q queryer, tripID int64) ([]types.Route, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, parent_trip FROM routes WHERE parent_trip = ? ORDER BY id", tripID)
	if err != nil {
		return nil, storeErr("listing routes", err)
	}
	defer rows.Close()

	routes := []types.Route{}
	for rows.Next() {
		var r types.Route
		if err := rows.Scan(&r.ID, &r.Name, &r.ParentTrip); err != nil {
			return nil, storeErr("scanning route", err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("listing routes", err)
	}
	return routes, nil
}

// AddRoute creates a route under parentTrip and returns its ID.
// Returns ErrInvalidName for a blank name and ErrTripNotFound if the parent
// trip does not exist.
func (b *Backend) AddRoute(ctx context.Context, name string, parentTrip int64) (int64, error) {
	name, err := types.ValidateName(name)
	if err != nil {
		return 0, err
	}

	var id int64
	err = b.withTx(ctx, "adding route", func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "SELECT 1 FROM trips WHERE id = ?", parentTrip)
		if err != nil {
			return storeErr("checking parent trip", err)
		}
		if !ok {
			return fmt.Errorf("trip %d: %w", parentTrip, types.ErrTripNotFound)
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO routes (name, parent_trip) VALUES (?, ?)", name, parentTrip)
		if err != nil {
			return storeErr("inserting route", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return storeErr("reading route id", err)
		}
		return nil
	})
	return id, err
}

// RemoveRoute deletes the route together with its entries and a timer
// running on it, in one transaction.
// Returns ErrRouteNotFound if no route has the given ID.
func (b *Backend) RemoveRoute(ctx context.Context, id int64) error {
	return b.withTx(ctx, "removing route", func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "SELECT 1 FROM routes WHERE id = ?", id)
		if err != nil {
			return storeErr("checking route", err)
		}
		if !ok {
			return fmt.Errorf("route %d: %w", id, types.ErrRouteNotFound)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM routes WHERE id = ?", id); err != nil {
			return storeErr("deleting route", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE route = ?", id); err != nil {
			return storeErr("deleting route entries", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM timers WHERE route = ?", id); err != nil {
			return storeErr("deleting route timer", err)
		}
		return nil
	})
}

// checkRouteInTrip verifies that route exists and belongs to trip.
func checkRouteInTrip(ctx context.Context, q queryer, trip, route int64) error {
	ok, err := rowExists(ctx, q, "SELECT 1 FROM trips WHERE id = ?", trip)
	if err != nil {
		return storeErr("checking trip", err)
	}
	if !ok {
		return fmt.Errorf("trip %d: %w", trip, types.ErrTripNotFound)
	}
	ok, err = rowExists(ctx, q, "SELECT 1 FROM routes WHERE id = ? AND parent_trip = ?", route, trip)
	if err != nil {
		return storeErr("checking route", err)
	}
	if !ok {
		return fmt.Errorf("route %d in trip %d: %w", route, trip, types.ErrRouteNotFound)
	}
	return nil
}

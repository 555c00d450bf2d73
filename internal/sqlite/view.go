// This file implements the single-transaction trip view read.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// ViewTrip reads the trips, the timers, and the routes and entries of tripID
// from one transaction. A tripID of 0 or one that no longer exists falls
// back to the first trip; an empty store yields Trip 0 and empty lists.
func (b *Backend) ViewTrip(ctx context.Context, tripID int64) (types.TripView, error) {
	v := types.TripView{Routes: []types.Route{}, Entries: []types.Entry{}}
	err := b.readTx(ctx, "viewing trip", func(tx *sql.Tx) error {
		var err error
		if v.Trips, err = listTrips(ctx, tx); err != nil {
			return err
		}
		if v.Timers, err = listTimers(ctx, tx); err != nil {
			return err
		}
		if len(v.Trips) == 0 {
			return nil
		}

		v.Trip = v.Trips[0].ID
		for _, t := range v.Trips {
			if t.ID == tripID {
				v.Trip = tripID
				break
			}
		}
		if v.Routes, err = listRoutes(ctx, tx, v.Trip); err != nil {
			return err
		}
		v.Entries, err = queryEntries(ctx, tx,
			"SELECT "+entryColumns+" FROM entries WHERE trip = ? ORDER BY id DESC", v.Trip)
		return err
	})
	if err != nil {
		return types.TripView{}, err
	}
	return v, nil
}

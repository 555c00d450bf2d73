// This file implements the singleton ui_state table accessors.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// GetUIState returns the persisted trip and route selection.
// Returns ErrNotFound if no selection has been saved.
func (b *Backend) GetUIState(ctx context.Context) (types.UIState, error) {
	var s types.UIState
	err := b.read(func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			"SELECT id, trip, route FROM ui_state WHERE id = ?", types.UIStateID).
			Scan(&s.ID, &s.Trip, &s.Route)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("ui state: %w", types.ErrNotFound)
		}
		if err != nil {
			return storeErr("reading ui state", err)
		}
		return nil
	})
	return s, err
}

// SetUIState clears the ui_state table and writes the single row anew in one
// transaction. The row is never patched in place.
func (b *Backend) SetUIState(ctx context.Context, trip, route int64) error {
	return b.withTx(ctx, "saving ui state", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM ui_state"); err != nil {
			return storeErr("clearing ui state", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO ui_state (id, trip, route) VALUES (?, ?, ?)",
			types.UIStateID, trip, route); err != nil {
			return storeErr("inserting ui state", err)
		}
		return nil
	})
}

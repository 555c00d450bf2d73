package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables. Every statement is idempotent so the schema can
// be applied on each open.
const (
	createTrips = `CREATE TABLE IF NOT EXISTS trips (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);`

	createRoutes = `CREATE TABLE IF NOT EXISTS routes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    parent_trip INTEGER NOT NULL
);`

	createTimers = `CREATE TABLE IF NOT EXISTS timers (
    timer_running INTEGER PRIMARY KEY,
    trip INTEGER NOT NULL,
    route INTEGER NOT NULL,
    departure_time INTEGER NOT NULL
);`

	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    trip INTEGER NOT NULL,
    route INTEGER NOT NULL,
    departure_time INTEGER NOT NULL,
    arrival_time INTEGER NOT NULL,
    duration INTEGER NOT NULL
);`

	createUIState = `CREATE TABLE IF NOT EXISTS ui_state (
    id INTEGER PRIMARY KEY,
    trip INTEGER NOT NULL,
    route INTEGER NOT NULL
);`
)

// Index DDL for the lookups the repository performs.
const (
	idxRoutesParentTrip = `CREATE INDEX IF NOT EXISTS idx_routes_parent_trip ON routes(parent_trip);`
	idxEntriesTrip      = `CREATE INDEX IF NOT EXISTS idx_entries_trip ON entries(trip);`
	idxEntriesRoute     = `CREATE INDEX IF NOT EXISTS idx_entries_route ON entries(route);`
	idxEntriesDeparture = `CREATE INDEX IF NOT EXISTS idx_entries_departure_time ON entries(departure_time);`
	idxEntriesArrival   = `CREATE INDEX IF NOT EXISTS idx_entries_arrival_time ON entries(arrival_time);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createTrips,
	createRoutes,
	createTimers,
	createEntries,
	createUIState,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRoutesParentTrip,
	idxEntriesTrip,
	idxEntriesRoute,
	idxEntriesDeparture,
	idxEntriesArrival,
}

// initSchema creates any missing tables and indexes in one transaction.
func initSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaDDL {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}

package types

import "context"

// Repository provides typed access to the five route timer tables.
// Multi-table mutations run in a single transaction: either every affected
// row changes or none does.
type Repository interface {
	// ListTrips returns all trips ordered by ID ascending.
	ListTrips(ctx context.Context) ([]Trip, error)

	// ListRoutes returns the routes of tripID ordered by ID ascending.
	ListRoutes(ctx context.Context, tripID int64) ([]Route, error)

	// ListEntries returns the entries of tripID, most recent first.
	ListEntries(ctx context.Context, tripID int64) ([]Entry, error)

	// ListTimers returns the running timers (zero or one).
	ListTimers(ctx context.Context) ([]Timer, error)

	// ViewTrip reads every trip, the timers, and the routes and entries of
	// tripID in one transaction. When tripID is 0 or no longer exists the
	// first trip is read instead.
	ViewTrip(ctx context.Context, tripID int64) (TripView, error)

	// AddTrip creates a trip and returns its ID.
	AddTrip(ctx context.Context, name string) (int64, error)

	// RemoveTrip deletes a trip with its routes, entries and timer.
	RemoveTrip(ctx context.Context, id int64) error

	// AddRoute creates a route under parentTrip and returns its ID.
	AddRoute(ctx context.Context, name string, parentTrip int64) (int64, error)

	// RemoveRoute deletes a route with its entries and timer.
	RemoveRoute(ctx context.Context, id int64) error

	// AddEntry records a completed entry and clears the timers table.
	AddEntry(ctx context.Context, trip, route, departureTime, arrivalTime int64) (Entry, error)

	// RemoveEntry deletes one entry.
	RemoveEntry(ctx context.Context, id int64) error

	// StartTimer starts the timer for trip and route at the current time.
	// Returns ErrTimerRunning if a timer already exists.
	StartTimer(ctx context.Context, trip, route int64) (Timer, error)

	// StopTimer converts the running timer into an entry.
	// Returns ErrNoTimer if none is running.
	StopTimer(ctx context.Context) (Entry, error)

	// GetUIState returns the persisted selection, or ErrNotFound.
	GetUIState(ctx context.Context) (UIState, error)

	// SetUIState replaces the persisted selection.
	SetUIState(ctx context.Context, trip, route int64) error

	// Export dumps every table from a single consistent snapshot.
	Export(ctx context.Context) (Export, error)

	// Import replaces the contents of every table with doc.
	Import(ctx context.Context, doc Export) error

	// Reset deletes the store and reinitializes an empty schema.
	Reset(ctx context.Context) error
}

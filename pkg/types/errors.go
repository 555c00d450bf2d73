package types

import (
	"errors"
	"fmt"
)

// Store errors. ErrStoreUnavailable is fatal for a session; ErrStoreOperationFailed
// marks a single failed query or transaction and leaves the store unchanged.
var (
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrStoreOperationFailed = errors.New("store operation failed")
	ErrAlreadyAttached      = errors.New("store is already attached")
)

// Lookup errors. The specific errors wrap ErrNotFound and ErrEmptyCollection
// so callers can test either the general or the specific condition.
var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyCollection = errors.New("empty collection")

	ErrTripNotFound  = fmt.Errorf("trip %w", ErrNotFound)
	ErrRouteNotFound = fmt.Errorf("route %w", ErrNotFound)
	ErrEntryNotFound = fmt.Errorf("entry %w", ErrNotFound)

	ErrNoTrips  = fmt.Errorf("no trips: %w", ErrEmptyCollection)
	ErrNoRoutes = fmt.Errorf("no routes: %w", ErrEmptyCollection)
)

// Operation errors.
var (
	ErrTimerRunning = errors.New("a timer is already running")
	ErrNoTimer      = errors.New("no timer is running")
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidTimes = errors.New("arrival time precedes departure time")
	ErrUnknownTable = errors.New("unknown table")
	ErrInvalidDoc   = errors.New("invalid export document")
	ErrCancelled    = errors.New("cancelled")
)

package types

import "time"

// Entry is a completed timing record. It is immutable once created; the
// duration is computed by NewEntry and never recomputed.
type Entry struct {
	ID            int64 `json:"id"`
	Trip          int64 `json:"trip"`
	Route         int64 `json:"route"`
	DepartureTime int64 `json:"departureTime"`
	ArrivalTime   int64 `json:"arrivalTime"`
	Duration      int64 `json:"duration"`
}

// NewEntry builds an entry for trip and route with duration
// arrivalTime - departureTime. The ID is assigned by the store.
func NewEntry(trip, route, departureTime, arrivalTime int64) (Entry, error) {
	if arrivalTime < departureTime {
		return Entry{}, ErrInvalidTimes
	}
	return Entry{
		Trip:          trip,
		Route:         route,
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		Duration:      arrivalTime - departureTime,
	}, nil
}

// Departed returns the departure time as a time.Time.
func (e Entry) Departed() time.Time {
	return time.UnixMilli(e.DepartureTime)
}

// Arrived returns the arrival time as a time.Time.
func (e Entry) Arrived() time.Time {
	return time.UnixMilli(e.ArrivalTime)
}

package types

import "time"

// TimerKey is the only primary key value of the timers table. Keying every
// timer on the same value is what limits the table to one running timer.
const TimerKey = 1

// Timer is an in-progress, not yet completed timing session.
// Times are epoch milliseconds.
type Timer struct {
	TimerRunning  int64 `json:"timerRunning"`
	Trip          int64 `json:"trip"`
	Route         int64 `json:"route"`
	DepartureTime int64 `json:"departureTime"`
}

// Stop converts the timer into an entry arriving at arrivalTime.
// Returns ErrInvalidTimes if arrivalTime precedes the departure.
func (t Timer) Stop(arrivalTime int64) (Entry, error) {
	return NewEntry(t.Trip, t.Route, t.DepartureTime, arrivalTime)
}

// Elapsed returns how long the timer has been running at now.
func (t Timer) Elapsed(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-t.DepartureTime) * time.Millisecond
}

// EpochMillis converts t to epoch milliseconds, the unit of every stored time.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

package types

// TripView is everything needed to display one trip, read from a single
// consistent state of the store.
type TripView struct {
	Trips  []Trip  `json:"trips"`
	Timers []Timer `json:"timers"`

	// Trip is the trip whose routes and entries were read. It is 0 when the
	// store has no trips.
	Trip    int64   `json:"trip"`
	Routes  []Route `json:"routes"`
	Entries []Entry `json:"entries"`
}

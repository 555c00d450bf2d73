package types

// UIStateID is the primary key of the single ui_state row.
const UIStateID = 0

// UIState remembers the last selected trip and route between sessions.
// A zero Route means no route was selected.
type UIState struct {
	ID    int64 `json:"id"`
	Trip  int64 `json:"trip"`
	Route int64 `json:"route"`
}

// RouteStats holds duration statistics for one route, in milliseconds.
type RouteStats struct {
	Route   int64   `json:"route"`
	Name    string  `json:"name"`
	Fastest int64   `json:"fastest"`
	Slowest int64   `json:"slowest"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

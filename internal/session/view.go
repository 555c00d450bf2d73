package session

import (
	"slices"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// EntryView is an entry labelled with the name of its route.
type EntryView struct {
	types.Entry
	RouteName string `json:"routeName"`
}

// View is the in-memory mirror of the store for the selected trip. It is
// rebuilt wholesale after every operation and never patched.
type View struct {
	Trips   []types.Trip       `json:"trips"`
	Routes  []types.Route      `json:"routes"`
	Entries []EntryView        `json:"entries"`
	Timers  []types.Timer      `json:"timers"`
	Stats   []types.RouteStats `json:"stats"`

	// Trip and Route are nil when there is nothing to select.
	Trip  *int64 `json:"trip"`
	Route *int64 `json:"route"`
}

// Empty reports whether there are no trips.
func (v View) Empty() bool {
	return len(v.Trips) == 0
}

// Running returns the running timer, if any.
func (v View) Running() (types.Timer, bool) {
	if len(v.Timers) == 0 {
		return types.Timer{}, false
	}
	return v.Timers[0], true
}

// SelectedTrip returns the selected trip.
func (v View) SelectedTrip() (types.Trip, bool) {
	if v.Trip == nil {
		return types.Trip{}, false
	}
	for _, t := range v.Trips {
		if t.ID == *v.Trip {
			return t, true
		}
	}
	return types.Trip{}, false
}

// SelectedRoute returns the selected route.
func (v View) SelectedRoute() (types.Route, bool) {
	if v.Route == nil {
		return types.Route{}, false
	}
	for _, r := range v.Routes {
		if r.ID == *v.Route {
			return r, true
		}
	}
	return types.Route{}, false
}

func (v View) hasTrip(id int64) bool {
	return slices.ContainsFunc(v.Trips, func(t types.Trip) bool { return t.ID == id })
}

func (v View) hasRoute(id int64) bool {
	return slices.ContainsFunc(v.Routes, func(r types.Route) bool { return r.ID == id })
}

func (v View) hasEntry(id int64) bool {
	return slices.ContainsFunc(v.Entries, func(e EntryView) bool { return e.ID == id })
}

// clone returns a copy of v that shares no memory with it.
func (v View) clone() View {
	c := View{
		Trips:   slices.Clone(v.Trips),
		Routes:  slices.Clone(v.Routes),
		Entries: slices.Clone(v.Entries),
		Timers:  slices.Clone(v.Timers),
		Stats:   slices.Clone(v.Stats),
	}
	if v.Trip != nil {
		id := *v.Trip
		c.Trip = &id
	}
	if v.Route != nil {
		id := *v.Route
		c.Route = &id
	}
	return c
}

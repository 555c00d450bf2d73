// Package stats computes per-route duration statistics from timing entries.
package stats

import (
	"fmt"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// Compute returns fastest, slowest and average durations for every route in
// routes that has at least one entry, in route listing order. Routes without
// entries are left out. Entries whose route is not in routes are ignored;
// callers pass the routes and entries of a single trip.
func Compute(routes []types.Route, entries []types.Entry) []types.RouteStats {
	durations := make(map[int64][]int64, len(routes))
	for _, e := range entries {
		durations[e.Route] = append(durations[e.Route], e.Duration)
	}

	out := []types.RouteStats{}
	for _, r := range routes {
		ds := durations[r.ID]
		if len(ds) == 0 {
			continue
		}
		s := types.RouteStats{
			Route:   r.ID,
			Name:    r.Name,
			Fastest: ds[0],
			Slowest: ds[0],
			Count:   len(ds),
		}
		var sum int64
		for _, d := range ds {
			sum += d
			s.Fastest = min(s.Fastest, d)
			s.Slowest = max(s.Slowest, d)
		}
		s.Average = float64(sum) / float64(len(ds))
		out = append(out, s)
	}
	return out
}

// RouteName returns the name of route id in routes.
// Returns ErrRouteNotFound instead of a blank name when id is absent.
func RouteName(routes []types.Route, id int64) (string, error) {
	for _, r := range routes {
		if r.ID == id {
			return r.Name, nil
		}
	}
	return "", fmt.Errorf("route %d: %w", id, types.ErrRouteNotFound)
}

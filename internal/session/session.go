// Package session holds the selected trip and route and the in-memory view
// of the store, and orchestrates read-after-write refreshes. All operations
// of a Session run one at a time, in submission order.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/routetimer/internal/stats"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// Session owns the view for one user of one store.
type Session struct {
	repo     types.Repository
	prompter Prompter
	log      *slog.Logger
	id       string
	q        *queue

	mu     sync.RWMutex
	view   View
	halted error
}

// New creates a session over repo. Call Load to populate the view and Close
// when done.
func New(repo types.Repository, prompter Prompter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := newSessionID()
	return &Session{
		repo:     repo,
		prompter: prompter,
		log:      logger.With("session", id),
		id:       id,
		q:        newQueue(),
	}
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ID returns the session identifier attached to every log line.
func (s *Session) ID() string {
	return s.id
}

// Close stops the session worker. It does not detach the repository.
func (s *Session) Close() {
	s.q.close()
}

// Snapshot returns a copy of the current view.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.clone()
}

// selection names the trip and route a refresh should try to select. Zero
// means "first available". A strict field turns a missing ID into an error
// instead of a fallback.
type selection struct {
	trip        int64
	route       int64
	strictTrip  bool
	strictRoute bool
}

// current returns the selection held by the view.
func (s *Session) current() selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sel selection
	if s.view.Trip != nil {
		sel.trip = *s.view.Trip
	}
	if s.view.Route != nil {
		sel.route = *s.view.Route
	}
	return sel
}

// run executes fn on the session worker unless the store was lost.
func (s *Session) run(ctx context.Context, op string, fn func() error) error {
	err := s.q.do(ctx, func() error {
		s.mu.RLock()
		halted := s.halted
		s.mu.RUnlock()
		if halted != nil {
			return halted
		}
		return fn()
	})
	return s.observe(op, err)
}

// observe logs store failures. ErrStoreUnavailable halts the session so that
// every later operation fails fast.
func (s *Session) observe(op string, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, types.ErrStoreUnavailable):
		s.mu.Lock()
		if s.halted == nil {
			s.halted = err
			s.log.Error("store unavailable, halting session", "op", op, "error", err)
		}
		s.mu.Unlock()
	case errors.Is(err, types.ErrStoreOperationFailed):
		s.log.Error("store operation failed", "op", op, "error", err)
	default:
		s.log.Debug("operation rejected", "op", op, "error", err)
	}
	return err
}

// refresh re-reads the store for sel, persists the resulting selection and
// only then replaces the view. On any failure the previous view stays.
func (s *Session) refresh(ctx context.Context, sel selection) error {
	v, err := s.build(ctx, sel)
	if err != nil {
		return err
	}
	if v.Trip != nil {
		var route int64
		if v.Route != nil {
			route = *v.Route
		}
		if err := s.repo.SetUIState(ctx, *v.Trip, route); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return nil
}

// build reads a fresh view for sel from the store. Everything in the view
// comes from one read of the repository, so trips, routes, entries and the
// timer always agree with each other.
func (s *Session) build(ctx context.Context, sel selection) (View, error) {
	tv, err := s.repo.ViewTrip(ctx, sel.trip)
	if err != nil {
		return View{}, err
	}
	v := View{
		Trips:   tv.Trips,
		Timers:  tv.Timers,
		Routes:  []types.Route{},
		Entries: []EntryView{},
		Stats:   []types.RouteStats{},
	}

	if len(tv.Trips) == 0 {
		if sel.strictTrip {
			return View{}, types.ErrNoTrips
		}
		return v, nil
	}

	trip := tv.Trip
	if sel.trip != 0 && sel.trip != trip {
		if sel.strictTrip {
			return View{}, fmt.Errorf("trip %d: %w", sel.trip, types.ErrTripNotFound)
		}
		s.log.Debug("selected trip is gone, falling back to first trip", "trip", sel.trip, "fallback", trip)
	}
	v.Trip = &trip

	if tv.Routes != nil {
		v.Routes = tv.Routes
	}
	if len(v.Routes) > 0 {
		route := v.Routes[0].ID
		if sel.route != 0 {
			if v.hasRoute(sel.route) {
				route = sel.route
			} else if sel.strictRoute {
				return View{}, fmt.Errorf("route %d in trip %d: %w", sel.route, trip, types.ErrRouteNotFound)
			} else {
				s.log.Debug("selected route is gone, falling back to first route", "route", sel.route, "fallback", route)
			}
		}
		v.Route = &route
	} else if sel.strictRoute {
		return View{}, types.ErrNoRoutes
	}

	for _, e := range tv.Entries {
		name, err := stats.RouteName(v.Routes, e.Route)
		if err != nil {
			return View{}, fmt.Errorf("labelling entry %d: %w", e.ID, err)
		}
		v.Entries = append(v.Entries, EntryView{Entry: e, RouteName: name})
	}
	v.Stats = stats.Compute(v.Routes, tv.Entries)
	return v, nil
}

// Load performs the initial load: the persisted trip and route are selected
// when they still exist, otherwise the first trip and its first route.
// An empty store yields an empty view, not an error.
func (s *Session) Load(ctx context.Context) error {
	return s.run(ctx, "load", func() error {
		return s.load(ctx)
	})
}

func (s *Session) load(ctx context.Context) error {
	state, err := s.repo.GetUIState(ctx)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return err
	}
	return s.refresh(ctx, selection{trip: state.Trip, route: state.Route})
}

// SelectTrip switches to trip id and selects its first route.
// Returns ErrTripNotFound if the trip does not exist.
func (s *Session) SelectTrip(ctx context.Context, id int64) error {
	return s.run(ctx, "select trip", func() error {
		return s.refresh(ctx, selection{trip: id, strictTrip: true})
	})
}

// SelectRoute switches to route id of the selected trip.
// Returns ErrRouteNotFound if the route is not part of the selected trip.
func (s *Session) SelectRoute(ctx context.Context, id int64) error {
	return s.run(ctx, "select route", func() error {
		sel := s.current()
		if sel.trip == 0 {
			return types.ErrNoTrips
		}
		return s.refresh(ctx, selection{trip: sel.trip, route: id, strictTrip: true, strictRoute: true})
	})
}

// askName returns name, or asks the user for one when name is empty.
func (s *Session) askName(name, message string) (string, error) {
	if name != "" {
		return name, nil
	}
	if s.prompter == nil {
		return "", types.ErrInvalidName
	}
	answer, ok := s.prompter.Prompt(message)
	if !ok {
		return "", types.ErrCancelled
	}
	return answer, nil
}

// confirm asks the user to approve a destructive operation.
func (s *Session) confirm(message string) error {
	if s.prompter == nil || !s.prompter.Confirm(message) {
		return types.ErrCancelled
	}
	return nil
}

// AddTrip creates a trip and selects it. When name is empty the user is
// prompted for one.
func (s *Session) AddTrip(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.run(ctx, "add trip", func() error {
		name, err := s.askName(name, msgAddTrip)
		if err != nil {
			return err
		}
		id, err = s.repo.AddTrip(ctx, name)
		if err != nil {
			return err
		}
		s.log.Info("trip added", "trip", id)
		return s.refresh(ctx, selection{trip: id})
	})
	return id, err
}

// RemoveTrip removes trip id with its routes and entries after the user
// confirms. Removing the selected trip selects the first remaining one.
func (s *Session) RemoveTrip(ctx context.Context, id int64) error {
	return s.run(ctx, "remove trip", func() error {
		if !s.Snapshot().hasTrip(id) {
			return fmt.Errorf("trip %d: %w", id, types.ErrTripNotFound)
		}
		if err := s.confirm(msgRemoveTrip); err != nil {
			return err
		}
		if err := s.repo.RemoveTrip(ctx, id); err != nil {
			return err
		}
		s.log.Info("trip removed", "trip", id)
		return s.refresh(ctx, s.current())
	})
}

// AddRoute creates a route in the selected trip and selects it. When name is
// empty the user is prompted for one.
func (s *Session) AddRoute(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.run(ctx, "add route", func() error {
		sel := s.current()
		if sel.trip == 0 {
			return types.ErrNoTrips
		}
		name, err := s.askName(name, msgAddRoute)
		if err != nil {
			return err
		}
		id, err = s.repo.AddRoute(ctx, name, sel.trip)
		if err != nil {
			return err
		}
		s.log.Info("route added", "trip", sel.trip, "route", id)
		return s.refresh(ctx, selection{trip: sel.trip, route: id})
	})
	return id, err
}

// RemoveRoute removes route id of the selected trip with its entries after
// the user confirms. Removing the selected route selects the first remaining
// one, or none.
func (s *Session) RemoveRoute(ctx context.Context, id int64) error {
	return s.run(ctx, "remove route", func() error {
		if !s.Snapshot().hasRoute(id) {
			return fmt.Errorf("route %d: %w", id, types.ErrRouteNotFound)
		}
		if err := s.confirm(msgRemoveRoute); err != nil {
			return err
		}
		if err := s.repo.RemoveRoute(ctx, id); err != nil {
			return err
		}
		s.log.Info("route removed", "route", id)
		return s.refresh(ctx, s.current())
	})
}

// RemoveEntry removes one entry of the selected trip after the user confirms.
func (s *Session) RemoveEntry(ctx context.Context, id int64) error {
	return s.run(ctx, "remove entry", func() error {
		if !s.Snapshot().hasEntry(id) {
			return fmt.Errorf("entry %d: %w", id, types.ErrEntryNotFound)
		}
		if err := s.confirm(msgRemoveEntry); err != nil {
			return err
		}
		if err := s.repo.RemoveEntry(ctx, id); err != nil {
			return err
		}
		s.log.Info("entry removed", "entry", id)
		return s.refresh(ctx, s.current())
	})
}

// StartTimer starts timing the selected route.
// Returns ErrNoTrips or ErrNoRoutes when nothing is selected and
// ErrTimerRunning when a timer is already running.
func (s *Session) StartTimer(ctx context.Context) (types.Timer, error) {
	var t types.Timer
	err := s.run(ctx, "start timer", func() error {
		sel := s.current()
		switch {
		case sel.trip == 0:
			return types.ErrNoTrips
		case sel.route == 0:
			return types.ErrNoRoutes
		}
		var err error
		t, err = s.repo.StartTimer(ctx, sel.trip, sel.route)
		if err != nil {
			return err
		}
		s.log.Info("timer started", "trip", t.Trip, "route", t.Route, "departure", t.DepartureTime)
		return s.refresh(ctx, sel)
	})
	return t, err
}

// StopTimer stops the running timer and records it as an entry.
// Returns ErrNoTimer if no timer is running.
func (s *Session) StopTimer(ctx context.Context) (types.Entry, error) {
	var e types.Entry
	err := s.run(ctx, "stop timer", func() error {
		var err error
		e, err = s.repo.StopTimer(ctx)
		if err != nil {
			return err
		}
		s.log.Info("timer stopped", "entry", e.ID, "duration", e.Duration)
		return s.refresh(ctx, s.current())
	})
	return e, err
}

// Export returns the whole store as an export document.
func (s *Session) Export(ctx context.Context) (types.Export, error) {
	var doc types.Export
	err := s.run(ctx, "export", func() error {
		var err error
		doc, err = s.repo.Export(ctx)
		return err
	})
	return doc, err
}

// Import replaces the whole store with doc after the user confirms, then
// reloads as on startup.
func (s *Session) Import(ctx context.Context, doc types.Export) error {
	return s.run(ctx, "import", func() error {
		if err := s.confirm(msgImport); err != nil {
			return err
		}
		if err := s.repo.Import(ctx, doc); err != nil {
			return err
		}
		s.log.Info("store imported", "tables", len(doc))
		return s.load(ctx)
	})
}

// ClearAll deletes every row of every table after the user confirms and
// leaves the session with an empty view.
func (s *Session) ClearAll(ctx context.Context) error {
	return s.run(ctx, "clear all", func() error {
		if err := s.confirm(msgClearAll); err != nil {
			return err
		}
		if err := s.repo.Reset(ctx); err != nil {
			return err
		}
		s.log.Info("store cleared")
		return s.refresh(ctx, selection{})
	})
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/routetimer/internal/session"
	"github.com/mesh-intelligence/routetimer/internal/stats"
)

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start timing the selected route",
		Args:  cobra.NoArgs,
		RunE:  a.withSession(a.startTimer),
	}
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer and record the entry",
		Args:  cobra.NoArgs,
		RunE:  a.withSession(a.stopTimer),
	}
}

func (a *app) startTimer(ctx context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
	t, err := s.StartTimer(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, t)
	}
	route, _ := s.Snapshot().SelectedRoute()
	fmt.Fprintf(out, "Departed on %s at %s\n", route.Name, formatDate(time.UnixMilli(t.DepartureTime)))
	return nil
}

func (a *app) stopTimer(ctx context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
	e, err := s.StopTimer(ctx)
	if err != nil {
		return err
	}
	v := s.Snapshot()
	name, err := stats.RouteName(v.Routes, e.Route)
	if err != nil {
		// The timer belonged to a trip that is not selected.
		name = fmt.Sprintf("route %d", e.Route)
	}
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, session.EntryView{Entry: e, RouteName: name})
	}
	fmt.Fprintf(out, "Arrived via %s at %s: %s\n", name, formatDate(e.Arrived()), formatMinutes(float64(e.Duration)))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/routetimer/internal/session"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show fastest, slowest and average time per route of the selected trip",
		Args:  cobra.NoArgs,
		RunE:  a.withSession(a.showStats),
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the selected trip and route, the running timer and statistics",
		Args:  cobra.NoArgs,
		RunE:  a.withSession(a.showStatus),
	}
}

func (a *app) showStats(_ context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
	v := s.Snapshot()
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), v.Stats)
	}
	return writeStats(cmd.OutOrStdout(), v.Stats)
}

func writeStats(w io.Writer, rows []types.RouteStats) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, noData)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tFASTEST\tSLOWEST\tAVERAGE\tTRIPS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			r.Name, formatMinutes(float64(r.Fastest)), formatMinutes(float64(r.Slowest)), formatMinutes(r.Average), r.Count)
	}
	return tw.Flush()
}

// statusReport is the --json form of the status command.
type statusReport struct {
	Session string             `json:"session"`
	Trip    *types.Trip        `json:"trip"`
	Route   *types.Route       `json:"route"`
	Timer   *types.Timer       `json:"timer"`
	Stats   []types.RouteStats `json:"stats"`
}

func (a *app) showStatus(_ context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
	v := s.Snapshot()
	out := cmd.OutOrStdout()

	var r statusReport
	r.Session = s.ID()
	r.Stats = v.Stats
	if t, ok := v.SelectedTrip(); ok {
		r.Trip = &t
	}
	if rt, ok := v.SelectedRoute(); ok {
		r.Route = &rt
	}
	if t, ok := v.Running(); ok {
		r.Timer = &t
	}
	if a.flags.jsonMode {
		return printJSON(out, r)
	}

	if r.Trip == nil {
		fmt.Fprintln(out, "No trips yet. Add one with: routetimer trip add <name>")
		return nil
	}
	fmt.Fprintf(out, "Trip:  %s\n", r.Trip.Name)
	if r.Route != nil {
		fmt.Fprintf(out, "Route: %s\n", r.Route.Name)
	} else {
		fmt.Fprintln(out, "Route: (none)")
	}
	if r.Timer != nil {
		fmt.Fprintf(out, "Timer: running since %s (%s)\n",
			formatDate(time.UnixMilli(r.Timer.DepartureTime)), formatElapsed(r.Timer.Elapsed(a.now())))
	}
	fmt.Fprintln(out)
	return writeStats(out, v.Stats)
}

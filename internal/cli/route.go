package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/routetimer/internal/session"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

func newRouteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Manage the routes of the selected trip",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List routes of the selected trip; the selected one is marked with *",
			Args:  cobra.NoArgs,
			RunE:  a.withSession(a.listRoutes),
		},
		&cobra.Command{
			Use:   "add [name]",
			Short: "Add a route to the selected trip and select it",
			RunE:  a.withSession(a.addRoute),
		},
		&cobra.Command{
			Use:   "rm [id]",
			Short: "Remove a route with its entries (default: selected route)",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.withSession(a.removeRoute),
		},
		&cobra.Command{
			Use:   "use <id>",
			Short: "Select a route of the selected trip",
			Args:  cobra.ExactArgs(1),
			RunE:  a.withSession(a.useRoute),
		},
	)
	return cmd
}

func (a *app) listRoutes(_ context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
	v := s.Snapshot()
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, v.Routes)
	}
	trip, ok := v.SelectedTrip()
	if !ok {
		return types.ErrNoTrips
	}
	if len(v.Routes) == 0 {
		fmt.Fprintf(out, "Trip %q has no routes. Add one with: routetimer route add <name>\n", trip.Name)
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME")
	for _, r := range v.Routes {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", marker(v.Route, r.ID), r.ID, r.Name)
	}
	return tw.Flush()
}

func (a *app) addRoute(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
	id, err := s.AddRoute(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	route, _ := s.Snapshot().SelectedRoute()
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), route)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added route %d: %s\n", id, route.Name)
	return nil
}

func (a *app) removeRoute(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
	id, err := idArg(args, s.Snapshot().Route, types.ErrNoRoutes)
	if err != nil {
		return err
	}
	if err := s.RemoveRoute(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed route %d\n", id)
	return nil
}

func (a *app) useRoute(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
	id, err := idArg(args, nil, nil)
	if err != nil {
		return err
	}
	if err := s.SelectRoute(ctx, id); err != nil {
		return err
	}
	route, _ := s.Snapshot().SelectedRoute()
	fmt.Fprintf(cmd.OutOrStdout(), "Selected route %d: %s\n", route.ID, route.Name)
	return nil
}

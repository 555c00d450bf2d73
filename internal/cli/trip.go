package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/routetimer/internal/session"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

func newTripCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Manage trips",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List trips; the selected one is marked with *",
			Args:  cobra.NoArgs,
			RunE:  a.withSession(a.listTrips),
		},
		&cobra.Command{
			Use:   "add [name]",
			Short: "Add a trip and select it; prompts for the name if omitted",
			RunE:  a.withSession(a.addTrip),
		},
		&cobra.Command{
			Use:   "rm [id]",
			Short: "Remove a trip with its routes and entries (default: selected trip)",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.withSession(a.removeTrip),
		},
		&cobra.Command{
			Use:   "use <id>",
			Short: "Select a trip and its first route",
			Args:  cobra.ExactArgs(1),
			RunE:  a.withSession(a.useTrip),
		},
	)
	return cmd
}

func (a *app) listTrips(_ context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
	v := s.Snapshot()
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, v.Trips)
	}
	if v.Empty() {
		fmt.Fprintln(out, "No trips yet. Add one with: routetimer trip add <name>")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME")
	for _, t := range v.Trips {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", marker(v.Trip, t.ID), t.ID, t.Name)
	}
	return tw.Flush()
}

func (a *app) addTrip(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
	id, err := s.AddTrip(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	trip, _ := s.Snapshot().SelectedTrip()
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), trip)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added trip %d: %s\n", id, trip.Name)
	return nil
}

func (a *app) removeTrip(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
	id, err := idArg(args, s.Snapshot().Trip, types.ErrNoTrips)
	if err != nil {
		return err
	}
	if err := s.RemoveTrip(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed trip %d\n", id)
	return nil
}

func (a *app) useTrip(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
	id, err := idArg(args, nil, nil)
	if err != nil {
		return err
	}
	if err := s.SelectTrip(ctx, id); err != nil {
		return err
	}
	trip, _ := s.Snapshot().SelectedTrip()
	fmt.Fprintf(cmd.OutOrStdout(), "Selected trip %d: %s\n", trip.ID, trip.Name)
	return nil
}

// idArg parses the single ID argument, or returns the selected ID when no
// argument was given. none is returned when nothing is selected either.
func idArg(args []string, selected *int64, none error) (int64, error) {
	if len(args) == 0 {
		if selected == nil {
			return 0, none
		}
		return *selected, nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// marker flags the selected row of a listing.
func marker(selected *int64, id int64) string {
	if selected != nil && *selected == id {
		return "*"
	}
	return ""
}

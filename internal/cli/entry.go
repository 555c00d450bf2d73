package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/routetimer/internal/session"
)

func newEntryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Inspect the log entries of the selected trip",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List entries of the selected trip, most recent first",
			Args:  cobra.NoArgs,
			RunE:  a.withSession(a.listEntries),
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove one log entry",
			Args:  cobra.ExactArgs(1),
			RunE:  a.withSession(a.removeEntry),
		},
	)
	return cmd
}

func (a *app) listEntries(_ context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
	v := s.Snapshot()
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, v.Entries)
	}
	if len(v.Entries) == 0 {
		fmt.Fprintln(out, noData)
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROUTE\tDEPARTED\tARRIVED\tDURATION")
	for _, e := range v.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.RouteName, formatDate(e.Departed()), formatDate(e.Arrived()), formatMinutes(float64(e.Duration)))
	}
	return tw.Flush()
}

func (a *app) removeEntry(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
	id, err := idArg(args, nil, nil)
	if err != nil {
		return err
	}
	if err := s.RemoveEntry(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %d\n", id)
	return nil
}

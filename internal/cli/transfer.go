package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/routetimer/internal/session"
	"github.com/mesh-intelligence/routetimer/internal/sqlite"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every table as a JSON export document",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(ctx context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
			doc, err := s.Export(ctx)
			if err != nil {
				return err
			}
			if output == "" {
				return sqlite.EncodeExport(cmd.OutOrStdout(), doc)
			}
			if err := sqlite.WriteExportFile(output, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tables to %s\n", len(doc), output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of standard output")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of an export document",
		Args:  cobra.ExactArgs(1),
		RunE: a.withSession(func(ctx context.Context, cmd *cobra.Command, s *session.Session, args []string) error {
			doc, err := sqlite.ReadExportFile(args[0])
			if err != nil {
				return err
			}
			if err := s.Import(ctx, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d trips, %d routes and %d entries\n",
				rows(doc, types.TripsTable), rows(doc, types.RoutesTable), rows(doc, types.EntriesTable))
			return nil
		}),
	}
}

// rows counts the records of one table in doc.
func rows(doc types.Export, table string) int {
	d, _ := doc.Table(table)
	return len(d.Contents)
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove ALL data",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(ctx context.Context, cmd *cobra.Command, s *session.Session, _ []string) error {
			if err := s.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data removed")
			return nil
		}),
	}
}

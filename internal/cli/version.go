package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the routetimer release. Release builds replace it through the
// linker with -X github.com/mesh-intelligence/routetimer/internal/cli.Version.
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/routetimer"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the routetimer version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "routetimer v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the marina release version. Release builds override it with
// -ldflags "-X".
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/berths"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the marina version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "marina v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}

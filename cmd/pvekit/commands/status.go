package commands

import (
	"github.com/spf13/cobra"

	"github.com/pvekit/pvekit/cmd/pvekit/handlers"
)

// Status returns the command that prints a cluster overview.
//
// Flags:
//
//	--config, -c: Path to the manifest (default: pvekit.yaml in the working directory)
func Status() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the cluster version, nodes and guests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the manifest file")

	return cmd
}

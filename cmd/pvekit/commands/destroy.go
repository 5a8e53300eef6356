package commands

import (
	"github.com/spf13/cobra"

	"github.com/pvekit/pvekit/cmd/pvekit/handlers"
)

// Destroy returns the command that removes every declared resource.
//
// Flags:
//
//	--config, -c: Path to the manifest (default: pvekit.yaml in the working directory)
//	--force: Skip the interactive confirmation
func Destroy() *cobra.Command {
	var (
		configPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Remove every resource declared in the manifest",
		Long: `Remove every resource declared in the manifest from the cluster.

Resources are removed in reverse dependency order so dependents go
before their dependencies. Guests are never destroyed; only resources
the manifest declares are touched.

Without --force the cluster name must be typed to confirm.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, force)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the manifest file")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}

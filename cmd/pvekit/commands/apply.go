package commands

import (
	"github.com/spf13/cobra"

	"github.com/pvekit/pvekit/cmd/pvekit/handlers"
)

// Apply returns the command that reconciles the cluster towards the
// manifest.
//
// Flags:
//
//	--config, -c: Path to the manifest (default: pvekit.yaml in the working directory)
//	--check: Plan-only mode; report what would change without mutating anything
func Apply() *cobra.Command {
	var (
		configPath string
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the cluster towards the manifest",
		Long: `Reconcile the live cluster towards the state declared in the manifest.

Resources are applied in dependency order: access control first, then
storage, SDN, firewall, high availability and finally guest state. A
resource that fails is reported and skipped; the remaining resources
are still reconciled.

With --check nothing is mutated and every result describes what an
unrestricted run would have changed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, check)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the manifest file")
	cmd.Flags().BoolVar(&check, "check", false, "Report changes without applying them")

	return cmd
}

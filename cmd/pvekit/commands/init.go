package commands

import (
	"github.com/spf13/cobra"

	"github.com/pvekit/pvekit/cmd/pvekit/handlers"
)

// Init returns the command for interactively creating a manifest.
//
// Flags:
//
//	--output, -o: Path to the output file (default "pvekit.yaml")
//	--force: Overwrite an existing manifest
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a cluster manifest",
		Long: `Interactively create a cluster manifest.

The wizard asks for the cluster name, the API endpoint and how to
authenticate, then writes a starter manifest. On a non-interactive
terminal a commented template with environment-based authentication
is written instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "pvekit.yaml", "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing manifest")

	return cmd
}

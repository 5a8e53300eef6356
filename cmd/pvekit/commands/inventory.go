package commands

import (
	"github.com/spf13/cobra"

	"github.com/pvekit/pvekit/cmd/pvekit/handlers"
)

// Inventory returns the command that emits a dynamic inventory.
//
// Flags:
//
//	--config, -c: Path to the manifest (default: pvekit.yaml in the working directory)
//	--output, -o: Write the inventory to a file instead of stdout
//	--prefix: Group name prefix (default "proxmox")
//	--type: Restrict hosts to one guest type, "qemu" or "lxc"
//	--include-templates: Include guest templates in the inventory
//	--cache-ttl: Serve a cached inventory younger than this; 0 disables caching
//	--refresh: Drop the cached inventory before building
//	--list: Accepted for compatibility with dynamic inventory callers
func Inventory() *cobra.Command {
	var (
		configPath string
		outputPath string
		opts       handlers.InventoryOptions
	)

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Emit the cluster guests as a dynamic inventory",
		Long: `Emit every VM and container as an Ansible-style dynamic inventory.

Guests are grouped by node, pool, tag and power state under a common
prefix. The JSON printed on stdout is the same shape produced by
'ansible-inventory --list', so the command can be used directly as a
dynamic inventory script.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Inventory(cmd.Context(), configPath, outputPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the manifest file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the inventory to this file")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Group name prefix")
	cmd.Flags().StringVar(&opts.Type, "type", "", `Restrict hosts to one guest type ("qemu" or "lxc")`)
	cmd.Flags().BoolVar(&opts.IncludeTemplates, "include-templates", false, "Include guest templates")
	cmd.Flags().DurationVar(&opts.CacheTTL, "cache-ttl", 0, "Serve cached results younger than this")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Drop the cached inventory first")

	// Dynamic inventory callers pass --list; full output is the default.
	var list bool
	cmd.Flags().BoolVar(&list, "list", false, "Output the full inventory (the default)")
	_ = cmd.Flags().MarkHidden("list")

	return cmd
}

package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/pvekit/pvekit/internal/config"
)

// starterManifest is written when no interactive terminal is available.
const starterManifest = `# pvekit cluster manifest. Declare the desired state of your
# Proxmox VE cluster here and run 'pvekit apply'.
#
# Authentication comes from the environment:
#   export PROXMOX_HOST=pve.example.com
#   export PROXMOX_USER=root@pam
#   export PROXMOX_TOKEN_ID=pvekit
#   export PROXMOX_TOKEN_SECRET=...
#
# or declare it under connection:.
cluster: proxmox

#connection:
#  host: pve.example.com
#  user: root@pam

#pools:
#  - poolid: prod
#    comment: Production workloads
`

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runInitWizard runs the interactive manifest wizard.
	runInitWizard = config.RunWizard

	// writeManifest writes a manifest to a file.
	writeManifest = config.WriteManifestYAML

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile
)

// Init creates a starter manifest. On an interactive terminal it runs
// the wizard; otherwise it writes a commented template that relies on
// environment-based authentication.
func Init(ctx context.Context, outputPath string, force bool) error {
	if fileExists(outputPath) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", outputPath)
	}

	if !stdinIsTerminal() {
		if err := writeFile(outputPath, []byte(starterManifest), 0o600); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		printInitSuccess(outputPath)
		return nil
	}

	printWelcome()

	result, err := runInitWizard(ctx)
	if err != nil {
		return err
	}

	if err := writeManifest(result.ToManifest(), outputPath); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	printInitSuccess(outputPath)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "pvekit - declarative Proxmox VE management")
	fmt.Fprintln(stdout, "==========================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a starter manifest for your cluster.")
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message with next steps.
func printInitSuccess(outputPath string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Manifest saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintf(stdout, "  1. Declare pools, users, storage, firewall rules and more in %s\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Preview the changes:")
	fmt.Fprintln(stdout, "     pvekit apply --check")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  3. Reconcile the cluster:")
	fmt.Fprintln(stdout, "     pvekit apply")
	fmt.Fprintln(stdout)
}

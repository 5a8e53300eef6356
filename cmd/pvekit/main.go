// Package main is the entry point for the pvekit CLI.
//
// pvekit declaratively manages Proxmox VE clusters: pools, access
// control, storage, high availability, the firewall, SDN and guest
// power state are described in a manifest and reconciled against the
// live cluster. It also serves as a dynamic inventory source for
// automation tooling.
//
// Commands: init, apply, destroy, status, inventory.
//
// For detailed usage information, run:
//
//	pvekit --help
package main

import (
	"fmt"
	"os"

	"github.com/pvekit/pvekit/cmd/pvekit/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

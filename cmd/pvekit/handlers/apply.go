// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/log"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
	"github.com/pvekit/pvekit/internal/reconcile"
)

// Reconciler matches reconcile.Reconciler for testing.
type Reconciler interface {
	Apply(ctx context.Context) (*reconcile.Report, error)
	Destroy(ctx context.Context) (*reconcile.Report, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// stdout is where handlers print their human-readable output.
	stdout io.Writer = os.Stdout

	// findManifestFile resolves the manifest path.
	findManifestFile = config.FindManifest

	// loadManifestFile loads and validates a manifest.
	loadManifestFile = config.LoadManifest

	// connectionFromEnv reads PROXMOX_* environment variables.
	connectionFromEnv = config.ConnectionFromEnv

	// newClusterClient creates an authenticated API client.
	newClusterClient = func(ctx context.Context, conn *config.Connection) (proxmox.ClusterManager, error) {
		client, err := proxmox.NewClient(conn)
		if err != nil {
			return nil, err
		}
		if err := client.Login(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}

	// newReconciler creates a reconciler for a cluster and manifest.
	newReconciler = func(client proxmox.ClusterManager, manifest *config.Manifest, opts ...reconcile.Option) Reconciler {
		return reconcile.New(client, manifest, opts...)
	}
)

// Apply reconciles the live cluster towards the manifest.
//
// The manifest is loaded from configPath (or pvekit.yaml in the working
// directory), the connection is built from PROXMOX_* environment
// variables with manifest values taking precedence, and every declared
// resource is reconciled in dependency order. With check set, nothing
// is mutated and the report describes what would change.
//
// The returned error is non-nil when the run could not start or when
// at least one resource failed.
func Apply(ctx context.Context, configPath string, check bool) error {
	log.Configure(log.Config{})

	manifest, err := loadManifest(configPath)
	if err != nil {
		return err
	}

	client, err := connectCluster(ctx, manifest)
	if err != nil {
		return err
	}

	rec := newReconciler(client, manifest, reconcile.WithCheckMode(check))
	report, err := rec.Apply(ctx)
	if err != nil {
		return fmt.Errorf("apply interrupted: %w", err)
	}

	printReport(report, check)

	if report.Failed() {
		return fmt.Errorf("apply finished with failures: %s", report.Summary())
	}
	return nil
}

// loadManifest resolves and loads the manifest.
func loadManifest(configPath string) (*config.Manifest, error) {
	path, err := findManifestFile(configPath)
	if err != nil {
		return nil, err
	}
	manifest, err := loadManifestFile(path)
	if err != nil {
		return nil, err
	}
	return manifest, nil
}

// connectCluster builds the connection from the environment, overlays
// the manifest settings and returns an authenticated client.
func connectCluster(ctx context.Context, manifest *config.Manifest) (proxmox.ClusterManager, error) {
	conn, err := connectionFromEnv()
	if err != nil {
		return nil, err
	}
	conn.Merge(manifest.Connection)
	return newClusterClient(ctx, conn)
}

// printReport writes every result and the run summary to stdout.
func printReport(report *reconcile.Report, check bool) {
	for _, res := range report.Results() {
		fmt.Fprintln(stdout, res.String())
	}
	if check {
		fmt.Fprintf(stdout, "\nCheck complete, no changes made: %s\n", report.Summary())
		return
	}
	fmt.Fprintf(stdout, "\n%s\n", report.Summary())
}

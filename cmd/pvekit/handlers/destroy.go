package handlers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/pvekit/pvekit/internal/log"
)

// Factory function variables for destroy - can be replaced in tests.
var (
	// stdinIsTerminal reports whether stdin is an interactive terminal.
	stdinIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// confirmDestroy asks the user to type the cluster name.
	confirmDestroy = func(cluster string) (bool, error) {
		fmt.Fprintf(stdout, "This removes every resource declared in the manifest from cluster %q.\n", cluster)
		fmt.Fprintf(stdout, "Type the cluster name to confirm: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		return strings.TrimSpace(line) == cluster, nil
	}
)

// Destroy removes every resource declared in the manifest from the
// cluster, in reverse dependency order. Guests are left alone.
//
// Without force, the cluster name must be typed to confirm; on a
// non-interactive terminal the run is refused instead.
func Destroy(ctx context.Context, configPath string, force bool) error {
	log.Configure(log.Config{})

	manifest, err := loadManifest(configPath)
	if err != nil {
		return err
	}

	if !force {
		if !stdinIsTerminal() {
			return fmt.Errorf("refusing to destroy without --force on a non-interactive terminal")
		}
		ok, err := confirmDestroy(manifest.Cluster)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("destroy aborted: confirmation did not match cluster %q", manifest.Cluster)
		}
	}

	client, err := connectCluster(ctx, manifest)
	if err != nil {
		return err
	}

	rec := newReconciler(client, manifest)
	report, err := rec.Destroy(ctx)
	if err != nil {
		return fmt.Errorf("destroy interrupted: %w", err)
	}

	printReport(report, false)

	if report.Failed() {
		return fmt.Errorf("destroy finished with failures: %s", report.Summary())
	}
	return nil
}

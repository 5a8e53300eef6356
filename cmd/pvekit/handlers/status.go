package handlers

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/pvekit/pvekit/internal/log"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

// Status prints the cluster version, its nodes and its guests.
func Status(ctx context.Context, configPath string) error {
	log.Configure(log.Config{})

	manifest, err := loadManifest(configPath)
	if err != nil {
		return err
	}

	client, err := connectCluster(ctx, manifest)
	if err != nil {
		return err
	}

	version, err := client.Version(ctx)
	if err != nil {
		return err
	}
	nodes, err := client.ListNodes(ctx)
	if err != nil {
		return err
	}
	guests, err := client.ListGuests(ctx)
	if err != nil {
		return err
	}

	printStatus(manifest.Cluster, version, nodes, guests)
	return nil
}

func printStatus(cluster string, version *proxmox.VersionInfo, nodes []proxmox.Node, guests []proxmox.ClusterResource) {
	if cluster != "" {
		fmt.Fprintf(stdout, "Cluster %s, Proxmox VE %s\n\n", cluster, version.Version)
	} else {
		fmt.Fprintf(stdout, "Proxmox VE %s\n\n", version.Version)
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Node < nodes[j].Node })
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tSTATUS\tCPUS\tMEMORY")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f GiB\n",
			n.Node, n.Status, n.MaxCPU, float64(n.MaxMem)/(1<<30))
	}
	tw.Flush()

	running := 0
	vms, cts := 0, 0
	for _, g := range guests {
		switch g.Type {
		case "qemu":
			vms++
		case "lxc":
			cts++
		default:
			continue
		}
		if g.Status == "running" {
			running++
		}
	}
	fmt.Fprintf(stdout, "\n%d VMs, %d containers (%d running)\n", vms, cts, running)
}

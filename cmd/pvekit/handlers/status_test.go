package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

func TestStatusPrintsOverview(t *testing.T) {
	path := writeTestManifest(t, "cluster: homelab\n")
	buf := captureOutput(t)
	stubConnection(t, &proxmox.MockClusterManager{
		VersionFunc: func(context.Context) (*proxmox.VersionInfo, error) {
			return &proxmox.VersionInfo{Version: "8.2.4"}, nil
		},
		ListNodesFunc: func(context.Context) ([]proxmox.Node, error) {
			return []proxmox.Node{
				{Node: "pve2", Status: "online", MaxCPU: 16, MaxMem: 64 << 30},
				{Node: "pve1", Status: "online", MaxCPU: 8, MaxMem: 32 << 30},
			}, nil
		},
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return []proxmox.ClusterResource{
				{Type: "qemu", VMID: 100, Name: "web-1", Status: "running"},
				{Type: "qemu", VMID: 101, Name: "web-2", Status: "stopped"},
				{Type: "lxc", VMID: 200, Name: "db-1", Status: "running"},
				{Type: "storage", Name: "local"},
			}, nil
		},
	})

	require.NoError(t, Status(context.Background(), path))

	out := buf.String()
	assert.Contains(t, out, "Cluster homelab, Proxmox VE 8.2.4")
	assert.Contains(t, out, "pve1")
	assert.Contains(t, out, "2 VMs, 1 containers (2 running)")
	// Nodes are sorted by name.
	assert.Less(t, strings.Index(out, "pve1"), strings.Index(out, "pve2"))
}

func TestStatusVersionFailure(t *testing.T) {
	path := writeTestManifest(t, "cluster: homelab\n")
	captureOutput(t)
	stubConnection(t, &proxmox.MockClusterManager{
		VersionFunc: func(context.Context) (*proxmox.VersionInfo, error) {
			return nil, errors.New("401 authentication failure")
		},
	})

	err := Status(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failure")
}

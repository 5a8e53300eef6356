package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

func stubCachePath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	orig := inventoryCachePath
	inventoryCachePath = func(string) string { return path }
	t.Cleanup(func() { inventoryCachePath = orig })
	return path
}

// stubConnectionHost is stubConnection with a caller-chosen cluster host.
func stubConnectionHost(t *testing.T, host string, client proxmox.ClusterManager) {
	t.Helper()
	origEnv := connectionFromEnv
	origNew := newClusterClient
	connectionFromEnv = func() (*config.Connection, error) {
		return &config.Connection{Host: host, Port: 8006, User: "root@pam", Password: "x"}, nil
	}
	newClusterClient = func(_ context.Context, _ *config.Connection) (proxmox.ClusterManager, error) {
		return client, nil
	}
	t.Cleanup(func() {
		connectionFromEnv = origEnv
		newClusterClient = origNew
	})
}

func inventoryGuests() []proxmox.ClusterResource {
	return []proxmox.ClusterResource{
		{Type: "qemu", VMID: 100, Name: "web-1", Node: "pve1", Status: "running", Tags: "prod"},
		{Type: "lxc", VMID: 200, Name: "db-1", Node: "pve2", Status: "stopped"},
		{Type: "node", Node: "pve1"},
	}
}

func decodeGroups(t *testing.T, data []byte) map[string][]string {
	t.Helper()
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	groups := make(map[string][]string)
	for name, raw := range doc {
		if name == "_meta" || name == "all" {
			continue
		}
		var group struct {
			Hosts []string `json:"hosts"`
		}
		require.NoError(t, json.Unmarshal(raw, &group))
		groups[name] = group.Hosts
	}
	return groups
}

func TestInventoryPrintsAnsibleJSON(t *testing.T) {
	buf := captureOutput(t)
	stubCachePath(t)
	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return inventoryGuests(), nil
		},
	})

	require.NoError(t, Inventory(context.Background(), "", "", InventoryOptions{}))

	want := map[string][]string{
		"proxmox_all_qemu":    {"web-1"},
		"proxmox_all_lxc":     {"db-1"},
		"proxmox_all_running": {"web-1"},
		"proxmox_all_stopped": {"db-1"},
		"proxmox_node_pve1":   {"web-1"},
		"proxmox_node_pve2":   {"db-1"},
		"proxmox_tag_prod":    {"web-1"},
	}
	if diff := cmp.Diff(want, decodeGroups(t, buf.Bytes())); diff != "" {
		t.Errorf("inventory groups mismatch (-want +got):\n%s", diff)
	}
}

func TestInventoryTypeFlagLimitsHosts(t *testing.T) {
	buf := captureOutput(t)
	stubCachePath(t)
	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return inventoryGuests(), nil
		},
	})

	require.NoError(t, Inventory(context.Background(), "", "", InventoryOptions{Type: "qemu"}))

	want := map[string][]string{
		"proxmox_all_qemu":    {"web-1"},
		"proxmox_all_running": {"web-1"},
		"proxmox_node_pve1":   {"web-1"},
		"proxmox_tag_prod":    {"web-1"},
	}
	if diff := cmp.Diff(want, decodeGroups(t, buf.Bytes())); diff != "" {
		t.Errorf("inventory groups mismatch (-want +got):\n%s", diff)
	}
}

func TestInventoryCacheIsPerHost(t *testing.T) {
	buf := captureOutput(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	opts := InventoryOptions{CacheTTL: time.Hour}

	stubConnectionHost(t, "pve-a.test", &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return inventoryGuests(), nil
		},
	})
	require.NoError(t, Inventory(context.Background(), "", "", opts))
	assert.Contains(t, buf.String(), "web-1")
	buf.Reset()

	// A different host within the TTL must not see the first cluster's cache.
	stubConnectionHost(t, "pve-b.test", &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return []proxmox.ClusterResource{
				{Type: "qemu", VMID: 500, Name: "other-1", Node: "pve9", Status: "running"},
			}, nil
		},
	})
	require.NoError(t, Inventory(context.Background(), "", "", opts))

	out := buf.String()
	assert.Contains(t, out, "other-1")
	assert.NotContains(t, out, "web-1")
}

func TestInventoryWritesToFile(t *testing.T) {
	captureOutput(t)
	stubCachePath(t)
	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return inventoryGuests(), nil
		},
	})
	outPath := filepath.Join(t.TempDir(), "hosts.json")

	require.NoError(t, Inventory(context.Background(), "", outPath, InventoryOptions{}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "proxmox_all_qemu")
}

func TestInventoryServedFromCache(t *testing.T) {
	buf := captureOutput(t)
	stubCachePath(t)
	opts := InventoryOptions{CacheTTL: time.Hour}

	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return inventoryGuests(), nil
		},
	})
	require.NoError(t, Inventory(context.Background(), "", "", opts))
	buf.Reset()

	// The second run must not reach the API at all.
	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			t.Fatal("cache hit must not list guests")
			return nil, nil
		},
	})
	require.NoError(t, Inventory(context.Background(), "", "", opts))
	assert.Contains(t, buf.String(), "web-1")
}

func TestInventoryRefreshDropsCache(t *testing.T) {
	buf := captureOutput(t)
	stubCachePath(t)
	opts := InventoryOptions{CacheTTL: time.Hour}

	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return inventoryGuests(), nil
		},
	})
	require.NoError(t, Inventory(context.Background(), "", "", opts))
	buf.Reset()

	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return []proxmox.ClusterResource{
				{Type: "qemu", VMID: 300, Name: "fresh", Node: "pve1", Status: "running"},
			}, nil
		},
	})
	opts.Refresh = true
	require.NoError(t, Inventory(context.Background(), "", "", opts))

	out := buf.String()
	assert.Contains(t, out, "fresh")
	assert.NotContains(t, out, "web-1")
}

func TestInventoryWithoutManifestUsesEnvironment(t *testing.T) {
	captureOutput(t)
	stubCachePath(t)
	stubConnection(t, &proxmox.MockClusterManager{})

	// No manifest anywhere near the working directory of the test run
	// matters: the empty config path falls back to env-only settings.
	require.NoError(t, Inventory(context.Background(), "", "", InventoryOptions{}))
}

func TestInventoryBuildFailure(t *testing.T) {
	captureOutput(t)
	stubCachePath(t)
	stubConnection(t, &proxmox.MockClusterManager{
		ListGuestsFunc: func(context.Context) ([]proxmox.ClusterResource, error) {
			return nil, errors.New("cluster unreachable")
		},
	})

	err := Inventory(context.Background(), "", "", InventoryOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster unreachable")
}

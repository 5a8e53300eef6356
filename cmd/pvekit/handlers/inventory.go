package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/inventory"
	"github.com/pvekit/pvekit/internal/log"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

// InventoryOptions carries the inventory command flags.
type InventoryOptions struct {
	Prefix           string
	Type             string
	IncludeTemplates bool
	CacheTTL         time.Duration
	Refresh          bool
}

// Factory function variables for inventory - can be replaced in tests.
var (
	// buildInventory builds an inventory from the cluster state.
	buildInventory = func(ctx context.Context, client proxmox.GuestManager, opts inventory.Options) (*inventory.Inventory, error) {
		return inventory.Build(ctx, client, opts)
	}

	// inventoryCachePath returns the cache file for one cluster host.
	// Each host gets its own file, so switching PROXMOX_HOST within the
	// TTL never serves another cluster's guests.
	inventoryCachePath = func(host string) string {
		dir, err := os.UserCacheDir()
		if err != nil {
			return ""
		}
		name := "inventory.json"
		if host != "" {
			name = "inventory-" + strings.ReplaceAll(host, ":", "_") + ".json"
		}
		return filepath.Join(dir, "pvekit", name)
	}
)

// Inventory emits every guest as an Ansible-style dynamic inventory.
//
// The manifest is optional here: when none is found, the connection
// comes entirely from PROXMOX_* environment variables. With a positive
// cache TTL a cached inventory younger than the TTL is served without
// touching the API; Refresh drops the cache first.
func Inventory(ctx context.Context, configPath, outputPath string, opts InventoryOptions) error {
	log.Configure(log.Config{})

	manifest, err := loadManifest(configPath)
	if err != nil {
		if configPath != "" {
			return err
		}
		manifest = &config.Manifest{}
	}

	conn, err := connectionFromEnv()
	if err != nil {
		return err
	}
	conn.Merge(manifest.Connection)

	cache := &inventory.Cache{Path: inventoryCachePath(conn.Host), TTL: opts.CacheTTL}
	if opts.Refresh {
		if err := cache.Invalidate(); err != nil {
			return err
		}
	}

	inv, ok := cache.Load()
	if !ok {
		client, err := newClusterClient(ctx, conn)
		if err != nil {
			return err
		}
		inv, err = buildInventory(ctx, client, inventory.Options{
			Prefix:           opts.Prefix,
			TypeFilter:       opts.Type,
			IncludeTemplates: opts.IncludeTemplates,
		})
		if err != nil {
			return err
		}
		if opts.CacheTTL > 0 {
			if err := cache.Store(inv); err != nil {
				return fmt.Errorf("store inventory cache: %w", err)
			}
		}
	}

	data, err := inv.MarshalAnsible()
	if err != nil {
		return err
	}

	if outputPath != "" && outputPath != "-" {
		if err := writeFile(outputPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write inventory: %w", err)
		}
		return nil
	}
	fmt.Fprintf(stdout, "%s\n", data)
	return nil
}

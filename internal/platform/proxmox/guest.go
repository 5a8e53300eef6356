package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// ListGuests returns all VMs and containers in the cluster, using the
// consolidated resources endpoint so a single call covers every node.
func (c *Client) ListGuests(ctx context.Context) ([]ClusterResource, error) {
	query := url.Values{"type": {"vm"}}
	var resources []ClusterResource
	if err := c.get(ctx, "/cluster/resources", query, &resources); err != nil {
		return nil, fmt.Errorf("failed to retrieve cluster guests: %w", err)
	}
	return resources, nil
}

// NextVMID returns the next free vmid in the cluster.
func (c *Client) NextVMID(ctx context.Context) (int, error) {
	var id FlexInt
	if err := c.get(ctx, "/cluster/nextid", nil, &id); err != nil {
		return 0, fmt.Errorf("failed to retrieve next free vmid: %w", err)
	}
	return id.Int(), nil
}

// FindGuest locates a guest by vmid anywhere in the cluster, or nil when
// no guest matches.
func (c *Client) FindGuest(ctx context.Context, vmid int) (*ClusterResource, error) {
	guests, err := c.ListGuests(ctx)
	if err != nil {
		return nil, err
	}
	for i := range guests {
		if guests[i].VMID.Int() == vmid {
			return &guests[i], nil
		}
	}
	return nil, nil
}

// FindGuestByName locates a guest by its name. Ambiguous names are an
// error; callers should fall back to the vmid.
func (c *Client) FindGuestByName(ctx context.Context, name string) (*ClusterResource, error) {
	guests, err := c.ListGuests(ctx)
	if err != nil {
		return nil, err
	}
	var found *ClusterResource
	for i := range guests {
		if guests[i].Name != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("multiple guests named %q, use the vmid instead", name)
		}
		found = &guests[i]
	}
	return found, nil
}

// GuestStatus returns the current status of a VM or container.
func (c *Client) GuestStatus(ctx context.Context, node, typ string, vmid int) (*GuestStatus, error) {
	var status GuestStatus
	path := fmt.Sprintf("/nodes/%s/%s/%d/status/current", node, typ, vmid)
	if err := c.get(ctx, path, nil, &status); err != nil {
		return nil, fmt.Errorf("failed to retrieve status of %s %d: %w", typ, vmid, err)
	}
	return &status, nil
}

// StartGuest starts a VM or container and returns the task UPID.
func (c *Client) StartGuest(ctx context.Context, node, typ string, vmid int) (UPID, error) {
	return c.guestStatusCommand(ctx, node, typ, vmid, "start")
}

// StopGuest hard-stops a VM or container and returns the task UPID.
func (c *Client) StopGuest(ctx context.Context, node, typ string, vmid int) (UPID, error) {
	return c.guestStatusCommand(ctx, node, typ, vmid, "stop")
}

// ShutdownGuest requests a clean shutdown and returns the task UPID.
func (c *Client) ShutdownGuest(ctx context.Context, node, typ string, vmid int) (UPID, error) {
	return c.guestStatusCommand(ctx, node, typ, vmid, "shutdown")
}

func (c *Client) guestStatusCommand(ctx context.Context, node, typ string, vmid int, command string) (UPID, error) {
	var upid UPID
	path := fmt.Sprintf("/nodes/%s/%s/%d/status/%s", node, typ, vmid, command)
	if err := c.post(ctx, path, NewParams(), &upid); err != nil {
		return "", fmt.Errorf("failed to %s %s %d: %w", command, typ, vmid, err)
	}
	return upid, nil
}

// GetGuestConfig returns the raw configuration of a guest. Keys and value
// shapes differ between qemu and lxc, so the result stays untyped.
func (c *Client) GetGuestConfig(ctx context.Context, node, typ string, vmid int) (map[string]any, error) {
	var cfg map[string]any
	path := fmt.Sprintf("/nodes/%s/%s/%d/config", node, typ, vmid)
	if err := c.get(ctx, path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to retrieve config of %s %d: %w", typ, vmid, err)
	}
	return cfg, nil
}

// SetGuestConfig applies configuration changes to a guest synchronously.
func (c *Client) SetGuestConfig(ctx context.Context, node, typ string, vmid int, opts Params) error {
	path := fmt.Sprintf("/nodes/%s/%s/%d/config", node, typ, vmid)
	if err := c.put(ctx, path, opts, nil); err != nil {
		return fmt.Errorf("failed to update config of %s %d: %w", typ, vmid, err)
	}
	return nil
}

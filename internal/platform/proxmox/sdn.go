package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// SDN mutations run under a global lock. Every create, update and delete
// carries the lock token, and nothing takes effect until ApplySDN commits
// the pending configuration.

// AcquireSDNLock takes the global SDN lock and returns its token.
func (c *Client) AcquireSDNLock(ctx context.Context) (string, error) {
	var token string
	if err := c.post(ctx, "/cluster/sdn/lock", NewParams(), &token); err != nil {
		return "", fmt.Errorf("failed to acquire SDN lock: %w", err)
	}
	return token, nil
}

// ApplySDN commits all pending SDN changes and releases the lock. The
// returned task reloads the network on every node.
func (c *Client) ApplySDN(ctx context.Context, lock string) error {
	params := NewParams().Set("lock-token", lock).SetAlways("release-lock", "1")
	var upid UPID
	if err := c.put(ctx, "/cluster/sdn", params, &upid); err != nil {
		return fmt.Errorf("failed to apply SDN configuration: %w", err)
	}
	if upid == "" {
		return nil
	}
	if err := c.WaitForTask(ctx, upid); err != nil {
		return fmt.Errorf("SDN apply task failed: %w", err)
	}
	return nil
}

// RollbackSDN discards all pending SDN changes and releases the lock.
func (c *Client) RollbackSDN(ctx context.Context, lock string) error {
	params := NewParams().Set("lock-token", lock).SetAlways("release-lock", "1")
	if err := c.post(ctx, "/cluster/sdn/rollback", params, nil); err != nil {
		return fmt.Errorf("failed to roll back SDN configuration: %w", err)
	}
	return nil
}

// ReleaseSDNLock drops the lock without applying. force breaks a lock
// whose token has been lost.
func (c *Client) ReleaseSDNLock(ctx context.Context, lock string, force bool) error {
	params := NewParams().Set("lock-token", lock)
	if force {
		params.SetAlways("force", "1")
	}
	if err := c.del(ctx, "/cluster/sdn/lock", params, nil); err != nil {
		return fmt.Errorf("failed to release SDN lock: %w", err)
	}
	return nil
}

// ListZones returns SDN zones, optionally filtered by type.
func (c *Client) ListZones(ctx context.Context, typ string) ([]SDNZone, error) {
	query := url.Values{}
	if typ != "" {
		query.Set("type", typ)
	}
	query.Set("pending", "1")
	var zones []SDNZone
	if err := c.get(ctx, "/cluster/sdn/zones", query, &zones); err != nil {
		return nil, fmt.Errorf("failed to retrieve SDN zones: %w", err)
	}
	return zones, nil
}

// CreateZone creates an SDN zone of the given type under the lock.
func (c *Client) CreateZone(ctx context.Context, zone, typ string, opts Params, lock string) error {
	params := NewParams().Set("zone", zone).Set("type", typ).Set("lock-token", lock)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/cluster/sdn/zones", params, nil); err != nil {
		return fmt.Errorf("failed to create SDN zone %s: %w", zone, err)
	}
	return nil
}

// UpdateZone changes an existing zone. The zone type is fixed at
// creation.
func (c *Client) UpdateZone(ctx context.Context, zone string, opts Params, lock string) error {
	params := NewParams().Set("lock-token", lock)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.put(ctx, "/cluster/sdn/zones/"+zone, params, nil); err != nil {
		return fmt.Errorf("failed to update SDN zone %s: %w", zone, err)
	}
	return nil
}

// DeleteZone removes a zone. Zones with vnets cannot be deleted.
func (c *Client) DeleteZone(ctx context.Context, zone, lock string) error {
	params := NewParams().Set("lock-token", lock)
	if err := c.del(ctx, "/cluster/sdn/zones/"+zone, params, nil); err != nil {
		return fmt.Errorf("failed to delete SDN zone %s: %w", zone, err)
	}
	return nil
}

// ListVNets returns all virtual networks across zones.
func (c *Client) ListVNets(ctx context.Context) ([]SDNVNet, error) {
	query := url.Values{}
	query.Set("pending", "1")
	var vnets []SDNVNet
	if err := c.get(ctx, "/cluster/sdn/vnets", query, &vnets); err != nil {
		return nil, fmt.Errorf("failed to retrieve SDN vnets: %w", err)
	}
	return vnets, nil
}

// CreateVNet creates a virtual network inside a zone under the lock.
func (c *Client) CreateVNet(ctx context.Context, vnet, zone string, opts Params, lock string) error {
	params := NewParams().Set("vnet", vnet).Set("zone", zone).Set("lock-token", lock)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/cluster/sdn/vnets", params, nil); err != nil {
		return fmt.Errorf("failed to create SDN vnet %s: %w", vnet, err)
	}
	return nil
}

// UpdateVNet changes an existing vnet, including moving it to another
// zone.
func (c *Client) UpdateVNet(ctx context.Context, vnet string, opts Params, lock string) error {
	params := NewParams().Set("lock-token", lock)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.put(ctx, "/cluster/sdn/vnets/"+vnet, params, nil); err != nil {
		return fmt.Errorf("failed to update SDN vnet %s: %w", vnet, err)
	}
	return nil
}

// DeleteVNet removes a vnet and its subnets.
func (c *Client) DeleteVNet(ctx context.Context, vnet, lock string) error {
	params := NewParams().Set("lock-token", lock)
	if err := c.del(ctx, "/cluster/sdn/vnets/"+vnet, params, nil); err != nil {
		return fmt.Errorf("failed to delete SDN vnet %s: %w", vnet, err)
	}
	return nil
}

// ListSubnets returns the subnets of a vnet.
func (c *Client) ListSubnets(ctx context.Context, vnet string) ([]SDNSubnet, error) {
	query := url.Values{}
	query.Set("pending", "1")
	var subnets []SDNSubnet
	path := "/cluster/sdn/vnets/" + vnet + "/subnets"
	if err := c.get(ctx, path, query, &subnets); err != nil {
		return nil, fmt.Errorf("failed to retrieve subnets of vnet %s: %w", vnet, err)
	}
	return subnets, nil
}

// CreateSubnet adds a subnet to a vnet under the lock.
func (c *Client) CreateSubnet(ctx context.Context, vnet, cidr string, opts Params, lock string) error {
	params := NewParams().Set("subnet", cidr).SetAlways("type", "subnet").Set("lock-token", lock)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/cluster/sdn/vnets/"+vnet+"/subnets", params, nil); err != nil {
		return fmt.Errorf("failed to create subnet %s in vnet %s: %w", cidr, vnet, err)
	}
	return nil
}

// UpdateSubnet changes gateway, SNAT or DNS settings of a subnet. The
// subnet argument is the API id, zone-prefixed with slashes as dashes.
func (c *Client) UpdateSubnet(ctx context.Context, vnet, subnet string, opts Params, lock string) error {
	params := NewParams().Set("lock-token", lock)
	for k, v := range opts {
		params[k] = v
	}
	path := "/cluster/sdn/vnets/" + vnet + "/subnets/" + url.PathEscape(subnet)
	if err := c.put(ctx, path, params, nil); err != nil {
		return fmt.Errorf("failed to update subnet %s in vnet %s: %w", subnet, vnet, err)
	}
	return nil
}

// DeleteSubnet removes a subnet from a vnet.
func (c *Client) DeleteSubnet(ctx context.Context, vnet, subnet, lock string) error {
	params := NewParams().Set("lock-token", lock)
	path := "/cluster/sdn/vnets/" + vnet + "/subnets/" + url.PathEscape(subnet)
	if err := c.del(ctx, path, params, nil); err != nil {
		return fmt.Errorf("failed to delete subnet %s from vnet %s: %w", subnet, vnet, err)
	}
	return nil
}

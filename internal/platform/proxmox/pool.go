package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// ListPools returns all resource pools.
func (c *Client) ListPools(ctx context.Context) ([]Pool, error) {
	var pools []Pool
	if err := c.get(ctx, "/pools", nil, &pools); err != nil {
		return nil, fmt.Errorf("failed to retrieve pools: %w", err)
	}
	return pools, nil
}

// GetPool returns a pool including its members, or nil if not found.
func (c *Client) GetPool(ctx context.Context, poolid string) (*Pool, error) {
	query := url.Values{}
	query.Set("poolid", poolid)
	var pools []Pool
	if err := c.get(ctx, "/pools", query, &pools); err != nil {
		return nil, fmt.Errorf("failed to retrieve pool %s: %w", poolid, err)
	}
	for i := range pools {
		if pools[i].PoolID == poolid {
			return &pools[i], nil
		}
	}
	return nil, nil
}

// CreatePool creates a resource pool.
func (c *Client) CreatePool(ctx context.Context, poolid, comment string) error {
	params := NewParams().Set("poolid", poolid).Set("comment", comment)
	if err := c.post(ctx, "/pools", params, nil); err != nil {
		return fmt.Errorf("failed to create pool %s: %w", poolid, err)
	}
	return nil
}

// UpdatePool changes an existing pool. Besides the comment, opts may
// carry vms/storage membership changes with an optional delete flag.
func (c *Client) UpdatePool(ctx context.Context, poolid string, opts Params) error {
	params := NewParams().Set("poolid", poolid)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.put(ctx, "/pools", params, nil); err != nil {
		return fmt.Errorf("failed to update pool %s: %w", poolid, err)
	}
	return nil
}

// DeletePool removes an empty resource pool. Proxmox rejects deletion of
// pools that still hold members or storages.
func (c *Client) DeletePool(ctx context.Context, poolid string) error {
	params := NewParams().Set("poolid", poolid)
	if err := c.del(ctx, "/pools", params, nil); err != nil {
		return fmt.Errorf("failed to delete pool %s: %w", poolid, err)
	}
	return nil
}

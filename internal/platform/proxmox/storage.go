package proxmox

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListStorages returns storage definitions, optionally filtered by type.
func (c *Client) ListStorages(ctx context.Context, typ string) ([]Storage, error) {
	query := url.Values{}
	if typ != "" {
		query.Set("type", typ)
	}
	var storages []Storage
	if err := c.get(ctx, "/storage", query, &storages); err != nil {
		return nil, fmt.Errorf("failed to retrieve storages: %w", err)
	}
	return storages, nil
}

// GetStorage returns the storage with the given name, or nil if not found.
func (c *Client) GetStorage(ctx context.Context, name string) (*Storage, error) {
	var storage Storage
	if err := c.get(ctx, "/storage/"+name, nil, &storage); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve storage %s: %w", name, err)
	}
	return &storage, nil
}

// CreateStorage adds a storage definition to the cluster.
func (c *Client) CreateStorage(ctx context.Context, name, typ string, opts Params) error {
	params := NewParams().Set("storage", name).Set("type", typ)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/storage", params, nil); err != nil {
		return fmt.Errorf("failed to create storage %s: %w", name, err)
	}
	return nil
}

// UpdateStorage changes an existing storage definition. The storage type
// cannot be changed in place.
func (c *Client) UpdateStorage(ctx context.Context, name string, opts Params) error {
	if err := c.put(ctx, "/storage/"+name, opts, nil); err != nil {
		return fmt.Errorf("failed to update storage %s: %w", name, err)
	}
	return nil
}

// DeleteStorage removes a storage definition. Content on the backing
// store is left untouched.
func (c *Client) DeleteStorage(ctx context.Context, name string) error {
	if err := c.del(ctx, "/storage/"+name, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete storage %s: %w", name, err)
	}
	return nil
}

// ListStorageContent lists volumes on a storage, optionally filtered by
// content type and owning vmid.
func (c *Client) ListStorageContent(ctx context.Context, node, storage, content string, vmid int) ([]StorageContent, error) {
	query := url.Values{}
	if content != "" {
		query.Set("content", content)
	}
	if vmid != 0 {
		query.Set("vmid", strconv.Itoa(vmid))
	}
	var items []StorageContent
	path := fmt.Sprintf("/nodes/%s/storage/%s/content", node, storage)
	if err := c.get(ctx, path, query, &items); err != nil {
		return nil, fmt.Errorf("failed to list content on %s/%s: %w", node, storage, err)
	}
	return items, nil
}

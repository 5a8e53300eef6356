package proxmox

import (
	"context"
	"fmt"
)

// ListNodes returns all cluster members.
func (c *Client) ListNodes(ctx context.Context) ([]Node, error) {
	var nodes []Node
	if err := c.get(ctx, "/nodes", nil, &nodes); err != nil {
		return nil, fmt.Errorf("failed to retrieve nodes: %w", err)
	}
	return nodes, nil
}

// GetNode returns the node with the given name, or nil if not found.
func (c *Client) GetNode(ctx context.Context, name string) (*Node, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		if nodes[i].Node == name {
			return &nodes[i], nil
		}
	}
	return nil, nil
}

// GetNodeDNS returns the DNS configuration of a node.
func (c *Client) GetNodeDNS(ctx context.Context, node string) (*NodeDNS, error) {
	var dns NodeDNS
	if err := c.get(ctx, fmt.Sprintf("/nodes/%s/dns", node), nil, &dns); err != nil {
		return nil, fmt.Errorf("failed to retrieve dns config for node %s: %w", node, err)
	}
	return &dns, nil
}

// SetNodeDNS updates the DNS configuration of a node.
func (c *Client) SetNodeDNS(ctx context.Context, node string, dns NodeDNS) error {
	params := NewParams().
		Set("search", dns.Search).
		Set("dns1", dns.DNS1).
		Set("dns2", dns.DNS2).
		Set("dns3", dns.DNS3)
	if err := c.put(ctx, fmt.Sprintf("/nodes/%s/dns", node), params, nil); err != nil {
		return fmt.Errorf("failed to update dns config for node %s: %w", node, err)
	}
	return nil
}

// ShutdownNode asks the node to power off cleanly.
func (c *Client) ShutdownNode(ctx context.Context, node string) error {
	params := NewParams().Set("command", "shutdown")
	if err := c.post(ctx, fmt.Sprintf("/nodes/%s/status", node), params, nil); err != nil {
		return fmt.Errorf("failed to shut down node %s: %w", node, err)
	}
	return nil
}

// WakeNode sends a wake-on-lan packet to the node via one of its peers.
func (c *Client) WakeNode(ctx context.Context, node string) error {
	if err := c.post(ctx, fmt.Sprintf("/nodes/%s/wakeonlan", node), NewParams(), nil); err != nil {
		return fmt.Errorf("failed to wake node %s: %w", node, err)
	}
	return nil
}

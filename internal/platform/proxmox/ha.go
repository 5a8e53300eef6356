package proxmox

import (
	"context"
	"fmt"
)

// ListHAGroups returns all high availability groups.
func (c *Client) ListHAGroups(ctx context.Context) ([]HAGroup, error) {
	var groups []HAGroup
	if err := c.get(ctx, "/cluster/ha/groups", nil, &groups); err != nil {
		return nil, fmt.Errorf("failed to retrieve HA groups: %w", err)
	}
	return groups, nil
}

// CreateHAGroup creates an HA group. opts carries nodes, comment,
// restricted and nofailback.
func (c *Client) CreateHAGroup(ctx context.Context, name string, opts Params) error {
	params := NewParams().Set("group", name)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/cluster/ha/groups", params, nil); err != nil {
		return fmt.Errorf("failed to create HA group %s: %w", name, err)
	}
	return nil
}

// UpdateHAGroup changes an existing HA group.
func (c *Client) UpdateHAGroup(ctx context.Context, name string, opts Params) error {
	if err := c.put(ctx, "/cluster/ha/groups/"+name, opts, nil); err != nil {
		return fmt.Errorf("failed to update HA group %s: %w", name, err)
	}
	return nil
}

// DeleteHAGroup removes an HA group.
func (c *Client) DeleteHAGroup(ctx context.Context, name string) error {
	if err := c.del(ctx, "/cluster/ha/groups/"+name, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete HA group %s: %w", name, err)
	}
	return nil
}

// ListHAResources returns all resources under HA management.
func (c *Client) ListHAResources(ctx context.Context) ([]HAResource, error) {
	var resources []HAResource
	if err := c.get(ctx, "/cluster/ha/resources", nil, &resources); err != nil {
		return nil, fmt.Errorf("failed to retrieve HA resources: %w", err)
	}
	return resources, nil
}

// CreateHAResource places a guest under HA management. The sid names the
// guest as vm:<vmid> or ct:<vmid>.
func (c *Client) CreateHAResource(ctx context.Context, sid string, opts Params) error {
	params := NewParams().Set("sid", sid)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/cluster/ha/resources", params, nil); err != nil {
		return fmt.Errorf("failed to create HA resource %s: %w", sid, err)
	}
	return nil
}

// UpdateHAResource changes HA settings of a managed guest.
func (c *Client) UpdateHAResource(ctx context.Context, sid string, opts Params) error {
	if err := c.put(ctx, "/cluster/ha/resources/"+sid, opts, nil); err != nil {
		return fmt.Errorf("failed to update HA resource %s: %w", sid, err)
	}
	return nil
}

// DeleteHAResource removes a guest from HA management. The guest itself
// keeps running.
func (c *Client) DeleteHAResource(ctx context.Context, sid string) error {
	if err := c.del(ctx, "/cluster/ha/resources/"+sid, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete HA resource %s: %w", sid, err)
	}
	return nil
}

// ListHARules returns all affinity rules.
func (c *Client) ListHARules(ctx context.Context) ([]HARule, error) {
	var rules []HARule
	if err := c.get(ctx, "/cluster/ha/rules", nil, &rules); err != nil {
		return nil, fmt.Errorf("failed to retrieve HA rules: %w", err)
	}
	return rules, nil
}

// CreateHARule creates a node-affinity or resource-affinity rule.
func (c *Client) CreateHARule(ctx context.Context, name string, opts Params) error {
	params := NewParams().Set("rule", name)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/cluster/ha/rules", params, nil); err != nil {
		return fmt.Errorf("failed to create HA rule %s: %w", name, err)
	}
	return nil
}

// UpdateHARule changes an existing affinity rule. The rule type is fixed
// at creation.
func (c *Client) UpdateHARule(ctx context.Context, name string, opts Params) error {
	if err := c.put(ctx, "/cluster/ha/rules/"+name, opts, nil); err != nil {
		return fmt.Errorf("failed to update HA rule %s: %w", name, err)
	}
	return nil
}

// DeleteHARule removes an affinity rule.
func (c *Client) DeleteHARule(ctx context.Context, name string) error {
	if err := c.del(ctx, "/cluster/ha/rules/"+name, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete HA rule %s: %w", name, err)
	}
	return nil
}

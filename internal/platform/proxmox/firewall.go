package proxmox

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// escapeCIDR makes a CIDR safe as a path segment. The slash before the
// prefix length must not be taken as a path separator.
func escapeCIDR(cidr string) string {
	return url.PathEscape(cidr)
}

// firewallPath resolves the base path for a scope. The zero scope targets
// the cluster firewall.
func firewallPath(scope FirewallScope) string {
	switch {
	case scope.Group != "":
		return "/cluster/firewall/groups/" + scope.Group
	case scope.VMID != 0:
		return fmt.Sprintf("/nodes/%s/%s/%d/firewall", scope.Node, scope.GuestType, scope.VMID)
	case scope.Node != "":
		return fmt.Sprintf("/nodes/%s/firewall", scope.Node)
	default:
		return "/cluster/firewall"
	}
}

// rulesPath returns the rules collection for a scope. Security group
// scopes are themselves rule collections.
func rulesPath(scope FirewallScope) string {
	if scope.Group != "" {
		return firewallPath(scope)
	}
	return firewallPath(scope) + "/rules"
}

// ListFirewallRules returns the rules of the scoped firewall in position
// order.
func (c *Client) ListFirewallRules(ctx context.Context, scope FirewallScope) ([]FirewallRule, error) {
	var rules []FirewallRule
	if err := c.get(ctx, rulesPath(scope), nil, &rules); err != nil {
		return nil, fmt.Errorf("failed to retrieve firewall rules: %w", err)
	}
	return rules, nil
}

// CreateFirewallRule inserts a rule. A pos in opts inserts at that
// position, shifting later rules down.
func (c *Client) CreateFirewallRule(ctx context.Context, scope FirewallScope, opts Params) error {
	if err := c.post(ctx, rulesPath(scope), opts, nil); err != nil {
		return fmt.Errorf("failed to create firewall rule: %w", err)
	}
	return nil
}

// UpdateFirewallRule changes the rule at pos in place.
func (c *Client) UpdateFirewallRule(ctx context.Context, scope FirewallScope, pos int, opts Params) error {
	path := rulesPath(scope) + "/" + strconv.Itoa(pos)
	if err := c.put(ctx, path, opts, nil); err != nil {
		return fmt.Errorf("failed to update firewall rule at pos %d: %w", pos, err)
	}
	return nil
}

// DeleteFirewallRule removes the rule at pos. A non-empty digest guards
// against deleting a rule that changed since it was read.
func (c *Client) DeleteFirewallRule(ctx context.Context, scope FirewallScope, pos int, digest string) error {
	path := rulesPath(scope) + "/" + strconv.Itoa(pos)
	params := NewParams().Set("digest", digest)
	if err := c.del(ctx, path, params, nil); err != nil {
		return fmt.Errorf("failed to delete firewall rule at pos %d: %w", pos, err)
	}
	return nil
}

// ListAliases returns the aliases of the scoped firewall.
func (c *Client) ListAliases(ctx context.Context, scope FirewallScope) ([]FirewallAlias, error) {
	var aliases []FirewallAlias
	if err := c.get(ctx, firewallPath(scope)+"/aliases", nil, &aliases); err != nil {
		return nil, fmt.Errorf("failed to retrieve firewall aliases: %w", err)
	}
	return aliases, nil
}

// CreateAlias creates a named alias for an IP or CIDR.
func (c *Client) CreateAlias(ctx context.Context, scope FirewallScope, name, cidr, comment string) error {
	params := NewParams().Set("name", name).Set("cidr", cidr).Set("comment", comment)
	if err := c.post(ctx, firewallPath(scope)+"/aliases", params, nil); err != nil {
		return fmt.Errorf("failed to create alias %s: %w", name, err)
	}
	return nil
}

// UpdateAlias changes the target of an existing alias.
func (c *Client) UpdateAlias(ctx context.Context, scope FirewallScope, name, cidr, comment string) error {
	params := NewParams().Set("cidr", cidr).SetAlways("comment", comment)
	if err := c.put(ctx, firewallPath(scope)+"/aliases/"+name, params, nil); err != nil {
		return fmt.Errorf("failed to update alias %s: %w", name, err)
	}
	return nil
}

// DeleteAlias removes an alias.
func (c *Client) DeleteAlias(ctx context.Context, scope FirewallScope, name string) error {
	if err := c.del(ctx, firewallPath(scope)+"/aliases/"+name, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete alias %s: %w", name, err)
	}
	return nil
}

// ListIPSets returns the IP sets of the scoped firewall.
func (c *Client) ListIPSets(ctx context.Context, scope FirewallScope) ([]IPSet, error) {
	var sets []IPSet
	if err := c.get(ctx, firewallPath(scope)+"/ipset", nil, &sets); err != nil {
		return nil, fmt.Errorf("failed to retrieve IP sets: %w", err)
	}
	return sets, nil
}

// CreateIPSet creates an empty IP set.
func (c *Client) CreateIPSet(ctx context.Context, scope FirewallScope, name, comment string) error {
	params := NewParams().Set("name", name).Set("comment", comment)
	if err := c.post(ctx, firewallPath(scope)+"/ipset", params, nil); err != nil {
		return fmt.Errorf("failed to create IP set %s: %w", name, err)
	}
	return nil
}

// DeleteIPSet removes an IP set. Proxmox rejects deletion while entries
// remain.
func (c *Client) DeleteIPSet(ctx context.Context, scope FirewallScope, name string) error {
	if err := c.del(ctx, firewallPath(scope)+"/ipset/"+name, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete IP set %s: %w", name, err)
	}
	return nil
}

// ListIPSetEntries returns the CIDRs of an IP set.
func (c *Client) ListIPSetEntries(ctx context.Context, scope FirewallScope, name string) ([]IPSetEntry, error) {
	var entries []IPSetEntry
	if err := c.get(ctx, firewallPath(scope)+"/ipset/"+name, nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to retrieve entries of IP set %s: %w", name, err)
	}
	return entries, nil
}

// AddIPSetEntry adds a CIDR to an IP set. opts carries cidr, comment and
// nomatch.
func (c *Client) AddIPSetEntry(ctx context.Context, scope FirewallScope, name string, opts Params) error {
	if err := c.post(ctx, firewallPath(scope)+"/ipset/"+name, opts, nil); err != nil {
		return fmt.Errorf("failed to add entry to IP set %s: %w", name, err)
	}
	return nil
}

// UpdateIPSetEntry changes comment or nomatch of an existing entry.
func (c *Client) UpdateIPSetEntry(ctx context.Context, scope FirewallScope, name, cidr string, opts Params) error {
	path := firewallPath(scope) + "/ipset/" + name + "/" + escapeCIDR(cidr)
	if err := c.put(ctx, path, opts, nil); err != nil {
		return fmt.Errorf("failed to update entry %s of IP set %s: %w", cidr, name, err)
	}
	return nil
}

// DeleteIPSetEntry removes a CIDR from an IP set.
func (c *Client) DeleteIPSetEntry(ctx context.Context, scope FirewallScope, name, cidr string) error {
	path := firewallPath(scope) + "/ipset/" + name + "/" + escapeCIDR(cidr)
	if err := c.del(ctx, path, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete entry %s from IP set %s: %w", cidr, name, err)
	}
	return nil
}

// ListSecurityGroups returns all cluster security groups.
func (c *Client) ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error) {
	var groups []SecurityGroup
	if err := c.get(ctx, "/cluster/firewall/groups", nil, &groups); err != nil {
		return nil, fmt.Errorf("failed to retrieve security groups: %w", err)
	}
	return groups, nil
}

// CreateSecurityGroup creates an empty security group. Rules are managed
// through the rule operations with a group scope.
func (c *Client) CreateSecurityGroup(ctx context.Context, group, comment string) error {
	params := NewParams().Set("group", group).Set("comment", comment)
	if err := c.post(ctx, "/cluster/firewall/groups", params, nil); err != nil {
		return fmt.Errorf("failed to create security group %s: %w", group, err)
	}
	return nil
}

// DeleteSecurityGroup removes a security group and its rules.
func (c *Client) DeleteSecurityGroup(ctx context.Context, group string) error {
	if err := c.del(ctx, "/cluster/firewall/groups/"+group, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete security group %s: %w", group, err)
	}
	return nil
}

package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

// Hostvars are the per-host variables exposed under _meta.hostvars.
type Hostvars struct {
	VMID     int      `json:"proxmox_vmid"`
	Name     string   `json:"proxmox_name"`
	Node     string   `json:"proxmox_node"`
	Type     string   `json:"proxmox_type"`
	Status   string   `json:"proxmox_status"`
	Pool     string   `json:"proxmox_pool,omitempty"`
	Tags     []string `json:"proxmox_tags,omitempty"`
	Template bool     `json:"proxmox_template"`
	MaxCPU   int      `json:"proxmox_maxcpu,omitempty"`
	MaxMem   int64    `json:"proxmox_maxmem,omitempty"`
	Uptime   int64    `json:"proxmox_uptime,omitempty"`
}

// Inventory is a built dynamic inventory: hosts with their variables and
// named groups.
type Inventory struct {
	Hostvars map[string]Hostvars `json:"hostvars"`
	Groups   map[string][]string `json:"groups"`
}

// Options controls how the inventory is built.
type Options struct {
	// Prefix is prepended to every group name. Defaults to "proxmox".
	Prefix string
	// IncludeTemplates includes template guests, excluded by default.
	IncludeTemplates bool
	// TypeFilter restricts hosts to one guest type, "qemu" or "lxc".
	TypeFilter string
}

func (o Options) prefix() string {
	if o.Prefix == "" {
		return "proxmox"
	}
	return o.Prefix
}

// Build assembles the inventory from the cluster's current resources.
func Build(ctx context.Context, client proxmox.GuestManager, opts Options) (*Inventory, error) {
	guests, err := client.ListGuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster resources: %w", err)
	}

	inv := &Inventory{
		Hostvars: make(map[string]Hostvars),
		Groups:   make(map[string][]string),
	}
	prefix := opts.prefix()

	for _, guest := range guests {
		if guest.Type != "qemu" && guest.Type != "lxc" {
			continue
		}
		if opts.TypeFilter != "" && guest.Type != opts.TypeFilter {
			continue
		}
		if guest.Template.Bool() && !opts.IncludeTemplates {
			continue
		}

		host := hostName(guest)
		inv.Hostvars[host] = Hostvars{
			VMID:     guest.VMID.Int(),
			Name:     guest.Name,
			Node:     guest.Node,
			Type:     guest.Type,
			Status:   guest.Status,
			Pool:     guest.Pool,
			Tags:     guest.TagList(),
			Template: guest.Template.Bool(),
			MaxCPU:   guest.MaxCPU,
			MaxMem:   guest.MaxMem,
			Uptime:   guest.Uptime,
		}

		inv.addToGroup(groupName(prefix, "all", guest.Type), host)
		if guest.Node != "" {
			inv.addToGroup(groupName(prefix, "node", guest.Node), host)
		}
		if guest.Status != "" {
			inv.addToGroup(groupName(prefix, "all", guest.Status), host)
		}
		if guest.Pool != "" {
			inv.addToGroup(groupName(prefix, "pool", guest.Pool), host)
		}
		for _, tag := range guest.TagList() {
			inv.addToGroup(groupName(prefix, "tag", tag), host)
		}
	}

	for name := range inv.Groups {
		sort.Strings(inv.Groups[name])
	}
	return inv, nil
}

func (inv *Inventory) addToGroup(group, host string) {
	for _, existing := range inv.Groups[group] {
		if existing == host {
			return
		}
	}
	inv.Groups[group] = append(inv.Groups[group], host)
}

// hostName prefers the guest name, falling back to the vmid for unnamed
// guests.
func hostName(guest proxmox.ClusterResource) string {
	if guest.Name != "" {
		return guest.Name
	}
	return fmt.Sprintf("vm-%d", guest.VMID.Int())
}

// groupName joins and sanitizes a group name. Ansible group names only
// allow letters, digits and underscores.
func groupName(parts ...string) string {
	name := strings.Join(parts, "_")
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ansibleGroup is one group object in the rendered inventory.
type ansibleGroup struct {
	Hosts []string `json:"hosts"`
}

// MarshalAnsible renders the inventory in the JSON shape `ansible-inventory
// --list` expects: _meta.hostvars plus one object per group, and an "all"
// group whose children list every other group.
func (inv *Inventory) MarshalAnsible() ([]byte, error) {
	out := make(map[string]any, len(inv.Groups)+2)
	out["_meta"] = map[string]any{"hostvars": inv.Hostvars}

	children := make([]string, 0, len(inv.Groups)+1)
	children = append(children, "ungrouped")
	for name, hosts := range inv.Groups {
		out[name] = ansibleGroup{Hosts: hosts}
		children = append(children, name)
	}
	sort.Strings(children)
	out["all"] = map[string]any{"children": children}

	return json.MarshalIndent(out, "", "  ")
}

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// VMID bounds enforced by Proxmox VE.
const (
	MinVMID = 100
	MaxVMID = 999999999
)

var zoneRequirements = map[string][]string{
	"simple": {},
	"vlan":   {"bridge"},
	"qinq":   {"bridge", "tag", "vlan_protocol"},
	"vxlan":  {"peers"},
	"evpn":   {"controller", "vrf_vxlan"},
}

// Validate checks the manifest for structural problems before any API
// call is made. It returns the first error found with enough context to
// locate the offending entry.
func (m *Manifest) Validate() error {
	if m.Connection != nil && m.Connection.Port != 0 {
		if m.Connection.Port < 1 || m.Connection.Port > 65535 {
			return fmt.Errorf("connection: invalid port %d", m.Connection.Port)
		}
	}

	for i, p := range m.Pools {
		if p.PoolID == "" {
			return fmt.Errorf("pools[%d]: poolid is required", i)
		}
		if err := validateState(p.State); err != nil {
			return fmt.Errorf("pool %q: %w", p.PoolID, err)
		}
	}

	for i, r := range m.Roles {
		if r.RoleID == "" {
			return fmt.Errorf("roles[%d]: roleid is required", i)
		}
		if err := validateState(r.State); err != nil {
			return fmt.Errorf("role %q: %w", r.RoleID, err)
		}
	}

	for i, g := range m.Groups {
		if g.GroupID == "" {
			return fmt.Errorf("groups[%d]: groupid is required", i)
		}
		if err := validateState(g.State); err != nil {
			return fmt.Errorf("group %q: %w", g.GroupID, err)
		}
	}

	for i, u := range m.Users {
		if u.UserID == "" {
			return fmt.Errorf("users[%d]: userid is required", i)
		}
		if !strings.Contains(u.UserID, "@") {
			return fmt.Errorf("user %q: userid must include a realm (user@realm)", u.UserID)
		}
		if err := validateState(u.State); err != nil {
			return fmt.Errorf("user %q: %w", u.UserID, err)
		}
	}

	for i, a := range m.ACLs {
		if EffectiveState(a.State) == StatePresent {
			if a.Path == "" || a.RoleID == "" || a.Type == "" || a.UGID == "" {
				return fmt.Errorf("acls[%d]: path, roleid, type and ugid are required when present", i)
			}
		} else if a.Path == "" {
			return fmt.Errorf("acls[%d]: path is required", i)
		}
		if a.Type != "" && a.Type != "user" && a.Type != "group" && a.Type != "token" {
			return fmt.Errorf("acls[%d]: type must be user, group or token, got %q", i, a.Type)
		}
		if err := validateState(a.State); err != nil {
			return fmt.Errorf("acls[%d]: %w", i, err)
		}
	}

	for i, s := range m.Storages {
		if s.Name == "" {
			return fmt.Errorf("storages[%d]: name is required", i)
		}
		if EffectiveState(s.State) == StatePresent && s.Type == "" {
			return fmt.Errorf("storage %q: type is required", s.Name)
		}
		if err := validateState(s.State); err != nil {
			return fmt.Errorf("storage %q: %w", s.Name, err)
		}
	}

	if err := m.HA.validate(); err != nil {
		return err
	}
	if err := m.Firewall.validate(); err != nil {
		return err
	}
	if err := m.SDN.validate(); err != nil {
		return err
	}

	for i, g := range m.Guests {
		if g.VMID == 0 && g.Name == "" {
			return fmt.Errorf("guests[%d]: vmid or name is required", i)
		}
		if g.VMID != 0 && (g.VMID < MinVMID || g.VMID > MaxVMID) {
			return fmt.Errorf("guests[%d]: vmid %d out of range [%d, %d]", i, g.VMID, MinVMID, MaxVMID)
		}
		if g.Type != "" && g.Type != "qemu" && g.Type != "lxc" {
			return fmt.Errorf("guests[%d]: type must be qemu or lxc, got %q", i, g.Type)
		}
		switch g.State {
		case "", GuestStarted, GuestStopped:
		default:
			return fmt.Errorf("guests[%d]: state must be started or stopped, got %q", i, g.State)
		}
	}

	return nil
}

func (h *HASpec) validate() error {
	for i, g := range h.Groups {
		if g.Name == "" {
			return fmt.Errorf("ha.groups[%d]: name is required", i)
		}
		if EffectiveState(g.State) == StatePresent && len(g.Nodes) == 0 {
			return fmt.Errorf("ha group %q: at least one node is required", g.Name)
		}
		if err := validateState(g.State); err != nil {
			return fmt.Errorf("ha group %q: %w", g.Name, err)
		}
	}

	for i, r := range h.Resources {
		if r.SID == "" {
			return fmt.Errorf("ha.resources[%d]: sid is required", i)
		}
		if err := ValidateSID(r.SID); err != nil {
			return fmt.Errorf("ha resource %q: %w", r.SID, err)
		}
		switch r.HAState {
		case "", "started", "stopped", "disabled", "ignored":
		default:
			return fmt.Errorf("ha resource %q: invalid hastate %q", r.SID, r.HAState)
		}
		if err := validateState(r.State); err != nil {
			return fmt.Errorf("ha resource %q: %w", r.SID, err)
		}
	}

	for i, r := range h.Rules {
		if r.Name == "" {
			return fmt.Errorf("ha.rules[%d]: name is required", i)
		}
		switch r.Type {
		case "node-affinity", "resource-affinity":
		case "":
			if EffectiveState(r.State) == StatePresent {
				return fmt.Errorf("ha rule %q: type is required", r.Name)
			}
		default:
			return fmt.Errorf("ha rule %q: invalid type %q", r.Name, r.Type)
		}
		if r.Type == "node-affinity" && EffectiveState(r.State) == StatePresent && len(r.Nodes) == 0 {
			return fmt.Errorf("ha rule %q: node-affinity rules need nodes", r.Name)
		}
		if r.Type == "resource-affinity" && EffectiveState(r.State) == StatePresent {
			switch r.Affinity {
			case "positive", "negative":
			default:
				return fmt.Errorf("ha rule %q: resource-affinity rules need affinity positive or negative", r.Name)
			}
		}
		if err := validateState(r.State); err != nil {
			return fmt.Errorf("ha rule %q: %w", r.Name, err)
		}
	}

	return nil
}

func (f *FirewallSpec) validate() error {
	if err := validateRules("firewall.rules", f.Rules); err != nil {
		return err
	}
	for _, g := range f.Groups {
		if g.Name == "" {
			return fmt.Errorf("firewall security group: name is required")
		}
		if err := validateState(g.State); err != nil {
			return fmt.Errorf("firewall security group %q: %w", g.Name, err)
		}
		if err := validateRules(fmt.Sprintf("firewall group %q rules", g.Name), g.Rules); err != nil {
			return err
		}
	}
	for i, a := range f.Aliases {
		if a.Name == "" {
			return fmt.Errorf("firewall.aliases[%d]: name is required", i)
		}
		if EffectiveState(a.State) == StatePresent && a.CIDR == "" {
			return fmt.Errorf("firewall alias %q: cidr is required", a.Name)
		}
		if err := validateState(a.State); err != nil {
			return fmt.Errorf("firewall alias %q: %w", a.Name, err)
		}
	}
	for i, s := range f.IPSets {
		if s.Name == "" {
			return fmt.Errorf("firewall.ipsets[%d]: name is required", i)
		}
		for j, e := range s.Entries {
			if e.CIDR == "" {
				return fmt.Errorf("firewall ipset %q entries[%d]: cidr is required", s.Name, j)
			}
		}
		if err := validateState(s.State); err != nil {
			return fmt.Errorf("firewall ipset %q: %w", s.Name, err)
		}
	}
	return nil
}

func validateRules(where string, rules []FirewallRuleSpec) error {
	seen := make(map[int]bool, len(rules))
	for i, r := range rules {
		if seen[r.Pos] {
			return fmt.Errorf("%s[%d]: duplicate pos %d", where, i, r.Pos)
		}
		seen[r.Pos] = true
		switch r.Type {
		case "in", "out", "group":
		default:
			return fmt.Errorf("%s[%d]: type must be in, out or group, got %q", where, i, r.Type)
		}
		if r.Type != "group" && r.Action == "" {
			return fmt.Errorf("%s[%d]: action is required", where, i)
		}
	}
	return nil
}

func (s *SDNSpec) validate() error {
	zones := make(map[string]bool, len(s.Zones))
	for i, z := range s.Zones {
		if z.Zone == "" {
			return fmt.Errorf("sdn.zones[%d]: zone is required", i)
		}
		zones[z.Zone] = true
		if EffectiveState(z.State) == StatePresent {
			reqs, ok := zoneRequirements[z.Type]
			if !ok {
				return fmt.Errorf("sdn zone %q: invalid type %q", z.Zone, z.Type)
			}
			for _, req := range reqs {
				if !zoneHasField(&z, req) {
					return fmt.Errorf("sdn zone %q: type %s requires %s", z.Zone, z.Type, strings.Join(reqs, ", "))
				}
			}
		}
		if err := validateState(z.State); err != nil {
			return fmt.Errorf("sdn zone %q: %w", z.Zone, err)
		}
	}

	vnets := make(map[string]bool, len(s.VNets))
	for i, v := range s.VNets {
		if v.VNet == "" {
			return fmt.Errorf("sdn.vnets[%d]: vnet is required", i)
		}
		vnets[v.VNet] = true
		if EffectiveState(v.State) == StatePresent && v.Zone == "" {
			return fmt.Errorf("sdn vnet %q: zone is required", v.VNet)
		}
		if err := validateState(v.State); err != nil {
			return fmt.Errorf("sdn vnet %q: %w", v.VNet, err)
		}
	}

	for i, sub := range s.Subnets {
		if sub.CIDR == "" {
			return fmt.Errorf("sdn.subnets[%d]: cidr is required", i)
		}
		if EffectiveState(sub.State) == StatePresent && sub.VNet == "" {
			return fmt.Errorf("sdn subnet %q: vnet is required", sub.CIDR)
		}
		if err := validateState(sub.State); err != nil {
			return fmt.Errorf("sdn subnet %q: %w", sub.CIDR, err)
		}
	}

	return nil
}

func zoneHasField(z *SDNZoneSpec, field string) bool {
	switch field {
	case "bridge":
		return z.Bridge != ""
	case "tag":
		return z.Tag != 0
	case "vlan_protocol":
		return z.VlanProtocol != ""
	case "peers":
		return len(z.Peers) > 0
	case "controller":
		return z.Controller != ""
	case "vrf_vxlan":
		return z.VRFVXLAN != 0
	}
	return false
}

func validateState(state string) error {
	switch state {
	case "", StatePresent, StateAbsent:
		return nil
	}
	return fmt.Errorf("state must be present or absent, got %q", state)
}

// ValidateSID checks an HA service identifier of the form "vm:100" or
// "ct:101".
func ValidateSID(sid string) error {
	typ, id, ok := strings.Cut(sid, ":")
	if !ok {
		return fmt.Errorf("sid must look like vm:<vmid> or ct:<vmid>, got %q", sid)
	}
	if typ != "vm" && typ != "ct" {
		return fmt.Errorf("sid type must be vm or ct, got %q", typ)
	}
	vmid, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("sid vmid %q is not a number", id)
	}
	if vmid < MinVMID || vmid > MaxVMID {
		return fmt.Errorf("sid vmid %d out of range [%d, %d]", vmid, MinVMID, MaxVMID)
	}
	return nil
}

package config

// Resource state values shared by every spec.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// Guest desired power states.
const (
	GuestStarted = "started"
	GuestStopped = "stopped"
)

// Manifest is the declarative description of a Proxmox VE cluster.
type Manifest struct {
	// Cluster is a free-form name used in logs and the inventory.
	Cluster string `mapstructure:"cluster" yaml:"cluster"`

	// Connection optionally overrides environment-derived settings.
	Connection *Connection `mapstructure:"connection" yaml:"connection,omitempty"`

	Pools    []PoolSpec    `mapstructure:"pools" yaml:"pools,omitempty"`
	Roles    []RoleSpec    `mapstructure:"roles" yaml:"roles,omitempty"`
	Groups   []GroupSpec   `mapstructure:"groups" yaml:"groups,omitempty"`
	Users    []UserSpec    `mapstructure:"users" yaml:"users,omitempty"`
	ACLs     []ACLSpec     `mapstructure:"acls" yaml:"acls,omitempty"`
	Storages []StorageSpec `mapstructure:"storages" yaml:"storages,omitempty"`

	HA       HASpec       `mapstructure:"ha" yaml:"ha,omitempty"`
	Firewall FirewallSpec `mapstructure:"firewall" yaml:"firewall,omitempty"`
	SDN      SDNSpec      `mapstructure:"sdn" yaml:"sdn,omitempty"`

	Guests []GuestSpec `mapstructure:"guests" yaml:"guests,omitempty"`
}

// PoolSpec declares a resource pool.
type PoolSpec struct {
	PoolID  string `mapstructure:"poolid" yaml:"poolid"`
	Comment string `mapstructure:"comment" yaml:"comment,omitempty"`
	State   string `mapstructure:"state" yaml:"state,omitempty"`
}

// RoleSpec declares an access role with its privilege set.
type RoleSpec struct {
	RoleID string   `mapstructure:"roleid" yaml:"roleid"`
	Privs  []string `mapstructure:"privs" yaml:"privs,omitempty"`
	State  string   `mapstructure:"state" yaml:"state,omitempty"`
}

// GroupSpec declares an access group.
type GroupSpec struct {
	GroupID string `mapstructure:"groupid" yaml:"groupid"`
	Comment string `mapstructure:"comment" yaml:"comment,omitempty"`
	State   string `mapstructure:"state" yaml:"state,omitempty"`
}

// UserSpec declares a user account.
type UserSpec struct {
	UserID    string   `mapstructure:"userid" yaml:"userid"`
	Comment   string   `mapstructure:"comment" yaml:"comment,omitempty"`
	Email     string   `mapstructure:"email" yaml:"email,omitempty"`
	Enable    *bool    `mapstructure:"enable" yaml:"enable,omitempty"`
	Expire    int64    `mapstructure:"expire" yaml:"expire,omitempty"`
	Firstname string   `mapstructure:"firstname" yaml:"firstname,omitempty"`
	Lastname  string   `mapstructure:"lastname" yaml:"lastname,omitempty"`
	Groups    []string `mapstructure:"groups" yaml:"groups,omitempty"`
	// Password is only honoured for pve realm users and always reported
	// as changed when set, since the API offers no way to compare it.
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Keys     string `mapstructure:"keys" yaml:"keys,omitempty"`
	State    string `mapstructure:"state" yaml:"state,omitempty"`
}

// ACLSpec declares a single access control entry.
type ACLSpec struct {
	Path      string `mapstructure:"path" yaml:"path"`
	RoleID    string `mapstructure:"roleid" yaml:"roleid"`
	Type      string `mapstructure:"type" yaml:"type"` // user, group or token
	UGID      string `mapstructure:"ugid" yaml:"ugid"`
	Propagate *bool  `mapstructure:"propagate" yaml:"propagate,omitempty"`
	State     string `mapstructure:"state" yaml:"state,omitempty"`
}

// StorageSpec declares a storage definition.
type StorageSpec struct {
	Name    string   `mapstructure:"name" yaml:"name"`
	Type    string   `mapstructure:"type" yaml:"type"`
	Content []string `mapstructure:"content" yaml:"content,omitempty"`
	Nodes   []string `mapstructure:"nodes" yaml:"nodes,omitempty"`
	Path    string   `mapstructure:"path" yaml:"path,omitempty"`
	Server  string   `mapstructure:"server" yaml:"server,omitempty"`
	Export  string   `mapstructure:"export" yaml:"export,omitempty"`
	Disable *bool    `mapstructure:"disable" yaml:"disable,omitempty"`
	Shared  *bool    `mapstructure:"shared" yaml:"shared,omitempty"`
	// Options carries backend-specific keys passed through verbatim
	// (pool, vgname, iscsiprovider, ...).
	Options map[string]string `mapstructure:"options" yaml:"options,omitempty"`
	State   string            `mapstructure:"state" yaml:"state,omitempty"`
}

// HASpec groups the high availability resources.
type HASpec struct {
	Groups    []HAGroupSpec    `mapstructure:"groups" yaml:"groups,omitempty"`
	Resources []HAResourceSpec `mapstructure:"resources" yaml:"resources,omitempty"`
	Rules     []HARuleSpec     `mapstructure:"rules" yaml:"rules,omitempty"`
}

// HAGroupSpec declares an HA group.
type HAGroupSpec struct {
	Name string `mapstructure:"name" yaml:"name"`
	// Nodes maps node names to optional priorities, rendered as
	// "node1:2,node2" on the wire.
	Nodes      []string `mapstructure:"nodes" yaml:"nodes"`
	Comment    string   `mapstructure:"comment" yaml:"comment,omitempty"`
	Restricted *bool    `mapstructure:"restricted" yaml:"restricted,omitempty"`
	NoFailback *bool    `mapstructure:"nofailback" yaml:"nofailback,omitempty"`
	State      string   `mapstructure:"state" yaml:"state,omitempty"`
}

// HAResourceSpec declares an HA-managed guest or service.
type HAResourceSpec struct {
	// SID is the service identifier, e.g. "vm:100" or "ct:101".
	SID         string `mapstructure:"sid" yaml:"sid"`
	Comment     string `mapstructure:"comment" yaml:"comment,omitempty"`
	Group       string `mapstructure:"group" yaml:"group,omitempty"`
	MaxRelocate int    `mapstructure:"max_relocate" yaml:"max_relocate,omitempty"`
	MaxRestart  int    `mapstructure:"max_restart" yaml:"max_restart,omitempty"`
	// HAState is the requested resource state: started, stopped,
	// disabled or ignored.
	HAState string `mapstructure:"hastate" yaml:"hastate,omitempty"`
	State   string `mapstructure:"state" yaml:"state,omitempty"`
}

// HARuleSpec declares an HA affinity rule.
type HARuleSpec struct {
	Name      string   `mapstructure:"name" yaml:"name"`
	Type      string   `mapstructure:"type" yaml:"type"` // node-affinity or resource-affinity
	Resources []string `mapstructure:"resources" yaml:"resources"`
	Nodes     []string `mapstructure:"nodes" yaml:"nodes,omitempty"`
	Affinity  string   `mapstructure:"affinity" yaml:"affinity,omitempty"` // positive or negative
	Comment   string   `mapstructure:"comment" yaml:"comment,omitempty"`
	Disable   *bool    `mapstructure:"disable" yaml:"disable,omitempty"`
	State     string   `mapstructure:"state" yaml:"state,omitempty"`
}

// FirewallSpec declares cluster-level firewall configuration.
type FirewallSpec struct {
	Rules   []FirewallRuleSpec  `mapstructure:"rules" yaml:"rules,omitempty"`
	Groups  []SecurityGroupSpec `mapstructure:"security_groups" yaml:"security_groups,omitempty"`
	Aliases []AliasSpec         `mapstructure:"aliases" yaml:"aliases,omitempty"`
	IPSets  []IPSetSpec         `mapstructure:"ipsets" yaml:"ipsets,omitempty"`
}

// FirewallRuleSpec declares a single firewall rule. Rules are keyed by
// position within their rule list.
type FirewallRuleSpec struct {
	Pos      int    `mapstructure:"pos" yaml:"pos"`
	Type     string `mapstructure:"type" yaml:"type"` // in, out or group
	Action   string `mapstructure:"action" yaml:"action"`
	Source   string `mapstructure:"source" yaml:"source,omitempty"`
	Dest     string `mapstructure:"dest" yaml:"dest,omitempty"`
	Proto    string `mapstructure:"proto" yaml:"proto,omitempty"`
	DPort    string `mapstructure:"dport" yaml:"dport,omitempty"`
	SPort    string `mapstructure:"sport" yaml:"sport,omitempty"`
	Macro    string `mapstructure:"macro" yaml:"macro,omitempty"`
	IFace    string `mapstructure:"iface" yaml:"iface,omitempty"`
	Log      string `mapstructure:"log" yaml:"log,omitempty"`
	ICMPType string `mapstructure:"icmp_type" yaml:"icmp_type,omitempty"`
	Comment  string `mapstructure:"comment" yaml:"comment,omitempty"`
	Enable   *bool  `mapstructure:"enable" yaml:"enable,omitempty"`
}

// SecurityGroupSpec declares a reusable rule group.
type SecurityGroupSpec struct {
	Name    string             `mapstructure:"name" yaml:"name"`
	Comment string             `mapstructure:"comment" yaml:"comment,omitempty"`
	Rules   []FirewallRuleSpec `mapstructure:"rules" yaml:"rules,omitempty"`
	State   string             `mapstructure:"state" yaml:"state,omitempty"`
}

// AliasSpec declares a named IP/CIDR alias.
type AliasSpec struct {
	Name    string `mapstructure:"name" yaml:"name"`
	CIDR    string `mapstructure:"cidr" yaml:"cidr"`
	Comment string `mapstructure:"comment" yaml:"comment,omitempty"`
	State   string `mapstructure:"state" yaml:"state,omitempty"`
}

// IPSetSpec declares a named set of CIDRs.
type IPSetSpec struct {
	Name    string           `mapstructure:"name" yaml:"name"`
	Comment string           `mapstructure:"comment" yaml:"comment,omitempty"`
	Entries []IPSetEntrySpec `mapstructure:"entries" yaml:"entries,omitempty"`
	State   string           `mapstructure:"state" yaml:"state,omitempty"`
}

// IPSetEntrySpec is a single CIDR inside an IP set.
type IPSetEntrySpec struct {
	CIDR    string `mapstructure:"cidr" yaml:"cidr"`
	Comment string `mapstructure:"comment" yaml:"comment,omitempty"`
	NoMatch *bool  `mapstructure:"nomatch" yaml:"nomatch,omitempty"`
}

// SDNSpec groups software-defined networking resources.
type SDNSpec struct {
	Zones   []SDNZoneSpec   `mapstructure:"zones" yaml:"zones,omitempty"`
	VNets   []SDNVNetSpec   `mapstructure:"vnets" yaml:"vnets,omitempty"`
	Subnets []SDNSubnetSpec `mapstructure:"subnets" yaml:"subnets,omitempty"`
}

// SDNZoneSpec declares an SDN zone.
type SDNZoneSpec struct {
	Zone         string   `mapstructure:"zone" yaml:"zone"`
	Type         string   `mapstructure:"type" yaml:"type"` // simple, vlan, qinq, vxlan or evpn
	Bridge       string   `mapstructure:"bridge" yaml:"bridge,omitempty"`
	Tag          int      `mapstructure:"tag" yaml:"tag,omitempty"`
	VlanProtocol string   `mapstructure:"vlan_protocol" yaml:"vlan_protocol,omitempty"` // 802.1q or 802.1ad
	Controller   string   `mapstructure:"controller" yaml:"controller,omitempty"`
	VRFVXLAN     int      `mapstructure:"vrf_vxlan" yaml:"vrf_vxlan,omitempty"`
	Peers        []string `mapstructure:"peers" yaml:"peers,omitempty"`
	MTU          int      `mapstructure:"mtu" yaml:"mtu,omitempty"`
	Nodes        []string `mapstructure:"nodes" yaml:"nodes,omitempty"`
	IPAM         string   `mapstructure:"ipam" yaml:"ipam,omitempty"`
	DNS          string   `mapstructure:"dns" yaml:"dns,omitempty"`
	DNSZone      string   `mapstructure:"dnszone" yaml:"dnszone,omitempty"`
	ReverseDNS   string   `mapstructure:"reversedns" yaml:"reversedns,omitempty"`
	State        string   `mapstructure:"state" yaml:"state,omitempty"`
}

// SDNVNetSpec declares a virtual network inside a zone.
type SDNVNetSpec struct {
	VNet      string `mapstructure:"vnet" yaml:"vnet"`
	Zone      string `mapstructure:"zone" yaml:"zone"`
	Tag       int    `mapstructure:"tag" yaml:"tag,omitempty"`
	Alias     string `mapstructure:"alias" yaml:"alias,omitempty"`
	VlanAware *bool  `mapstructure:"vlanaware" yaml:"vlanaware,omitempty"`
	State     string `mapstructure:"state" yaml:"state,omitempty"`
}

// SDNSubnetSpec declares a subnet inside a vnet.
type SDNSubnetSpec struct {
	CIDR          string `mapstructure:"cidr" yaml:"cidr"`
	VNet          string `mapstructure:"vnet" yaml:"vnet"`
	Gateway       string `mapstructure:"gateway" yaml:"gateway,omitempty"`
	SNAT          *bool  `mapstructure:"snat" yaml:"snat,omitempty"`
	DNSZonePrefix string `mapstructure:"dnszoneprefix" yaml:"dnszoneprefix,omitempty"`
	State         string `mapstructure:"state" yaml:"state,omitempty"`
}

// GuestSpec declares the desired power state of an existing VM or container.
type GuestSpec struct {
	VMID int    `mapstructure:"vmid" yaml:"vmid"`
	Name string `mapstructure:"name" yaml:"name,omitempty"`
	Node string `mapstructure:"node" yaml:"node,omitempty"`
	Type string `mapstructure:"type" yaml:"type,omitempty"` // qemu or lxc; discovered when empty
	// State is started or stopped.
	State string `mapstructure:"state" yaml:"state,omitempty"`
	// Tags replaces the guest's tag list when set.
	Tags []string `mapstructure:"tags" yaml:"tags,omitempty"`
}

// EffectiveState normalises an empty state to present.
func EffectiveState(state string) string {
	if state == "" {
		return StatePresent
	}
	return state
}

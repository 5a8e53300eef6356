package proxmox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// IntBool is a boolean that Proxmox encodes as 0/1, sometimes as the
// strings "0"/"1" and occasionally as a real JSON boolean.
type IntBool bool

// UnmarshalJSON accepts 0/1, "0"/"1", true/false.
func (b *IntBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch s {
	case "1", "true":
		*b = true
	case "0", "false", "", "null":
		*b = false
	default:
		return fmt.Errorf("cannot decode %q as proxmox boolean", s)
	}
	return nil
}

// MarshalJSON encodes as 0/1 the way the API expects.
func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Bool returns the plain boolean value.
func (b IntBool) Bool() bool { return bool(b) }

// FlexInt is an integer that some endpoints return as a JSON string.
type FlexInt int64

// UnmarshalJSON accepts numbers and numeric strings.
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	// Some fields (cpu load) arrive as floats; truncate.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot decode %q as proxmox integer", s)
	}
	*i = FlexInt(int64(f))
	return nil
}

// MarshalJSON encodes as a plain number.
func (i FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(i), 10)), nil
}

// Int returns the value as an int.
func (i FlexInt) Int() int { return int(i) }

// StringList is a field that arrives either as a comma-separated string
// or as a JSON array (user groups do both depending on the endpoint).
type StringList []string

// UnmarshalJSON accepts ["a","b"] and "a,b".
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(s, ",")
	return nil
}

// MarshalJSON encodes as a comma-separated string, the wire format the
// API accepts on writes.
func (l StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(l, ","))
}

// VersionInfo is the response of GET /version.
type VersionInfo struct {
	Version string `json:"version"`
	Release string `json:"release"`
	RepoID  string `json:"repoid"`
}

// Node is one entry of GET /nodes.
type Node struct {
	Node    string  `json:"node"`
	Status  string  `json:"status"`
	CPU     float64 `json:"cpu"`
	MaxCPU  int     `json:"maxcpu"`
	Mem     int64   `json:"mem"`
	MaxMem  int64   `json:"maxmem"`
	Disk    int64   `json:"disk"`
	MaxDisk int64   `json:"maxdisk"`
	Uptime  int64   `json:"uptime"`
}

// NodeDNS is the DNS configuration of a node.
type NodeDNS struct {
	Search string `json:"search"`
	DNS1   string `json:"dns1,omitempty"`
	DNS2   string `json:"dns2,omitempty"`
	DNS3   string `json:"dns3,omitempty"`
}

// ClusterResource is one entry of GET /cluster/resources.
type ClusterResource struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"` // qemu, lxc, node, storage, ...
	VMID     FlexInt `json:"vmid,omitempty"`
	Name     string  `json:"name,omitempty"`
	Node     string  `json:"node,omitempty"`
	Status   string  `json:"status,omitempty"`
	Pool     string  `json:"pool,omitempty"`
	Tags     string  `json:"tags,omitempty"`
	Template IntBool `json:"template,omitempty"`
	MaxCPU   int     `json:"maxcpu,omitempty"`
	MaxMem   int64   `json:"maxmem,omitempty"`
	MaxDisk  int64   `json:"maxdisk,omitempty"`
	Uptime   int64   `json:"uptime,omitempty"`
}

// TagList splits the semicolon-separated tag string.
func (r *ClusterResource) TagList() []string {
	if r.Tags == "" {
		return nil
	}
	return strings.Split(r.Tags, ";")
}

// GuestStatus is the response of GET /nodes/{node}/{qemu|lxc}/{vmid}/status/current.
type GuestStatus struct {
	VMID   FlexInt `json:"vmid"`
	Name   string  `json:"name"`
	Status string  `json:"status"` // running, stopped, paused
	QMP    string  `json:"qmpstatus,omitempty"`
	Uptime int64   `json:"uptime"`
	CPUs   float64 `json:"cpus"`
	MaxMem int64   `json:"maxmem"`
	Tags   string  `json:"tags,omitempty"`
}

// Storage is one entry of GET /storage.
type Storage struct {
	Storage string  `json:"storage"`
	Type    string  `json:"type"`
	Content string  `json:"content,omitempty"`
	Nodes   string  `json:"nodes,omitempty"`
	Path    string  `json:"path,omitempty"`
	Server  string  `json:"server,omitempty"`
	Export  string  `json:"export,omitempty"`
	Disable IntBool `json:"disable,omitempty"`
	Shared  IntBool `json:"shared,omitempty"`
	Digest  string  `json:"digest,omitempty"`

	// Raw carries every scalar key of the definition as a string. Each
	// storage type has its own option keys (pool, vgname, iscsiprovider)
	// that are passed through verbatim and diffed against Raw.
	Raw map[string]string `json:"-"`
}

// UnmarshalJSON decodes the typed fields and captures all scalar keys
// into Raw.
func (s *Storage) UnmarshalJSON(data []byte) error {
	type plain Storage
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Storage(p)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Raw = make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			s.Raw[key] = v
		case float64:
			s.Raw[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			if v {
				s.Raw[key] = "1"
			} else {
				s.Raw[key] = "0"
			}
		}
	}
	return nil
}

// StorageContent is one entry of GET /nodes/{node}/storage/{storage}/content.
type StorageContent struct {
	VolID   string  `json:"volid"`
	Content string  `json:"content"`
	Format  string  `json:"format"`
	Size    int64   `json:"size"`
	VMID    FlexInt `json:"vmid,omitempty"`
	CTime   int64   `json:"ctime,omitempty"`
}

// Pool is the response of GET /pools/{poolid}.
type Pool struct {
	PoolID  string       `json:"poolid"`
	Comment string       `json:"comment,omitempty"`
	Members []PoolMember `json:"members,omitempty"`
}

// PoolMember is a guest or storage assigned to a pool.
type PoolMember struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	VMID    FlexInt `json:"vmid,omitempty"`
	Storage string  `json:"storage,omitempty"`
	Node    string  `json:"node,omitempty"`
}

// User is one entry of GET /access/users or GET /access/users/{userid}.
type User struct {
	UserID    string     `json:"userid,omitempty"`
	Comment   string     `json:"comment,omitempty"`
	Email     string     `json:"email,omitempty"`
	Enable    IntBool    `json:"enable"`
	Expire    int64      `json:"expire,omitempty"`
	Firstname string     `json:"firstname,omitempty"`
	Lastname  string     `json:"lastname,omitempty"`
	Groups    StringList `json:"groups,omitempty"`
	Keys      string     `json:"keys,omitempty"`
	RealmType string     `json:"realm-type,omitempty"`
}

// Realm is one entry of GET /access/domains.
type Realm struct {
	Realm   string  `json:"realm"`
	Type    string  `json:"type"`
	Comment string  `json:"comment,omitempty"`
	Default IntBool `json:"default,omitempty"`
	TFA     string  `json:"tfa,omitempty"`
}

// Group is one entry of GET /access/groups.
type Group struct {
	GroupID string     `json:"groupid"`
	Comment string     `json:"comment,omitempty"`
	Users   StringList `json:"users,omitempty"`
}

// Role is one entry of GET /access/roles.
type Role struct {
	RoleID  string  `json:"roleid"`
	Privs   string  `json:"privs,omitempty"`
	Special IntBool `json:"special,omitempty"`
}

// PrivList returns the role's privileges as a sorted-insensitive set.
func (r *Role) PrivList() []string {
	if r.Privs == "" {
		return nil
	}
	return strings.Split(r.Privs, ",")
}

// ACL is one entry of GET /access/acl.
type ACL struct {
	Path      string  `json:"path"`
	RoleID    string  `json:"roleid"`
	Type      string  `json:"type"` // user, group or token
	UGID      string  `json:"ugid"`
	Propagate IntBool `json:"propagate"`
}

// HAGroup is one entry of GET /cluster/ha/groups.
type HAGroup struct {
	Group      string  `json:"group"`
	Nodes      string  `json:"nodes"`
	Comment    string  `json:"comment,omitempty"`
	Restricted IntBool `json:"restricted,omitempty"`
	NoFailback IntBool `json:"nofailback,omitempty"`
	Digest     string  `json:"digest,omitempty"`
}

// HAResource is one entry of GET /cluster/ha/resources.
type HAResource struct {
	SID         string  `json:"sid"`
	Comment     string  `json:"comment,omitempty"`
	Group       string  `json:"group,omitempty"`
	MaxRelocate FlexInt `json:"max_relocate,omitempty"`
	MaxRestart  FlexInt `json:"max_restart,omitempty"`
	State       string  `json:"state,omitempty"`
	Type        string  `json:"type,omitempty"`
	Digest      string  `json:"digest,omitempty"`
}

// HARule is one entry of GET /cluster/ha/rules.
type HARule struct {
	Rule      string  `json:"rule"`
	Type      string  `json:"type"`
	Resources string  `json:"resources,omitempty"`
	Nodes     string  `json:"nodes,omitempty"`
	Affinity  string  `json:"affinity,omitempty"`
	Comment   string  `json:"comment,omitempty"`
	Disable   IntBool `json:"disable,omitempty"`
	Digest    string  `json:"digest,omitempty"`
}

// FirewallRule is one entry of a firewall rule list. Pos orders the rules;
// Digest guards concurrent modification.
type FirewallRule struct {
	Pos       int     `json:"pos"`
	Type      string  `json:"type"`
	Action    string  `json:"action"`
	Source    string  `json:"source,omitempty"`
	Dest      string  `json:"dest,omitempty"`
	Proto     string  `json:"proto,omitempty"`
	DPort     string  `json:"dport,omitempty"`
	SPort     string  `json:"sport,omitempty"`
	Macro     string  `json:"macro,omitempty"`
	IFace     string  `json:"iface,omitempty"`
	Log       string  `json:"log,omitempty"`
	ICMPType  string  `json:"icmp-type,omitempty"`
	Comment   string  `json:"comment,omitempty"`
	Enable    IntBool `json:"enable,omitempty"`
	Digest    string  `json:"digest,omitempty"`
	IPVersion int     `json:"ipversion,omitempty"`
}

// FirewallAlias is one entry of .../firewall/aliases.
type FirewallAlias struct {
	Name    string `json:"name"`
	CIDR    string `json:"cidr"`
	Comment string `json:"comment,omitempty"`
	Digest  string `json:"digest,omitempty"`
}

// IPSet is one entry of .../firewall/ipset.
type IPSet struct {
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
	Digest  string `json:"digest,omitempty"`
}

// IPSetEntry is one CIDR inside an IP set.
type IPSetEntry struct {
	CIDR    string  `json:"cidr"`
	Comment string  `json:"comment,omitempty"`
	NoMatch IntBool `json:"nomatch,omitempty"`
	Digest  string  `json:"digest,omitempty"`
}

// SecurityGroup is one entry of /cluster/firewall/groups.
type SecurityGroup struct {
	Group   string `json:"group"`
	Comment string `json:"comment,omitempty"`
	Digest  string `json:"digest,omitempty"`
}

// SDNZone is one entry of GET /cluster/sdn/zones.
type SDNZone struct {
	Zone         string `json:"zone"`
	Type         string `json:"type"`
	Bridge       string `json:"bridge,omitempty"`
	Tag          int    `json:"tag,omitempty"`
	VlanProtocol string `json:"vlan-protocol,omitempty"`
	Controller   string `json:"controller,omitempty"`
	VRFVXLAN     int    `json:"vrf-vxlan,omitempty"`
	Peers        string `json:"peers,omitempty"`
	MTU          int    `json:"mtu,omitempty"`
	Nodes        string `json:"nodes,omitempty"`
	IPAM         string `json:"ipam,omitempty"`
	DNS          string `json:"dns,omitempty"`
	DNSZone      string `json:"dnszone,omitempty"`
	ReverseDNS   string `json:"reversedns,omitempty"`
	Pending      any    `json:"pending,omitempty"`
	State        string `json:"state,omitempty"`
}

// SDNVNet is one entry of GET /cluster/sdn/vnets.
type SDNVNet struct {
	VNet      string  `json:"vnet"`
	Zone      string  `json:"zone"`
	Tag       int     `json:"tag,omitempty"`
	Alias     string  `json:"alias,omitempty"`
	VlanAware IntBool `json:"vlanaware,omitempty"`
	Type      string  `json:"type,omitempty"`
	State     string  `json:"state,omitempty"`
}

// SDNSubnet is one entry of GET /cluster/sdn/vnets/{vnet}/subnets.
type SDNSubnet struct {
	Subnet        string  `json:"subnet"` // "<zone>-<cidr with / as ->"
	Type          string  `json:"type,omitempty"`
	VNet          string  `json:"vnet,omitempty"`
	CIDR          string  `json:"cidr,omitempty"`
	Gateway       string  `json:"gateway,omitempty"`
	SNAT          IntBool `json:"snat,omitempty"`
	DNSZonePrefix string  `json:"dnszoneprefix,omitempty"`
	State         string  `json:"state,omitempty"`
}

// TaskStatus is the response of GET /nodes/{node}/tasks/{upid}/status.
type TaskStatus struct {
	UPID       string  `json:"upid"`
	Node       string  `json:"node"`
	Status     string  `json:"status"` // running or stopped
	ExitStatus string  `json:"exitstatus,omitempty"`
	Type       string  `json:"type,omitempty"`
	ID         string  `json:"id,omitempty"`
	User       string  `json:"user,omitempty"`
	PID        FlexInt `json:"pid,omitempty"`
	StartTime  int64   `json:"starttime,omitempty"`
}

// Finished reports whether the task reached a terminal state.
func (t *TaskStatus) Finished() bool { return t.Status == "stopped" }

// OK reports whether a finished task succeeded. WARN exit states count as
// success, matching how the web UI treats them.
func (t *TaskStatus) OK() bool {
	return t.Finished() && (t.ExitStatus == "OK" || strings.HasPrefix(t.ExitStatus, "WARNINGS") || strings.HasPrefix(t.ExitStatus, "WARN"))
}

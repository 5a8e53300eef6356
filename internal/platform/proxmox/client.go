package proxmox

import (
	"context"
)

// VersionClient reports the API version, also used as a connectivity probe.
type VersionClient interface {
	Version(ctx context.Context) (*VersionInfo, error)
}

// NodeManager defines the interface for node-level operations.
type NodeManager interface {
	ListNodes(ctx context.Context) ([]Node, error)
	// GetNode returns the node with the given name, or nil if not found.
	GetNode(ctx context.Context, name string) (*Node, error)
	GetNodeDNS(ctx context.Context, node string) (*NodeDNS, error)
	SetNodeDNS(ctx context.Context, node string, dns NodeDNS) error
	ShutdownNode(ctx context.Context, node string) error
	WakeNode(ctx context.Context, node string) error
}

// GuestManager defines the interface for VM and container operations.
// The typ argument is "qemu" or "lxc".
type GuestManager interface {
	// ListGuests returns all VMs and containers known to the cluster.
	ListGuests(ctx context.Context) ([]ClusterResource, error)
	NextVMID(ctx context.Context) (int, error)
	// FindGuest locates a guest by vmid anywhere in the cluster, or nil.
	FindGuest(ctx context.Context, vmid int) (*ClusterResource, error)
	// FindGuestByName locates a guest by name. Returns an error when the
	// name is ambiguous.
	FindGuestByName(ctx context.Context, name string) (*ClusterResource, error)
	GuestStatus(ctx context.Context, node, typ string, vmid int) (*GuestStatus, error)
	StartGuest(ctx context.Context, node, typ string, vmid int) (UPID, error)
	StopGuest(ctx context.Context, node, typ string, vmid int) (UPID, error)
	ShutdownGuest(ctx context.Context, node, typ string, vmid int) (UPID, error)
	GetGuestConfig(ctx context.Context, node, typ string, vmid int) (map[string]any, error)
	SetGuestConfig(ctx context.Context, node, typ string, vmid int, opts Params) error
}

// StorageManager defines the interface for storage definitions and content.
type StorageManager interface {
	// ListStorages returns storages, optionally filtered by type.
	ListStorages(ctx context.Context, typ string) ([]Storage, error)
	// GetStorage returns the storage with the given name, or nil.
	GetStorage(ctx context.Context, name string) (*Storage, error)
	CreateStorage(ctx context.Context, name, typ string, opts Params) error
	UpdateStorage(ctx context.Context, name string, opts Params) error
	DeleteStorage(ctx context.Context, name string) error
	ListStorageContent(ctx context.Context, node, storage, content string, vmid int) ([]StorageContent, error)
}

// PoolManager defines the interface for resource pools.
type PoolManager interface {
	ListPools(ctx context.Context) ([]Pool, error)
	// GetPool returns the pool including its members, or nil.
	GetPool(ctx context.Context, poolid string) (*Pool, error)
	CreatePool(ctx context.Context, poolid, comment string) error
	UpdatePool(ctx context.Context, poolid string, opts Params) error
	DeletePool(ctx context.Context, poolid string) error
}

// AccessManager defines the interface for users, groups, roles and ACLs.
type AccessManager interface {
	ListUsers(ctx context.Context) ([]User, error)
	// GetUser returns the user, or nil when it does not exist.
	GetUser(ctx context.Context, userid string) (*User, error)
	CreateUser(ctx context.Context, userid string, opts Params) error
	UpdateUser(ctx context.Context, userid string, opts Params) error
	SetUserPassword(ctx context.Context, userid, password string) error
	DeleteUser(ctx context.Context, userid string) error

	ListDomains(ctx context.Context) ([]Realm, error)
	// GetDomain returns the realm, or nil when it does not exist.
	GetDomain(ctx context.Context, realm string) (*Realm, error)

	ListGroups(ctx context.Context) ([]Group, error)
	CreateGroup(ctx context.Context, groupid, comment string) error
	UpdateGroup(ctx context.Context, groupid, comment string) error
	DeleteGroup(ctx context.Context, groupid string) error

	ListRoles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, roleid, privs string) error
	UpdateRole(ctx context.Context, roleid, privs string) error
	DeleteRole(ctx context.Context, roleid string) error

	ListACLs(ctx context.Context) ([]ACL, error)
	SetACL(ctx context.Context, acl ACL) error
	DeleteACL(ctx context.Context, acl ACL) error
}

// HAManager defines the interface for high availability configuration.
type HAManager interface {
	ListHAGroups(ctx context.Context) ([]HAGroup, error)
	CreateHAGroup(ctx context.Context, name string, opts Params) error
	UpdateHAGroup(ctx context.Context, name string, opts Params) error
	DeleteHAGroup(ctx context.Context, name string) error

	ListHAResources(ctx context.Context) ([]HAResource, error)
	CreateHAResource(ctx context.Context, sid string, opts Params) error
	UpdateHAResource(ctx context.Context, sid string, opts Params) error
	DeleteHAResource(ctx context.Context, sid string) error

	ListHARules(ctx context.Context) ([]HARule, error)
	CreateHARule(ctx context.Context, name string, opts Params) error
	UpdateHARule(ctx context.Context, name string, opts Params) error
	DeleteHARule(ctx context.Context, name string) error
}

// FirewallScope selects which firewall a rule operation targets.
// The zero value addresses the cluster firewall. Set Node for a node
// firewall, Node+GuestType+VMID for a guest firewall, or Group for the
// rules of a cluster security group.
type FirewallScope struct {
	Node      string
	GuestType string // qemu or lxc
	VMID      int
	Group     string
}

// FirewallManager defines the interface for firewall rules, aliases,
// IP sets and security groups.
type FirewallManager interface {
	ListFirewallRules(ctx context.Context, scope FirewallScope) ([]FirewallRule, error)
	CreateFirewallRule(ctx context.Context, scope FirewallScope, opts Params) error
	UpdateFirewallRule(ctx context.Context, scope FirewallScope, pos int, opts Params) error
	// DeleteFirewallRule removes the rule at pos. A non-empty digest
	// guards against concurrent modification.
	DeleteFirewallRule(ctx context.Context, scope FirewallScope, pos int, digest string) error

	ListAliases(ctx context.Context, scope FirewallScope) ([]FirewallAlias, error)
	CreateAlias(ctx context.Context, scope FirewallScope, name, cidr, comment string) error
	UpdateAlias(ctx context.Context, scope FirewallScope, name, cidr, comment string) error
	DeleteAlias(ctx context.Context, scope FirewallScope, name string) error

	ListIPSets(ctx context.Context, scope FirewallScope) ([]IPSet, error)
	CreateIPSet(ctx context.Context, scope FirewallScope, name, comment string) error
	DeleteIPSet(ctx context.Context, scope FirewallScope, name string) error
	ListIPSetEntries(ctx context.Context, scope FirewallScope, name string) ([]IPSetEntry, error)
	AddIPSetEntry(ctx context.Context, scope FirewallScope, name string, opts Params) error
	UpdateIPSetEntry(ctx context.Context, scope FirewallScope, name, cidr string, opts Params) error
	DeleteIPSetEntry(ctx context.Context, scope FirewallScope, name, cidr string) error

	ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error)
	CreateSecurityGroup(ctx context.Context, group, comment string) error
	DeleteSecurityGroup(ctx context.Context, group string) error
}

// SDNManager defines the interface for software-defined networking.
// All mutations happen under the global SDN lock: acquire a token, make
// changes, then apply (commit) or roll back.
type SDNManager interface {
	AcquireSDNLock(ctx context.Context) (string, error)
	// ApplySDN commits all pending changes made under the lock token and
	// releases the lock.
	ApplySDN(ctx context.Context, lock string) error
	// RollbackSDN discards all pending changes and releases the lock.
	RollbackSDN(ctx context.Context, lock string) error
	// ReleaseSDNLock drops the lock without applying. Use force when the
	// token has been lost.
	ReleaseSDNLock(ctx context.Context, lock string, force bool) error

	ListZones(ctx context.Context, typ string) ([]SDNZone, error)
	CreateZone(ctx context.Context, zone, typ string, opts Params, lock string) error
	UpdateZone(ctx context.Context, zone string, opts Params, lock string) error
	DeleteZone(ctx context.Context, zone, lock string) error

	ListVNets(ctx context.Context) ([]SDNVNet, error)
	CreateVNet(ctx context.Context, vnet, zone string, opts Params, lock string) error
	UpdateVNet(ctx context.Context, vnet string, opts Params, lock string) error
	DeleteVNet(ctx context.Context, vnet, lock string) error

	ListSubnets(ctx context.Context, vnet string) ([]SDNSubnet, error)
	CreateSubnet(ctx context.Context, vnet, cidr string, opts Params, lock string) error
	UpdateSubnet(ctx context.Context, vnet, subnet string, opts Params, lock string) error
	DeleteSubnet(ctx context.Context, vnet, subnet, lock string) error
}

// TaskManager defines the interface for polling asynchronous tasks.
type TaskManager interface {
	GetTaskStatus(ctx context.Context, node string, upid UPID) (*TaskStatus, error)
	// WaitForTask polls the task until it stops or the configured wait
	// timeout elapses. A non-OK exit status is returned as a *TaskError.
	WaitForTask(ctx context.Context, upid UPID) error
}

// Client must cover the full API surface.
var _ ClusterManager = (*Client)(nil)

// ClusterManager combines all Proxmox API surfaces.
type ClusterManager interface {
	VersionClient
	NodeManager
	GuestManager
	StorageManager
	PoolManager
	AccessManager
	HAManager
	FirewallManager
	SDNManager
	TaskManager
}

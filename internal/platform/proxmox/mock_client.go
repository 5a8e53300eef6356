package proxmox

import "context"

// MockClusterManager is a function-field implementation of ClusterManager
// for tests. Unset functions return zero values, so tests only wire the
// calls they care about.
type MockClusterManager struct {
	VersionFunc func(ctx context.Context) (*VersionInfo, error)

	ListNodesFunc    func(ctx context.Context) ([]Node, error)
	GetNodeFunc      func(ctx context.Context, name string) (*Node, error)
	GetNodeDNSFunc   func(ctx context.Context, node string) (*NodeDNS, error)
	SetNodeDNSFunc   func(ctx context.Context, node string, dns NodeDNS) error
	ShutdownNodeFunc func(ctx context.Context, node string) error
	WakeNodeFunc     func(ctx context.Context, node string) error

	ListGuestsFunc      func(ctx context.Context) ([]ClusterResource, error)
	NextVMIDFunc        func(ctx context.Context) (int, error)
	FindGuestFunc       func(ctx context.Context, vmid int) (*ClusterResource, error)
	FindGuestByNameFunc func(ctx context.Context, name string) (*ClusterResource, error)
	GuestStatusFunc     func(ctx context.Context, node, typ string, vmid int) (*GuestStatus, error)
	StartGuestFunc      func(ctx context.Context, node, typ string, vmid int) (UPID, error)
	StopGuestFunc       func(ctx context.Context, node, typ string, vmid int) (UPID, error)
	ShutdownGuestFunc   func(ctx context.Context, node, typ string, vmid int) (UPID, error)
	GetGuestConfigFunc  func(ctx context.Context, node, typ string, vmid int) (map[string]any, error)
	SetGuestConfigFunc  func(ctx context.Context, node, typ string, vmid int, opts Params) error

	ListStoragesFunc       func(ctx context.Context, typ string) ([]Storage, error)
	GetStorageFunc         func(ctx context.Context, name string) (*Storage, error)
	CreateStorageFunc      func(ctx context.Context, name, typ string, opts Params) error
	UpdateStorageFunc      func(ctx context.Context, name string, opts Params) error
	DeleteStorageFunc      func(ctx context.Context, name string) error
	ListStorageContentFunc func(ctx context.Context, node, storage, content string, vmid int) ([]StorageContent, error)

	ListPoolsFunc  func(ctx context.Context) ([]Pool, error)
	GetPoolFunc    func(ctx context.Context, poolid string) (*Pool, error)
	CreatePoolFunc func(ctx context.Context, poolid, comment string) error
	UpdatePoolFunc func(ctx context.Context, poolid string, opts Params) error
	DeletePoolFunc func(ctx context.Context, poolid string) error

	ListUsersFunc       func(ctx context.Context) ([]User, error)
	GetUserFunc         func(ctx context.Context, userid string) (*User, error)
	CreateUserFunc      func(ctx context.Context, userid string, opts Params) error
	UpdateUserFunc      func(ctx context.Context, userid string, opts Params) error
	SetUserPasswordFunc func(ctx context.Context, userid, password string) error
	DeleteUserFunc      func(ctx context.Context, userid string) error

	ListDomainsFunc func(ctx context.Context) ([]Realm, error)
	GetDomainFunc   func(ctx context.Context, realm string) (*Realm, error)

	ListGroupsFunc  func(ctx context.Context) ([]Group, error)
	CreateGroupFunc func(ctx context.Context, groupid, comment string) error
	UpdateGroupFunc func(ctx context.Context, groupid, comment string) error
	DeleteGroupFunc func(ctx context.Context, groupid string) error

	ListRolesFunc  func(ctx context.Context) ([]Role, error)
	CreateRoleFunc func(ctx context.Context, roleid, privs string) error
	UpdateRoleFunc func(ctx context.Context, roleid, privs string) error
	DeleteRoleFunc func(ctx context.Context, roleid string) error

	ListACLsFunc  func(ctx context.Context) ([]ACL, error)
	SetACLFunc    func(ctx context.Context, acl ACL) error
	DeleteACLFunc func(ctx context.Context, acl ACL) error

	ListHAGroupsFunc  func(ctx context.Context) ([]HAGroup, error)
	CreateHAGroupFunc func(ctx context.Context, name string, opts Params) error
	UpdateHAGroupFunc func(ctx context.Context, name string, opts Params) error
	DeleteHAGroupFunc func(ctx context.Context, name string) error

	ListHAResourcesFunc  func(ctx context.Context) ([]HAResource, error)
	CreateHAResourceFunc func(ctx context.Context, sid string, opts Params) error
	UpdateHAResourceFunc func(ctx context.Context, sid string, opts Params) error
	DeleteHAResourceFunc func(ctx context.Context, sid string) error

	ListHARulesFunc  func(ctx context.Context) ([]HARule, error)
	CreateHARuleFunc func(ctx context.Context, name string, opts Params) error
	UpdateHARuleFunc func(ctx context.Context, name string, opts Params) error
	DeleteHARuleFunc func(ctx context.Context, name string) error

	ListFirewallRulesFunc  func(ctx context.Context, scope FirewallScope) ([]FirewallRule, error)
	CreateFirewallRuleFunc func(ctx context.Context, scope FirewallScope, opts Params) error
	UpdateFirewallRuleFunc func(ctx context.Context, scope FirewallScope, pos int, opts Params) error
	DeleteFirewallRuleFunc func(ctx context.Context, scope FirewallScope, pos int, digest string) error

	ListAliasesFunc func(ctx context.Context, scope FirewallScope) ([]FirewallAlias, error)
	CreateAliasFunc func(ctx context.Context, scope FirewallScope, name, cidr, comment string) error
	UpdateAliasFunc func(ctx context.Context, scope FirewallScope, name, cidr, comment string) error
	DeleteAliasFunc func(ctx context.Context, scope FirewallScope, name string) error

	ListIPSetsFunc       func(ctx context.Context, scope FirewallScope) ([]IPSet, error)
	CreateIPSetFunc      func(ctx context.Context, scope FirewallScope, name, comment string) error
	DeleteIPSetFunc      func(ctx context.Context, scope FirewallScope, name string) error
	ListIPSetEntriesFunc func(ctx context.Context, scope FirewallScope, name string) ([]IPSetEntry, error)
	AddIPSetEntryFunc    func(ctx context.Context, scope FirewallScope, name string, opts Params) error
	UpdateIPSetEntryFunc func(ctx context.Context, scope FirewallScope, name, cidr string, opts Params) error
	DeleteIPSetEntryFunc func(ctx context.Context, scope FirewallScope, name, cidr string) error

	ListSecurityGroupsFunc  func(ctx context.Context) ([]SecurityGroup, error)
	CreateSecurityGroupFunc func(ctx context.Context, group, comment string) error
	DeleteSecurityGroupFunc func(ctx context.Context, group string) error

	AcquireSDNLockFunc func(ctx context.Context) (string, error)
	ApplySDNFunc       func(ctx context.Context, lock string) error
	RollbackSDNFunc    func(ctx context.Context, lock string) error
	ReleaseSDNLockFunc func(ctx context.Context, lock string, force bool) error

	ListZonesFunc  func(ctx context.Context, typ string) ([]SDNZone, error)
	CreateZoneFunc func(ctx context.Context, zone, typ string, opts Params, lock string) error
	UpdateZoneFunc func(ctx context.Context, zone string, opts Params, lock string) error
	DeleteZoneFunc func(ctx context.Context, zone, lock string) error

	ListVNetsFunc  func(ctx context.Context) ([]SDNVNet, error)
	CreateVNetFunc func(ctx context.Context, vnet, zone string, opts Params, lock string) error
	UpdateVNetFunc func(ctx context.Context, vnet string, opts Params, lock string) error
	DeleteVNetFunc func(ctx context.Context, vnet, lock string) error

	ListSubnetsFunc  func(ctx context.Context, vnet string) ([]SDNSubnet, error)
	CreateSubnetFunc func(ctx context.Context, vnet, cidr string, opts Params, lock string) error
	UpdateSubnetFunc func(ctx context.Context, vnet, subnet string, opts Params, lock string) error
	DeleteSubnetFunc func(ctx context.Context, vnet, subnet, lock string) error

	GetTaskStatusFunc func(ctx context.Context, node string, upid UPID) (*TaskStatus, error)
	WaitForTaskFunc   func(ctx context.Context, upid UPID) error
}

var _ ClusterManager = (*MockClusterManager)(nil)

func (m *MockClusterManager) Version(ctx context.Context) (*VersionInfo, error) {
	if m.VersionFunc == nil {
		return &VersionInfo{}, nil
	}
	return m.VersionFunc(ctx)
}

func (m *MockClusterManager) ListNodes(ctx context.Context) ([]Node, error) {
	if m.ListNodesFunc == nil {
		return nil, nil
	}
	return m.ListNodesFunc(ctx)
}

func (m *MockClusterManager) GetNode(ctx context.Context, name string) (*Node, error) {
	if m.GetNodeFunc == nil {
		return nil, nil
	}
	return m.GetNodeFunc(ctx, name)
}

func (m *MockClusterManager) GetNodeDNS(ctx context.Context, node string) (*NodeDNS, error) {
	if m.GetNodeDNSFunc == nil {
		return nil, nil
	}
	return m.GetNodeDNSFunc(ctx, node)
}

func (m *MockClusterManager) SetNodeDNS(ctx context.Context, node string, dns NodeDNS) error {
	if m.SetNodeDNSFunc == nil {
		return nil
	}
	return m.SetNodeDNSFunc(ctx, node, dns)
}

func (m *MockClusterManager) ShutdownNode(ctx context.Context, node string) error {
	if m.ShutdownNodeFunc == nil {
		return nil
	}
	return m.ShutdownNodeFunc(ctx, node)
}

func (m *MockClusterManager) WakeNode(ctx context.Context, node string) error {
	if m.WakeNodeFunc == nil {
		return nil
	}
	return m.WakeNodeFunc(ctx, node)
}

func (m *MockClusterManager) ListGuests(ctx context.Context) ([]ClusterResource, error) {
	if m.ListGuestsFunc == nil {
		return nil, nil
	}
	return m.ListGuestsFunc(ctx)
}

func (m *MockClusterManager) NextVMID(ctx context.Context) (int, error) {
	if m.NextVMIDFunc == nil {
		return 100, nil
	}
	return m.NextVMIDFunc(ctx)
}

func (m *MockClusterManager) FindGuest(ctx context.Context, vmid int) (*ClusterResource, error) {
	if m.FindGuestFunc == nil {
		return nil, nil
	}
	return m.FindGuestFunc(ctx, vmid)
}

func (m *MockClusterManager) FindGuestByName(ctx context.Context, name string) (*ClusterResource, error) {
	if m.FindGuestByNameFunc == nil {
		return nil, nil
	}
	return m.FindGuestByNameFunc(ctx, name)
}

func (m *MockClusterManager) GuestStatus(ctx context.Context, node, typ string, vmid int) (*GuestStatus, error) {
	if m.GuestStatusFunc == nil {
		return nil, nil
	}
	return m.GuestStatusFunc(ctx, node, typ, vmid)
}

func (m *MockClusterManager) StartGuest(ctx context.Context, node, typ string, vmid int) (UPID, error) {
	if m.StartGuestFunc == nil {
		return "", nil
	}
	return m.StartGuestFunc(ctx, node, typ, vmid)
}

func (m *MockClusterManager) StopGuest(ctx context.Context, node, typ string, vmid int) (UPID, error) {
	if m.StopGuestFunc == nil {
		return "", nil
	}
	return m.StopGuestFunc(ctx, node, typ, vmid)
}

func (m *MockClusterManager) ShutdownGuest(ctx context.Context, node, typ string, vmid int) (UPID, error) {
	if m.ShutdownGuestFunc == nil {
		return "", nil
	}
	return m.ShutdownGuestFunc(ctx, node, typ, vmid)
}

func (m *MockClusterManager) GetGuestConfig(ctx context.Context, node, typ string, vmid int) (map[string]any, error) {
	if m.GetGuestConfigFunc == nil {
		return nil, nil
	}
	return m.GetGuestConfigFunc(ctx, node, typ, vmid)
}

func (m *MockClusterManager) SetGuestConfig(ctx context.Context, node, typ string, vmid int, opts Params) error {
	if m.SetGuestConfigFunc == nil {
		return nil
	}
	return m.SetGuestConfigFunc(ctx, node, typ, vmid, opts)
}

func (m *MockClusterManager) ListStorages(ctx context.Context, typ string) ([]Storage, error) {
	if m.ListStoragesFunc == nil {
		return nil, nil
	}
	return m.ListStoragesFunc(ctx, typ)
}

func (m *MockClusterManager) GetStorage(ctx context.Context, name string) (*Storage, error) {
	if m.GetStorageFunc == nil {
		return nil, nil
	}
	return m.GetStorageFunc(ctx, name)
}

func (m *MockClusterManager) CreateStorage(ctx context.Context, name, typ string, opts Params) error {
	if m.CreateStorageFunc == nil {
		return nil
	}
	return m.CreateStorageFunc(ctx, name, typ, opts)
}

func (m *MockClusterManager) UpdateStorage(ctx context.Context, name string, opts Params) error {
	if m.UpdateStorageFunc == nil {
		return nil
	}
	return m.UpdateStorageFunc(ctx, name, opts)
}

func (m *MockClusterManager) DeleteStorage(ctx context.Context, name string) error {
	if m.DeleteStorageFunc == nil {
		return nil
	}
	return m.DeleteStorageFunc(ctx, name)
}

func (m *MockClusterManager) ListStorageContent(ctx context.Context, node, storage, content string, vmid int) ([]StorageContent, error) {
	if m.ListStorageContentFunc == nil {
		return nil, nil
	}
	return m.ListStorageContentFunc(ctx, node, storage, content, vmid)
}

func (m *MockClusterManager) ListPools(ctx context.Context) ([]Pool, error) {
	if m.ListPoolsFunc == nil {
		return nil, nil
	}
	return m.ListPoolsFunc(ctx)
}

func (m *MockClusterManager) GetPool(ctx context.Context, poolid string) (*Pool, error) {
	if m.GetPoolFunc == nil {
		return nil, nil
	}
	return m.GetPoolFunc(ctx, poolid)
}

func (m *MockClusterManager) CreatePool(ctx context.Context, poolid, comment string) error {
	if m.CreatePoolFunc == nil {
		return nil
	}
	return m.CreatePoolFunc(ctx, poolid, comment)
}

func (m *MockClusterManager) UpdatePool(ctx context.Context, poolid string, opts Params) error {
	if m.UpdatePoolFunc == nil {
		return nil
	}
	return m.UpdatePoolFunc(ctx, poolid, opts)
}

func (m *MockClusterManager) DeletePool(ctx context.Context, poolid string) error {
	if m.DeletePoolFunc == nil {
		return nil
	}
	return m.DeletePoolFunc(ctx, poolid)
}

func (m *MockClusterManager) ListUsers(ctx context.Context) ([]User, error) {
	if m.ListUsersFunc == nil {
		return nil, nil
	}
	return m.ListUsersFunc(ctx)
}

func (m *MockClusterManager) GetUser(ctx context.Context, userid string) (*User, error) {
	if m.GetUserFunc == nil {
		return nil, nil
	}
	return m.GetUserFunc(ctx, userid)
}

func (m *MockClusterManager) CreateUser(ctx context.Context, userid string, opts Params) error {
	if m.CreateUserFunc == nil {
		return nil
	}
	return m.CreateUserFunc(ctx, userid, opts)
}

func (m *MockClusterManager) UpdateUser(ctx context.Context, userid string, opts Params) error {
	if m.UpdateUserFunc == nil {
		return nil
	}
	return m.UpdateUserFunc(ctx, userid, opts)
}

func (m *MockClusterManager) SetUserPassword(ctx context.Context, userid, password string) error {
	if m.SetUserPasswordFunc == nil {
		return nil
	}
	return m.SetUserPasswordFunc(ctx, userid, password)
}

func (m *MockClusterManager) DeleteUser(ctx context.Context, userid string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, userid)
}

func (m *MockClusterManager) ListDomains(ctx context.Context) ([]Realm, error) {
	if m.ListDomainsFunc == nil {
		return nil, nil
	}
	return m.ListDomainsFunc(ctx)
}

func (m *MockClusterManager) GetDomain(ctx context.Context, realm string) (*Realm, error) {
	if m.GetDomainFunc == nil {
		return nil, nil
	}
	return m.GetDomainFunc(ctx, realm)
}

func (m *MockClusterManager) ListGroups(ctx context.Context) ([]Group, error) {
	if m.ListGroupsFunc == nil {
		return nil, nil
	}
	return m.ListGroupsFunc(ctx)
}

func (m *MockClusterManager) CreateGroup(ctx context.Context, groupid, comment string) error {
	if m.CreateGroupFunc == nil {
		return nil
	}
	return m.CreateGroupFunc(ctx, groupid, comment)
}

func (m *MockClusterManager) UpdateGroup(ctx context.Context, groupid, comment string) error {
	if m.UpdateGroupFunc == nil {
		return nil
	}
	return m.UpdateGroupFunc(ctx, groupid, comment)
}

func (m *MockClusterManager) DeleteGroup(ctx context.Context, groupid string) error {
	if m.DeleteGroupFunc == nil {
		return nil
	}
	return m.DeleteGroupFunc(ctx, groupid)
}

func (m *MockClusterManager) ListRoles(ctx context.Context) ([]Role, error) {
	if m.ListRolesFunc == nil {
		return nil, nil
	}
	return m.ListRolesFunc(ctx)
}

func (m *MockClusterManager) CreateRole(ctx context.Context, roleid, privs string) error {
	if m.CreateRoleFunc == nil {
		return nil
	}
	return m.CreateRoleFunc(ctx, roleid, privs)
}

func (m *MockClusterManager) UpdateRole(ctx context.Context, roleid, privs string) error {
	if m.UpdateRoleFunc == nil {
		return nil
	}
	return m.UpdateRoleFunc(ctx, roleid, privs)
}

func (m *MockClusterManager) DeleteRole(ctx context.Context, roleid string) error {
	if m.DeleteRoleFunc == nil {
		return nil
	}
	return m.DeleteRoleFunc(ctx, roleid)
}

func (m *MockClusterManager) ListACLs(ctx context.Context) ([]ACL, error) {
	if m.ListACLsFunc == nil {
		return nil, nil
	}
	return m.ListACLsFunc(ctx)
}

func (m *MockClusterManager) SetACL(ctx context.Context, acl ACL) error {
	if m.SetACLFunc == nil {
		return nil
	}
	return m.SetACLFunc(ctx, acl)
}

func (m *MockClusterManager) DeleteACL(ctx context.Context, acl ACL) error {
	if m.DeleteACLFunc == nil {
		return nil
	}
	return m.DeleteACLFunc(ctx, acl)
}

func (m *MockClusterManager) ListHAGroups(ctx context.Context) ([]HAGroup, error) {
	if m.ListHAGroupsFunc == nil {
		return nil, nil
	}
	return m.ListHAGroupsFunc(ctx)
}

func (m *MockClusterManager) CreateHAGroup(ctx context.Context, name string, opts Params) error {
	if m.CreateHAGroupFunc == nil {
		return nil
	}
	return m.CreateHAGroupFunc(ctx, name, opts)
}

func (m *MockClusterManager) UpdateHAGroup(ctx context.Context, name string, opts Params) error {
	if m.UpdateHAGroupFunc == nil {
		return nil
	}
	return m.UpdateHAGroupFunc(ctx, name, opts)
}

func (m *MockClusterManager) DeleteHAGroup(ctx context.Context, name string) error {
	if m.DeleteHAGroupFunc == nil {
		return nil
	}
	return m.DeleteHAGroupFunc(ctx, name)
}

func (m *MockClusterManager) ListHAResources(ctx context.Context) ([]HAResource, error) {
	if m.ListHAResourcesFunc == nil {
		return nil, nil
	}
	return m.ListHAResourcesFunc(ctx)
}

func (m *MockClusterManager) CreateHAResource(ctx context.Context, sid string, opts Params) error {
	if m.CreateHAResourceFunc == nil {
		return nil
	}
	return m.CreateHAResourceFunc(ctx, sid, opts)
}

func (m *MockClusterManager) UpdateHAResource(ctx context.Context, sid string, opts Params) error {
	if m.UpdateHAResourceFunc == nil {
		return nil
	}
	return m.UpdateHAResourceFunc(ctx, sid, opts)
}

func (m *MockClusterManager) DeleteHAResource(ctx context.Context, sid string) error {
	if m.DeleteHAResourceFunc == nil {
		return nil
	}
	return m.DeleteHAResourceFunc(ctx, sid)
}

func (m *MockClusterManager) ListHARules(ctx context.Context) ([]HARule, error) {
	if m.ListHARulesFunc == nil {
		return nil, nil
	}
	return m.ListHARulesFunc(ctx)
}

func (m *MockClusterManager) CreateHARule(ctx context.Context, name string, opts Params) error {
	if m.CreateHARuleFunc == nil {
		return nil
	}
	return m.CreateHARuleFunc(ctx, name, opts)
}

func (m *MockClusterManager) UpdateHARule(ctx context.Context, name string, opts Params) error {
	if m.UpdateHARuleFunc == nil {
		return nil
	}
	return m.UpdateHARuleFunc(ctx, name, opts)
}

func (m *MockClusterManager) DeleteHARule(ctx context.Context, name string) error {
	if m.DeleteHARuleFunc == nil {
		return nil
	}
	return m.DeleteHARuleFunc(ctx, name)
}

func (m *MockClusterManager) ListFirewallRules(ctx context.Context, scope FirewallScope) ([]FirewallRule, error) {
	if m.ListFirewallRulesFunc == nil {
		return nil, nil
	}
	return m.ListFirewallRulesFunc(ctx, scope)
}

func (m *MockClusterManager) CreateFirewallRule(ctx context.Context, scope FirewallScope, opts Params) error {
	if m.CreateFirewallRuleFunc == nil {
		return nil
	}
	return m.CreateFirewallRuleFunc(ctx, scope, opts)
}

func (m *MockClusterManager) UpdateFirewallRule(ctx context.Context, scope FirewallScope, pos int, opts Params) error {
	if m.UpdateFirewallRuleFunc == nil {
		return nil
	}
	return m.UpdateFirewallRuleFunc(ctx, scope, pos, opts)
}

func (m *MockClusterManager) DeleteFirewallRule(ctx context.Context, scope FirewallScope, pos int, digest string) error {
	if m.DeleteFirewallRuleFunc == nil {
		return nil
	}
	return m.DeleteFirewallRuleFunc(ctx, scope, pos, digest)
}

func (m *MockClusterManager) ListAliases(ctx context.Context, scope FirewallScope) ([]FirewallAlias, error) {
	if m.ListAliasesFunc == nil {
		return nil, nil
	}
	return m.ListAliasesFunc(ctx, scope)
}

func (m *MockClusterManager) CreateAlias(ctx context.Context, scope FirewallScope, name, cidr, comment string) error {
	if m.CreateAliasFunc == nil {
		return nil
	}
	return m.CreateAliasFunc(ctx, scope, name, cidr, comment)
}

func (m *MockClusterManager) UpdateAlias(ctx context.Context, scope FirewallScope, name, cidr, comment string) error {
	if m.UpdateAliasFunc == nil {
		return nil
	}
	return m.UpdateAliasFunc(ctx, scope, name, cidr, comment)
}

func (m *MockClusterManager) DeleteAlias(ctx context.Context, scope FirewallScope, name string) error {
	if m.DeleteAliasFunc == nil {
		return nil
	}
	return m.DeleteAliasFunc(ctx, scope, name)
}

func (m *MockClusterManager) ListIPSets(ctx context.Context, scope FirewallScope) ([]IPSet, error) {
	if m.ListIPSetsFunc == nil {
		return nil, nil
	}
	return m.ListIPSetsFunc(ctx, scope)
}

func (m *MockClusterManager) CreateIPSet(ctx context.Context, scope FirewallScope, name, comment string) error {
	if m.CreateIPSetFunc == nil {
		return nil
	}
	return m.CreateIPSetFunc(ctx, scope, name, comment)
}

func (m *MockClusterManager) DeleteIPSet(ctx context.Context, scope FirewallScope, name string) error {
	if m.DeleteIPSetFunc == nil {
		return nil
	}
	return m.DeleteIPSetFunc(ctx, scope, name)
}

func (m *MockClusterManager) ListIPSetEntries(ctx context.Context, scope FirewallScope, name string) ([]IPSetEntry, error) {
	if m.ListIPSetEntriesFunc == nil {
		return nil, nil
	}
	return m.ListIPSetEntriesFunc(ctx, scope, name)
}

func (m *MockClusterManager) AddIPSetEntry(ctx context.Context, scope FirewallScope, name string, opts Params) error {
	if m.AddIPSetEntryFunc == nil {
		return nil
	}
	return m.AddIPSetEntryFunc(ctx, scope, name, opts)
}

func (m *MockClusterManager) UpdateIPSetEntry(ctx context.Context, scope FirewallScope, name, cidr string, opts Params) error {
	if m.UpdateIPSetEntryFunc == nil {
		return nil
	}
	return m.UpdateIPSetEntryFunc(ctx, scope, name, cidr, opts)
}

func (m *MockClusterManager) DeleteIPSetEntry(ctx context.Context, scope FirewallScope, name, cidr string) error {
	if m.DeleteIPSetEntryFunc == nil {
		return nil
	}
	return m.DeleteIPSetEntryFunc(ctx, scope, name, cidr)
}

func (m *MockClusterManager) ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error) {
	if m.ListSecurityGroupsFunc == nil {
		return nil, nil
	}
	return m.ListSecurityGroupsFunc(ctx)
}

func (m *MockClusterManager) CreateSecurityGroup(ctx context.Context, group, comment string) error {
	if m.CreateSecurityGroupFunc == nil {
		return nil
	}
	return m.CreateSecurityGroupFunc(ctx, group, comment)
}

func (m *MockClusterManager) DeleteSecurityGroup(ctx context.Context, group string) error {
	if m.DeleteSecurityGroupFunc == nil {
		return nil
	}
	return m.DeleteSecurityGroupFunc(ctx, group)
}

func (m *MockClusterManager) AcquireSDNLock(ctx context.Context) (string, error) {
	if m.AcquireSDNLockFunc == nil {
		return "mock-lock", nil
	}
	return m.AcquireSDNLockFunc(ctx)
}

func (m *MockClusterManager) ApplySDN(ctx context.Context, lock string) error {
	if m.ApplySDNFunc == nil {
		return nil
	}
	return m.ApplySDNFunc(ctx, lock)
}

func (m *MockClusterManager) RollbackSDN(ctx context.Context, lock string) error {
	if m.RollbackSDNFunc == nil {
		return nil
	}
	return m.RollbackSDNFunc(ctx, lock)
}

func (m *MockClusterManager) ReleaseSDNLock(ctx context.Context, lock string, force bool) error {
	if m.ReleaseSDNLockFunc == nil {
		return nil
	}
	return m.ReleaseSDNLockFunc(ctx, lock, force)
}

func (m *MockClusterManager) ListZones(ctx context.Context, typ string) ([]SDNZone, error) {
	if m.ListZonesFunc == nil {
		return nil, nil
	}
	return m.ListZonesFunc(ctx, typ)
}

func (m *MockClusterManager) CreateZone(ctx context.Context, zone, typ string, opts Params, lock string) error {
	if m.CreateZoneFunc == nil {
		return nil
	}
	return m.CreateZoneFunc(ctx, zone, typ, opts, lock)
}

func (m *MockClusterManager) UpdateZone(ctx context.Context, zone string, opts Params, lock string) error {
	if m.UpdateZoneFunc == nil {
		return nil
	}
	return m.UpdateZoneFunc(ctx, zone, opts, lock)
}

func (m *MockClusterManager) DeleteZone(ctx context.Context, zone, lock string) error {
	if m.DeleteZoneFunc == nil {
		return nil
	}
	return m.DeleteZoneFunc(ctx, zone, lock)
}

func (m *MockClusterManager) ListVNets(ctx context.Context) ([]SDNVNet, error) {
	if m.ListVNetsFunc == nil {
		return nil, nil
	}
	return m.ListVNetsFunc(ctx)
}

func (m *MockClusterManager) CreateVNet(ctx context.Context, vnet, zone string, opts Params, lock string) error {
	if m.CreateVNetFunc == nil {
		return nil
	}
	return m.CreateVNetFunc(ctx, vnet, zone, opts, lock)
}

func (m *MockClusterManager) UpdateVNet(ctx context.Context, vnet string, opts Params, lock string) error {
	if m.UpdateVNetFunc == nil {
		return nil
	}
	return m.UpdateVNetFunc(ctx, vnet, opts, lock)
}

func (m *MockClusterManager) DeleteVNet(ctx context.Context, vnet, lock string) error {
	if m.DeleteVNetFunc == nil {
		return nil
	}
	return m.DeleteVNetFunc(ctx, vnet, lock)
}

func (m *MockClusterManager) ListSubnets(ctx context.Context, vnet string) ([]SDNSubnet, error) {
	if m.ListSubnetsFunc == nil {
		return nil, nil
	}
	return m.ListSubnetsFunc(ctx, vnet)
}

func (m *MockClusterManager) CreateSubnet(ctx context.Context, vnet, cidr string, opts Params, lock string) error {
	if m.CreateSubnetFunc == nil {
		return nil
	}
	return m.CreateSubnetFunc(ctx, vnet, cidr, opts, lock)
}

func (m *MockClusterManager) UpdateSubnet(ctx context.Context, vnet, subnet string, opts Params, lock string) error {
	if m.UpdateSubnetFunc == nil {
		return nil
	}
	return m.UpdateSubnetFunc(ctx, vnet, subnet, opts, lock)
}

func (m *MockClusterManager) DeleteSubnet(ctx context.Context, vnet, subnet, lock string) error {
	if m.DeleteSubnetFunc == nil {
		return nil
	}
	return m.DeleteSubnetFunc(ctx, vnet, subnet, lock)
}

func (m *MockClusterManager) GetTaskStatus(ctx context.Context, node string, upid UPID) (*TaskStatus, error) {
	if m.GetTaskStatusFunc == nil {
		return &TaskStatus{Status: "stopped", ExitStatus: "OK"}, nil
	}
	return m.GetTaskStatusFunc(ctx, node, upid)
}

func (m *MockClusterManager) WaitForTask(ctx context.Context, upid UPID) error {
	if m.WaitForTaskFunc == nil {
		return nil
	}
	return m.WaitForTaskFunc(ctx, upid)
}

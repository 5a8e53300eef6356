package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

// applyAccess reconciles pools, roles, groups, users and ACLs. Pools,
// roles and groups are independent and run in parallel; users reference
// groups and ACLs reference everything else, so they follow in order.
func (r *Reconciler) applyAccess(ctx context.Context, report *Report) {
	r.parallel(ctx, report, map[string]func(context.Context, *Report){
		"pools":  r.applyPools,
		"roles":  r.applyRoles,
		"groups": r.applyGroups,
	})
	r.applyUsers(ctx, report)
	r.applyACLs(ctx, report)
}

// destroyAccess removes access resources in reverse dependency order.
func (r *Reconciler) destroyAccess(ctx context.Context, report *Report) {
	r.destroyACLs(ctx, report)
	r.destroyUsers(ctx, report)
	r.parallel(ctx, report, map[string]func(context.Context, *Report){
		"groups": r.destroyGroups,
		"roles":  r.destroyRoles,
		"pools":  r.destroyPools,
	})
}

func (r *Reconciler) applyPools(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Pools {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removePool(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "pool", spec.PoolID, r.check, ensureFuncs[proxmox.Pool]{
			get: func(ctx context.Context) (*proxmox.Pool, error) {
				return r.client.GetPool(ctx, spec.PoolID)
			},
			create: func(ctx context.Context) error {
				return r.client.CreatePool(ctx, spec.PoolID, spec.Comment)
			},
			needsUpdate: func(current *proxmox.Pool) bool {
				return current.Comment != spec.Comment
			},
			update: func(ctx context.Context, _ *proxmox.Pool) error {
				return r.client.UpdatePool(ctx, spec.PoolID,
					proxmox.NewParams().SetAlways("comment", spec.Comment))
			},
		}))
	}
}

func (r *Reconciler) destroyPools(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Pools {
		report.Add(r.removePool(ctx, spec))
	}
}

// removePool refuses to delete pools that still hold guests or storages,
// the API would reject it and silently losing members is worse.
func (r *Reconciler) removePool(ctx context.Context, spec config.PoolSpec) Result {
	return remove(ctx, "pool", spec.PoolID, r.check, r.timeouts, deleteFuncs[proxmox.Pool]{
		get: func(ctx context.Context) (*proxmox.Pool, error) {
			return r.client.GetPool(ctx, spec.PoolID)
		},
		guard: func(current *proxmox.Pool) error {
			if len(current.Members) > 0 {
				return fmt.Errorf("pool %s still has %d members, remove them first",
					spec.PoolID, len(current.Members))
			}
			return nil
		},
		del: func(ctx context.Context, _ *proxmox.Pool) error {
			return r.client.DeletePool(ctx, spec.PoolID)
		},
	})
}

// privSet normalises a privilege list for comparison.
func privSet(privs []string) string {
	set := make([]string, 0, len(privs))
	for _, p := range privs {
		if p = strings.TrimSpace(p); p != "" {
			set = append(set, p)
		}
	}
	sort.Strings(set)
	return strings.Join(set, ",")
}

func (r *Reconciler) applyRoles(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Roles {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeRole(ctx, spec))
			continue
		}
		privs := strings.Join(spec.Privs, ",")
		report.Add(ensure(ctx, "role", spec.RoleID, r.check, ensureFuncs[proxmox.Role]{
			get: func(ctx context.Context) (*proxmox.Role, error) {
				return r.findRole(ctx, spec.RoleID)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateRole(ctx, spec.RoleID, privs)
			},
			needsUpdate: func(current *proxmox.Role) bool {
				return privSet(current.PrivList()) != privSet(spec.Privs)
			},
			update: func(ctx context.Context, _ *proxmox.Role) error {
				return r.client.UpdateRole(ctx, spec.RoleID, privs)
			},
		}))
	}
}

func (r *Reconciler) destroyRoles(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Roles {
		report.Add(r.removeRole(ctx, spec))
	}
}

func (r *Reconciler) removeRole(ctx context.Context, spec config.RoleSpec) Result {
	return remove(ctx, "role", spec.RoleID, r.check, r.timeouts, deleteFuncs[proxmox.Role]{
		get: func(ctx context.Context) (*proxmox.Role, error) {
			return r.findRole(ctx, spec.RoleID)
		},
		guard: func(current *proxmox.Role) error {
			if current.Special {
				return fmt.Errorf("role %s is built in and cannot be deleted", spec.RoleID)
			}
			return nil
		},
		del: func(ctx context.Context, _ *proxmox.Role) error {
			return r.client.DeleteRole(ctx, spec.RoleID)
		},
	})
}

func (r *Reconciler) findRole(ctx context.Context, roleid string) (*proxmox.Role, error) {
	roles, err := r.client.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if roles[i].RoleID == roleid {
			return &roles[i], nil
		}
	}
	return nil, nil
}

func (r *Reconciler) applyGroups(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Groups {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeGroup(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "group", spec.GroupID, r.check, ensureFuncs[proxmox.Group]{
			get: func(ctx context.Context) (*proxmox.Group, error) {
				return r.findGroup(ctx, spec.GroupID)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateGroup(ctx, spec.GroupID, spec.Comment)
			},
			needsUpdate: func(current *proxmox.Group) bool {
				return current.Comment != spec.Comment
			},
			update: func(ctx context.Context, _ *proxmox.Group) error {
				return r.client.UpdateGroup(ctx, spec.GroupID, spec.Comment)
			},
		}))
	}
}

func (r *Reconciler) destroyGroups(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Groups {
		report.Add(r.removeGroup(ctx, spec))
	}
}

func (r *Reconciler) removeGroup(ctx context.Context, spec config.GroupSpec) Result {
	return remove(ctx, "group", spec.GroupID, r.check, r.timeouts, deleteFuncs[proxmox.Group]{
		get: func(ctx context.Context) (*proxmox.Group, error) {
			return r.findGroup(ctx, spec.GroupID)
		},
		del: func(ctx context.Context, _ *proxmox.Group) error {
			return r.client.DeleteGroup(ctx, spec.GroupID)
		},
	})
}

func (r *Reconciler) findGroup(ctx context.Context, groupid string) (*proxmox.Group, error) {
	groups, err := r.client.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].GroupID == groupid {
			return &groups[i], nil
		}
	}
	return nil, nil
}

// groupList normalises a group membership list for comparison.
func groupList(groups []string) string {
	set := make([]string, len(groups))
	copy(set, groups)
	sort.Strings(set)
	return strings.Join(set, ",")
}

// userNeedsUpdate compares an existing user against its spec. Unset spec
// fields compare against the API defaults: enabled, never expiring,
// empty strings.
func userNeedsUpdate(current *proxmox.User, spec config.UserSpec) bool {
	wantEnable := spec.Enable == nil || *spec.Enable
	if current.Enable.Bool() != wantEnable {
		return true
	}
	if current.Expire != spec.Expire {
		return true
	}
	if current.Comment != spec.Comment ||
		current.Email != spec.Email ||
		current.Firstname != spec.Firstname ||
		current.Lastname != spec.Lastname ||
		current.Keys != spec.Keys {
		return true
	}
	return groupList(current.Groups) != groupList(spec.Groups)
}

func userParams(spec config.UserSpec) proxmox.Params {
	enable := spec.Enable == nil || *spec.Enable
	return proxmox.NewParams().
		SetAlways("comment", spec.Comment).
		SetAlways("email", spec.Email).
		SetAlways("firstname", spec.Firstname).
		SetAlways("lastname", spec.Lastname).
		SetAlways("keys", spec.Keys).
		SetAlways("groups", strings.Join(spec.Groups, ",")).
		SetBool("enable", &enable).
		SetIntAlways("expire", int(spec.Expire))
}

func (r *Reconciler) applyUsers(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Users {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeUser(ctx, spec))
			continue
		}

		res := ensure(ctx, "user", spec.UserID, r.check, ensureFuncs[proxmox.User]{
			get: func(ctx context.Context) (*proxmox.User, error) {
				return r.client.GetUser(ctx, spec.UserID)
			},
			create: func(ctx context.Context) error {
				params := userParams(spec)
				params.Set("password", spec.Password)
				return r.client.CreateUser(ctx, spec.UserID, params)
			},
			needsUpdate: func(current *proxmox.User) bool {
				return userNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, _ *proxmox.User) error {
				return r.client.UpdateUser(ctx, spec.UserID, userParams(spec))
			},
		})

		// The API never reports stored passwords, so a declared password
		// on an existing user is always (re)applied and always a change.
		if spec.Password != "" && !res.Failed && res.Msg != "created" && res.Msg != "would be created" {
			if r.check {
				res.Changed = true
				res.Msg += ", password would be set"
			} else if err := r.client.SetUserPassword(ctx, spec.UserID, spec.Password); err != nil {
				res = failedResult("user", spec.UserID, fmt.Errorf("failed to set password: %w", err))
			} else {
				res.Changed = true
				res.Msg += ", password set"
			}
		}
		report.Add(res)
	}
}

func (r *Reconciler) destroyUsers(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Users {
		report.Add(r.removeUser(ctx, spec))
	}
}

func (r *Reconciler) removeUser(ctx context.Context, spec config.UserSpec) Result {
	return remove(ctx, "user", spec.UserID, r.check, r.timeouts, deleteFuncs[proxmox.User]{
		get: func(ctx context.Context) (*proxmox.User, error) {
			return r.client.GetUser(ctx, spec.UserID)
		},
		del: func(ctx context.Context, _ *proxmox.User) error {
			return r.client.DeleteUser(ctx, spec.UserID)
		},
	})
}

// aclFromSpec builds the wire representation of a declared ACL entry.
// Propagate defaults to true, matching the API.
func aclFromSpec(spec config.ACLSpec) proxmox.ACL {
	return proxmox.ACL{
		Path:      spec.Path,
		RoleID:    spec.RoleID,
		Type:      spec.Type,
		UGID:      spec.UGID,
		Propagate: proxmox.IntBool(spec.Propagate == nil || *spec.Propagate),
	}
}

func aclName(spec config.ACLSpec) string {
	return fmt.Sprintf("%s:%s:%s@%s", spec.Type, spec.UGID, spec.RoleID, spec.Path)
}

// findACL locates an entry by its (path, roleid, type, ugid) identity.
// Propagate is state, not identity, so a propagate-only difference is an
// update rather than a second entry.
func (r *Reconciler) findACL(ctx context.Context, want proxmox.ACL) (*proxmox.ACL, error) {
	acls, err := r.client.ListACLs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range acls {
		a := &acls[i]
		if a.Path == want.Path && a.RoleID == want.RoleID && a.Type == want.Type && a.UGID == want.UGID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *Reconciler) applyACLs(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.ACLs {
		want := aclFromSpec(spec)
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeACL(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "acl", aclName(spec), r.check, ensureFuncs[proxmox.ACL]{
			get: func(ctx context.Context) (*proxmox.ACL, error) {
				return r.findACL(ctx, want)
			},
			create: func(ctx context.Context) error {
				return r.client.SetACL(ctx, want)
			},
			needsUpdate: func(current *proxmox.ACL) bool {
				return current.Propagate != want.Propagate
			},
			update: func(ctx context.Context, _ *proxmox.ACL) error {
				return r.client.SetACL(ctx, want)
			},
		}))
	}
}

func (r *Reconciler) destroyACLs(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.ACLs {
		report.Add(r.removeACL(ctx, spec))
	}
}

func (r *Reconciler) removeACL(ctx context.Context, spec config.ACLSpec) Result {
	want := aclFromSpec(spec)
	return remove(ctx, "acl", aclName(spec), r.check, r.timeouts, deleteFuncs[proxmox.ACL]{
		get: func(ctx context.Context) (*proxmox.ACL, error) {
			return r.findACL(ctx, want)
		},
		del: func(ctx context.Context, current *proxmox.ACL) error {
			return r.client.DeleteACL(ctx, *current)
		},
	})
}

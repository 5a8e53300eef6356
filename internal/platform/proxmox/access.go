package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// ListUsers returns all users including enabled/expired state.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	query := url.Values{}
	query.Set("full", "1")
	var users []User
	if err := c.get(ctx, "/access/users", query, &users); err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}

// GetUser returns the user with the given userid, or nil if not found.
func (c *Client) GetUser(ctx context.Context, userid string) (*User, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userid {
			return &users[i], nil
		}
	}
	return nil, nil
}

// CreateUser creates a user. opts may carry comment, email, enable,
// expire, firstname, lastname, groups, keys and an initial password.
func (c *Client) CreateUser(ctx context.Context, userid string, opts Params) error {
	params := NewParams().Set("userid", userid)
	for k, v := range opts {
		params[k] = v
	}
	if err := c.post(ctx, "/access/users", params, nil); err != nil {
		return fmt.Errorf("failed to create user %s: %w", userid, err)
	}
	return nil
}

// UpdateUser changes attributes of an existing user. The password is
// managed separately, see SetUserPassword.
func (c *Client) UpdateUser(ctx context.Context, userid string, opts Params) error {
	if err := c.put(ctx, "/access/users/"+url.PathEscape(userid), opts, nil); err != nil {
		return fmt.Errorf("failed to update user %s: %w", userid, err)
	}
	return nil
}

// SetUserPassword changes a user's password unconditionally. Proxmox
// never reports stored passwords, so callers cannot diff against the
// current value.
func (c *Client) SetUserPassword(ctx context.Context, userid, password string) error {
	params := NewParams().Set("userid", userid).SetAlways("password", password)
	if err := c.put(ctx, "/access/password", params, nil); err != nil {
		return fmt.Errorf("failed to set password for user %s: %w", userid, err)
	}
	return nil
}

// DeleteUser removes a user and its ACL entries.
func (c *Client) DeleteUser(ctx context.Context, userid string) error {
	if err := c.del(ctx, "/access/users/"+url.PathEscape(userid), NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userid, err)
	}
	return nil
}

// ListDomains returns all authentication realms.
func (c *Client) ListDomains(ctx context.Context) ([]Realm, error) {
	var realms []Realm
	if err := c.get(ctx, "/access/domains", nil, &realms); err != nil {
		return nil, fmt.Errorf("failed to retrieve domains: %w", err)
	}
	return realms, nil
}

// GetDomain returns the realm with the given name, or nil if not found.
func (c *Client) GetDomain(ctx context.Context, realm string) (*Realm, error) {
	realms, err := c.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	for i := range realms {
		if realms[i].Realm == realm {
			return &realms[i], nil
		}
	}
	return nil, nil
}

// ListGroups returns all groups with their member lists.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.get(ctx, "/access/groups", nil, &groups); err != nil {
		return nil, fmt.Errorf("failed to retrieve groups: %w", err)
	}
	return groups, nil
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, groupid, comment string) error {
	params := NewParams().Set("groupid", groupid).Set("comment", comment)
	if err := c.post(ctx, "/access/groups", params, nil); err != nil {
		return fmt.Errorf("failed to create group %s: %w", groupid, err)
	}
	return nil
}

// UpdateGroup changes the comment of an existing group.
func (c *Client) UpdateGroup(ctx context.Context, groupid, comment string) error {
	params := NewParams().SetAlways("comment", comment)
	if err := c.put(ctx, "/access/groups/"+groupid, params, nil); err != nil {
		return fmt.Errorf("failed to update group %s: %w", groupid, err)
	}
	return nil
}

// DeleteGroup removes a group.
func (c *Client) DeleteGroup(ctx context.Context, groupid string) error {
	if err := c.del(ctx, "/access/groups/"+groupid, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete group %s: %w", groupid, err)
	}
	return nil
}

// ListRoles returns all roles, built-in and custom.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.get(ctx, "/access/roles", nil, &roles); err != nil {
		return nil, fmt.Errorf("failed to retrieve roles: %w", err)
	}
	return roles, nil
}

// CreateRole creates a custom role with the given comma-separated
// privilege list.
func (c *Client) CreateRole(ctx context.Context, roleid, privs string) error {
	params := NewParams().Set("roleid", roleid).SetAlways("privs", privs)
	if err := c.post(ctx, "/access/roles", params, nil); err != nil {
		return fmt.Errorf("failed to create role %s: %w", roleid, err)
	}
	return nil
}

// UpdateRole replaces the privilege list of a custom role. Built-in
// roles cannot be modified.
func (c *Client) UpdateRole(ctx context.Context, roleid, privs string) error {
	params := NewParams().SetAlways("privs", privs)
	if err := c.put(ctx, "/access/roles/"+roleid, params, nil); err != nil {
		return fmt.Errorf("failed to update role %s: %w", roleid, err)
	}
	return nil
}

// DeleteRole removes a custom role.
func (c *Client) DeleteRole(ctx context.Context, roleid string) error {
	if err := c.del(ctx, "/access/roles/"+roleid, NewParams(), nil); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", roleid, err)
	}
	return nil
}

// ListACLs returns all access control entries.
func (c *Client) ListACLs(ctx context.Context) ([]ACL, error) {
	var acls []ACL
	if err := c.get(ctx, "/access/acl", nil, &acls); err != nil {
		return nil, fmt.Errorf("failed to retrieve ACLs: %w", err)
	}
	return acls, nil
}

// aclParams maps an entry to the PUT /access/acl form. The API takes the
// principal under a pluralized key named after the entry type.
func aclParams(acl ACL) Params {
	propagate := "0"
	if acl.Propagate {
		propagate = "1"
	}
	params := NewParams().
		Set("path", acl.Path).
		Set("roles", acl.RoleID).
		SetAlways("propagate", propagate)
	switch acl.Type {
	case "group":
		params.Set("groups", acl.UGID)
	case "token":
		params.Set("tokens", acl.UGID)
	default:
		params.Set("users", acl.UGID)
	}
	return params
}

// SetACL grants the entry's role on its path to the user, group or token.
func (c *Client) SetACL(ctx context.Context, acl ACL) error {
	if err := c.put(ctx, "/access/acl", aclParams(acl), nil); err != nil {
		return fmt.Errorf("failed to set ACL on %s: %w", acl.Path, err)
	}
	return nil
}

// DeleteACL revokes the entry. The API has no DELETE verb here, removal
// is a PUT with the delete flag set.
func (c *Client) DeleteACL(ctx context.Context, acl ACL) error {
	params := aclParams(acl)
	params.SetAlways("delete", "1")
	if err := c.put(ctx, "/access/acl", params, nil); err != nil {
		return fmt.Errorf("failed to delete ACL on %s: %w", acl.Path, err)
	}
	return nil
}

package reconcile

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

func TestRuleMatches(t *testing.T) {
	current := proxmox.FirewallRule{
		Pos:    0,
		Type:   "in",
		Action: "ACCEPT",
		Proto:  "tcp",
		DPort:  "22",
		Enable: true,
		// Derived fields the comparison must ignore.
		Digest:    "abc123",
		IPVersion: 4,
	}

	tests := []struct {
		name string
		spec config.FirewallRuleSpec
		want bool
	}{
		{
			name: "identical rule",
			spec: config.FirewallRuleSpec{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "22"},
			want: true,
		},
		{
			name: "explicit enable matches",
			spec: config.FirewallRuleSpec{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "22", Enable: boolPtr(true)},
			want: true,
		},
		{
			name: "disabled spec diverges",
			spec: config.FirewallRuleSpec{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "22", Enable: boolPtr(false)},
			want: false,
		},
		{
			name: "different port",
			spec: config.FirewallRuleSpec{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "2222"},
			want: false,
		},
		{
			name: "different action",
			spec: config.FirewallRuleSpec{Pos: 0, Type: "in", Action: "DROP", Proto: "tcp", DPort: "22"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleMatches(current, tt.spec))
		})
	}
}

func TestReconcileRuleListDiff(t *testing.T) {
	var created, updated []int
	var deleted []int
	deletedDigests := make(map[int]string)
	client := &proxmox.MockClusterManager{
		ListFirewallRulesFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.FirewallRule, error) {
			return []proxmox.FirewallRule{
				{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "22", Enable: true, Digest: "d0"},
				{Pos: 1, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "80", Enable: true, Digest: "d1"},
				{Pos: 2, Type: "in", Action: "DROP", Enable: true, Digest: "d2"},
				{Pos: 3, Type: "out", Action: "ACCEPT", Enable: true, Digest: "d3"},
			}, nil
		},
		CreateFirewallRuleFunc: func(ctx context.Context, scope proxmox.FirewallScope, opts proxmox.Params) error {
			pos, err := strconv.Atoi(opts["pos"])
			require.NoError(t, err)
			created = append(created, pos)
			return nil
		},
		UpdateFirewallRuleFunc: func(ctx context.Context, scope proxmox.FirewallScope, pos int, opts proxmox.Params) error {
			updated = append(updated, pos)
			assert.NotContains(t, opts, "pos")
			return nil
		},
		DeleteFirewallRuleFunc: func(ctx context.Context, scope proxmox.FirewallScope, pos int, digest string) error {
			deleted = append(deleted, pos)
			deletedDigests[pos] = digest
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileRuleList(context.Background(), "cluster", proxmox.FirewallScope{}, []config.FirewallRuleSpec{
		// Pos 0 unchanged.
		{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "22"},
		// Pos 1 diverged: update in place.
		{Pos: 1, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "443"},
		// Pos 4 is new: create.
		{Pos: 4, Type: "in", Action: "ACCEPT", Proto: "udp", DPort: "53"},
		// Pos 2 and 3 are undeclared: delete, highest first.
	})

	assert.True(t, res.Changed)
	assert.False(t, res.Failed)
	assert.Equal(t, "1 created, 1 updated, 1 deleted", res.Msg)
	assert.Equal(t, []int{1}, updated)
	assert.Equal(t, []int{4}, created)
	assert.Equal(t, []int{3, 2}, deleted)
	// Each delete carries the digest of the rule it removes.
	assert.Equal(t, map[int]string{3: "d3", 2: "d2"}, deletedDigests)
}

func TestClearRuleListPassesDigests(t *testing.T) {
	var deleted []int
	deletedDigests := make(map[int]string)
	client := &proxmox.MockClusterManager{
		ListFirewallRulesFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.FirewallRule, error) {
			return []proxmox.FirewallRule{
				{Pos: 0, Type: "in", Action: "ACCEPT", Enable: true, Digest: "d0"},
				{Pos: 1, Type: "in", Action: "DROP", Enable: true, Digest: "d1"},
			}, nil
		},
		DeleteFirewallRuleFunc: func(ctx context.Context, scope proxmox.FirewallScope, pos int, digest string) error {
			deleted = append(deleted, pos)
			deletedDigests[pos] = digest
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.clearRuleList(context.Background(), "cluster", proxmox.FirewallScope{})

	assert.True(t, res.Changed)
	assert.Equal(t, "2 rules deleted", res.Msg)
	assert.Equal(t, []int{1, 0}, deleted, "highest position deleted first")
	assert.Equal(t, map[int]string{0: "d0", 1: "d1"}, deletedDigests)
}

func TestReconcileRuleListUpToDate(t *testing.T) {
	client := &proxmox.MockClusterManager{
		ListFirewallRulesFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.FirewallRule, error) {
			return []proxmox.FirewallRule{
				{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "22", Enable: true},
			}, nil
		},
		CreateFirewallRuleFunc: func(ctx context.Context, scope proxmox.FirewallScope, opts proxmox.Params) error {
			t.Fatal("no mutation expected")
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileRuleList(context.Background(), "cluster", proxmox.FirewallScope{}, []config.FirewallRuleSpec{
		{Pos: 0, Type: "in", Action: "ACCEPT", Proto: "tcp", DPort: "22"},
	})

	assert.False(t, res.Changed)
	assert.Equal(t, "up to date", res.Msg)
}

func TestReconcileRuleListCheckMode(t *testing.T) {
	client := &proxmox.MockClusterManager{
		ListFirewallRulesFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.FirewallRule, error) {
			return nil, nil
		},
		CreateFirewallRuleFunc: func(ctx context.Context, scope proxmox.FirewallScope, opts proxmox.Params) error {
			t.Fatal("no mutation expected in check mode")
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{}, WithCheckMode(true))
	res := r.reconcileRuleList(context.Background(), "cluster", proxmox.FirewallScope{}, []config.FirewallRuleSpec{
		{Pos: 0, Type: "in", Action: "ACCEPT"},
	})

	assert.True(t, res.Changed)
	assert.Equal(t, "would change: 1 created, 0 updated, 0 deleted", res.Msg)
}

func TestApplySecurityGroupRulesUseGroupScope(t *testing.T) {
	var listScope proxmox.FirewallScope
	client := &proxmox.MockClusterManager{
		ListSecurityGroupsFunc: func(ctx context.Context) ([]proxmox.SecurityGroup, error) {
			return []proxmox.SecurityGroup{{Group: "webservers"}}, nil
		},
		ListFirewallRulesFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.FirewallRule, error) {
			listScope = scope
			return nil, nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{
		Firewall: config.FirewallSpec{
			Groups: []config.SecurityGroupSpec{{
				Name:  "webservers",
				Rules: []config.FirewallRuleSpec{{Pos: 0, Type: "in", Action: "ACCEPT", DPort: "80"}},
			}},
		},
	})
	report := &Report{}
	r.applySecurityGroups(context.Background(), report)

	assert.Equal(t, "webservers", listScope.Group)
	results := report.Results()
	require.Len(t, results, 2)
}

func TestApplySecurityGroupCheckModeFreshGroup(t *testing.T) {
	client := &proxmox.MockClusterManager{}

	r := newTestReconciler(client, &config.Manifest{
		Firewall: config.FirewallSpec{
			Groups: []config.SecurityGroupSpec{{
				Name:  "webservers",
				Rules: []config.FirewallRuleSpec{{Pos: 0, Type: "in", Action: "ACCEPT", DPort: "80"}},
			}},
		},
	}, WithCheckMode(true))
	report := &Report{}
	r.applySecurityGroups(context.Background(), report)

	byKind := make(map[string]Result)
	for _, res := range report.Results() {
		byKind[res.Kind] = res
	}
	require.Len(t, byKind, 2)
	assert.Equal(t, "would be created", byKind["security-group"].Msg)
	assert.Equal(t, "would create 1 rules", byKind["firewall-rules"].Msg)
}

func TestReconcileIPSetEntries(t *testing.T) {
	var added, updated, removed []string
	client := &proxmox.MockClusterManager{
		ListIPSetsFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.IPSet, error) {
			return []proxmox.IPSet{{Name: "trusted"}}, nil
		},
		ListIPSetEntriesFunc: func(ctx context.Context, scope proxmox.FirewallScope, name string) ([]proxmox.IPSetEntry, error) {
			return []proxmox.IPSetEntry{
				{CIDR: "10.0.0.0/8"},
				{CIDR: "192.168.0.0/16", Comment: "lan"},
				{CIDR: "172.16.0.0/12"},
			}, nil
		},
		AddIPSetEntryFunc: func(ctx context.Context, scope proxmox.FirewallScope, name string, opts proxmox.Params) error {
			added = append(added, opts["cidr"])
			return nil
		},
		UpdateIPSetEntryFunc: func(ctx context.Context, scope proxmox.FirewallScope, name, cidr string, opts proxmox.Params) error {
			updated = append(updated, cidr)
			return nil
		},
		DeleteIPSetEntryFunc: func(ctx context.Context, scope proxmox.FirewallScope, name, cidr string) error {
			removed = append(removed, cidr)
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileIPSet(context.Background(), config.IPSetSpec{
		Name: "trusted",
		Entries: []config.IPSetEntrySpec{
			{CIDR: "10.0.0.0/8"},
			{CIDR: "192.168.0.0/16", Comment: "office lan"},
			{CIDR: "10.99.0.0/24", NoMatch: boolPtr(true)},
		},
	})

	assert.True(t, res.Changed)
	assert.Equal(t, "1 entries added, 1 updated, 1 removed", res.Msg)
	assert.Equal(t, []string{"10.99.0.0/24"}, added)
	assert.Equal(t, []string{"192.168.0.0/16"}, updated)
	assert.Equal(t, []string{"172.16.0.0/12"}, removed)
}

func TestRemoveIPSetClearsEntriesFirst(t *testing.T) {
	var order []string
	client := &proxmox.MockClusterManager{
		ListIPSetsFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.IPSet, error) {
			return []proxmox.IPSet{{Name: "trusted"}}, nil
		},
		ListIPSetEntriesFunc: func(ctx context.Context, scope proxmox.FirewallScope, name string) ([]proxmox.IPSetEntry, error) {
			return []proxmox.IPSetEntry{{CIDR: "10.0.0.0/8"}}, nil
		},
		DeleteIPSetEntryFunc: func(ctx context.Context, scope proxmox.FirewallScope, name, cidr string) error {
			order = append(order, "entry")
			return nil
		},
		DeleteIPSetFunc: func(ctx context.Context, scope proxmox.FirewallScope, name string) error {
			order = append(order, "set")
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.removeIPSet(context.Background(), config.IPSetSpec{Name: "trusted"})

	assert.True(t, res.Changed)
	assert.Equal(t, []string{"entry", "set"}, order)
}

func TestApplyAliasesComparesCIDRCaseInsensitive(t *testing.T) {
	updates := 0
	client := &proxmox.MockClusterManager{
		ListAliasesFunc: func(ctx context.Context, scope proxmox.FirewallScope) ([]proxmox.FirewallAlias, error) {
			return []proxmox.FirewallAlias{{Name: "gw", CIDR: "FD00::1"}}, nil
		},
		UpdateAliasFunc: func(ctx context.Context, scope proxmox.FirewallScope, name, cidr, comment string) error {
			updates++
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{
		Firewall: config.FirewallSpec{
			Aliases: []config.AliasSpec{{Name: "gw", CIDR: "fd00::1"}},
		},
	})
	report := &Report{}
	r.applyAliases(context.Background(), report)

	assert.Equal(t, 0, updates)
	results := report.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "up to date", results[0].Msg)
}

package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

func TestHAResourceState(t *testing.T) {
	assert.Equal(t, "started", haResourceState(config.HAResourceSpec{SID: "vm:100"}))
	assert.Equal(t, "disabled", haResourceState(config.HAResourceSpec{SID: "vm:100", HAState: "disabled"}))
}

func TestHAResourceNeedsUpdate(t *testing.T) {
	tests := []struct {
		name    string
		current proxmox.HAResource
		spec    config.HAResourceSpec
		want    bool
	}{
		{
			name:    "defaults match zero values",
			current: proxmox.HAResource{SID: "vm:100", State: "started", MaxRelocate: 1, MaxRestart: 1},
			spec:    config.HAResourceSpec{SID: "vm:100"},
			want:    false,
		},
		{
			name:    "api omits defaulted fields",
			current: proxmox.HAResource{SID: "vm:100"},
			spec:    config.HAResourceSpec{SID: "vm:100", MaxRelocate: 1, MaxRestart: 1, HAState: "started"},
			want:    false,
		},
		{
			name:    "state diverged",
			current: proxmox.HAResource{SID: "vm:100", State: "started"},
			spec:    config.HAResourceSpec{SID: "vm:100", HAState: "stopped"},
			want:    true,
		},
		{
			name:    "relocate diverged",
			current: proxmox.HAResource{SID: "vm:100", MaxRelocate: 1},
			spec:    config.HAResourceSpec{SID: "vm:100", MaxRelocate: 3},
			want:    true,
		},
		{
			name:    "group diverged",
			current: proxmox.HAResource{SID: "vm:100", Group: "old"},
			spec:    config.HAResourceSpec{SID: "vm:100", Group: "prod"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, haResourceNeedsUpdate(&tt.current, tt.spec))
		})
	}
}

func TestHAGroupNeedsUpdate(t *testing.T) {
	current := &proxmox.HAGroup{
		Group:      "prod",
		Nodes:      "pve2:2,pve1",
		Restricted: true,
	}

	tests := []struct {
		name string
		spec config.HAGroupSpec
		want bool
	}{
		{
			name: "node order is irrelevant",
			spec: config.HAGroupSpec{Name: "prod", Nodes: []string{"pve1", "pve2:2"}},
			want: false,
		},
		{
			name: "unset restricted keeps cluster value",
			spec: config.HAGroupSpec{Name: "prod", Nodes: []string{"pve2:2", "pve1"}},
			want: false,
		},
		{
			name: "restricted diverged",
			spec: config.HAGroupSpec{Name: "prod", Nodes: []string{"pve2:2", "pve1"}, Restricted: boolPtr(false)},
			want: true,
		},
		{
			name: "node set diverged",
			spec: config.HAGroupSpec{Name: "prod", Nodes: []string{"pve1"}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, haGroupNeedsUpdate(current, tt.spec))
		})
	}
}

func TestHARuleUpdateDropsImmutableType(t *testing.T) {
	var updateParams proxmox.Params
	client := &proxmox.MockClusterManager{
		ListHARulesFunc: func(ctx context.Context) ([]proxmox.HARule, error) {
			return []proxmox.HARule{{
				Rule:      "keep-apart",
				Type:      "resource-affinity",
				Resources: "vm:100,vm:101",
				Affinity:  "positive",
			}}, nil
		},
		UpdateHARuleFunc: func(ctx context.Context, name string, opts proxmox.Params) error {
			updateParams = opts
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{
		HA: config.HASpec{
			Rules: []config.HARuleSpec{{
				Name:      "keep-apart",
				Type:      "resource-affinity",
				Resources: []string{"vm:100", "vm:101"},
				Affinity:  "negative",
			}},
		},
	})
	report := &Report{}
	r.applyHARules(context.Background(), report)

	assert.NotNil(t, updateParams)
	assert.NotContains(t, updateParams, "type")
	assert.Equal(t, "negative", updateParams["affinity"])
}

func TestApplyHAOrder(t *testing.T) {
	var order []string
	client := &proxmox.MockClusterManager{
		CreateHAGroupFunc: func(ctx context.Context, name string, opts proxmox.Params) error {
			order = append(order, "group")
			return nil
		},
		CreateHAResourceFunc: func(ctx context.Context, sid string, opts proxmox.Params) error {
			order = append(order, "resource")
			assert.Equal(t, "started", opts["state"])
			return nil
		},
		CreateHARuleFunc: func(ctx context.Context, name string, opts proxmox.Params) error {
			order = append(order, "rule")
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{
		HA: config.HASpec{
			Groups:    []config.HAGroupSpec{{Name: "prod", Nodes: []string{"pve1", "pve2"}}},
			Resources: []config.HAResourceSpec{{SID: "vm:100", Group: "prod"}},
			Rules: []config.HARuleSpec{{
				Name: "pin", Type: "node-affinity",
				Resources: []string{"vm:100"}, Nodes: []string{"pve1"},
			}},
		},
	})
	report := &Report{}
	r.applyHA(context.Background(), report)

	assert.Equal(t, []string{"group", "resource", "rule"}, order)
	_, changed, failed := report.Counts()
	assert.Equal(t, 3, changed)
	assert.Equal(t, 0, failed)
}

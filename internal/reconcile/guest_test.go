package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

func TestTagSet(t *testing.T) {
	assert.Equal(t, "prod;web", tagSet([]string{"Web", " prod ", ""}))
	assert.Equal(t, tagSet([]string{"a", "b"}), tagSet([]string{"b", "a"}))
	assert.Empty(t, tagSet(nil))
}

func TestReconcileGuestMissingFails(t *testing.T) {
	r := newTestReconciler(&proxmox.MockClusterManager{}, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{VMID: 100})

	assert.True(t, res.Failed)
	assert.Contains(t, res.Msg, "does not exist")
}

func TestReconcileGuestTemplateFails(t *testing.T) {
	client := &proxmox.MockClusterManager{
		FindGuestFunc: func(ctx context.Context, vmid int) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 100, Type: "qemu", Node: "pve1", Template: true}, nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{VMID: 100, State: config.GuestStarted})

	assert.True(t, res.Failed)
	assert.Contains(t, res.Msg, "template")
}

func TestReconcileGuestStartsStoppedGuest(t *testing.T) {
	started := false
	waited := false
	client := &proxmox.MockClusterManager{
		FindGuestFunc: func(ctx context.Context, vmid int) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 100, Type: "qemu", Node: "pve1", Status: "stopped"}, nil
		},
		StartGuestFunc: func(ctx context.Context, node, typ string, vmid int) (proxmox.UPID, error) {
			started = true
			assert.Equal(t, "pve1", node)
			assert.Equal(t, "qemu", typ)
			assert.Equal(t, 100, vmid)
			return "UPID:pve1:0000C530:0123:0:qmstart:100:root@pam:", nil
		},
		WaitForTaskFunc: func(ctx context.Context, upid proxmox.UPID) error {
			waited = true
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{VMID: 100, State: config.GuestStarted})

	assert.True(t, started)
	assert.True(t, waited)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Msg, "start completed")
}

func TestReconcileGuestShutsDownRunningGuest(t *testing.T) {
	shutdown := false
	client := &proxmox.MockClusterManager{
		FindGuestByNameFunc: func(ctx context.Context, name string) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 101, Type: "lxc", Node: "pve2", Name: name, Status: "running"}, nil
		},
		ShutdownGuestFunc: func(ctx context.Context, node, typ string, vmid int) (proxmox.UPID, error) {
			shutdown = true
			assert.Equal(t, "lxc", typ)
			assert.Equal(t, 101, vmid)
			return "", nil
		},
		StartGuestFunc: func(ctx context.Context, node, typ string, vmid int) (proxmox.UPID, error) {
			t.Fatal("start must not run for a stop request")
			return "", nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{Name: "web-1", State: config.GuestStopped})

	assert.True(t, shutdown)
	assert.True(t, res.Changed)
}

func TestReconcileGuestPowerUpToDate(t *testing.T) {
	client := &proxmox.MockClusterManager{
		FindGuestFunc: func(ctx context.Context, vmid int) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 100, Type: "qemu", Node: "pve1", Status: "running"}, nil
		},
		StartGuestFunc: func(ctx context.Context, node, typ string, vmid int) (proxmox.UPID, error) {
			t.Fatal("no power action expected")
			return "", nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{VMID: 100, State: config.GuestStarted})

	assert.False(t, res.Changed)
	assert.Equal(t, "up to date", res.Msg)
}

func TestReconcileGuestEmptyStateLeavesPowerAlone(t *testing.T) {
	client := &proxmox.MockClusterManager{
		FindGuestFunc: func(ctx context.Context, vmid int) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 100, Type: "qemu", Node: "pve1", Status: "stopped"}, nil
		},
		StartGuestFunc: func(ctx context.Context, node, typ string, vmid int) (proxmox.UPID, error) {
			t.Fatal("no power action expected without a desired state")
			return "", nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{VMID: 100})

	assert.False(t, res.Changed)
}

func TestReconcileGuestReplacesTags(t *testing.T) {
	var setTags string
	client := &proxmox.MockClusterManager{
		FindGuestFunc: func(ctx context.Context, vmid int) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 100, Type: "qemu", Node: "pve1", Status: "running", Tags: "old;web"}, nil
		},
		SetGuestConfigFunc: func(ctx context.Context, node, typ string, vmid int, opts proxmox.Params) error {
			setTags = opts["tags"]
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{
		VMID: 100,
		Tags: []string{"web", "prod"},
	})

	assert.True(t, res.Changed)
	assert.Equal(t, "prod;web", setTags)
	assert.Contains(t, res.Msg, "tags replaced")
}

func TestReconcileGuestMatchingTagsNoop(t *testing.T) {
	client := &proxmox.MockClusterManager{
		FindGuestFunc: func(ctx context.Context, vmid int) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 100, Type: "qemu", Node: "pve1", Status: "running", Tags: "prod;web"}, nil
		},
		SetGuestConfigFunc: func(ctx context.Context, node, typ string, vmid int, opts proxmox.Params) error {
			t.Fatal("no config change expected")
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{})
	res := r.reconcileGuest(context.Background(), config.GuestSpec{
		VMID: 100,
		Tags: []string{"Web", "prod"},
	})

	assert.False(t, res.Changed)
}

func TestReconcileGuestCheckMode(t *testing.T) {
	client := &proxmox.MockClusterManager{
		FindGuestFunc: func(ctx context.Context, vmid int) (*proxmox.ClusterResource, error) {
			return &proxmox.ClusterResource{VMID: 100, Type: "qemu", Node: "pve1", Status: "stopped"}, nil
		},
		StartGuestFunc: func(ctx context.Context, node, typ string, vmid int) (proxmox.UPID, error) {
			t.Fatal("no power action expected in check mode")
			return "", nil
		},
		SetGuestConfigFunc: func(ctx context.Context, node, typ string, vmid int, opts proxmox.Params) error {
			t.Fatal("no config change expected in check mode")
			return nil
		},
	}

	r := newTestReconciler(client, &config.Manifest{}, WithCheckMode(true))
	res := r.reconcileGuest(context.Background(), config.GuestSpec{
		VMID:  100,
		State: config.GuestStarted,
		Tags:  []string{"prod"},
	})

	assert.True(t, res.Changed)
	assert.Contains(t, res.Msg, "would start")
	assert.Contains(t, res.Msg, "tags would be replaced")
}

package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

// applyGuests drives declared VMs and containers to their desired power
// state and tag set. Guests are managed, not created: a declared guest
// that does not exist in the cluster is a failure.
func (r *Reconciler) applyGuests(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Guests {
		report.Add(r.reconcileGuest(ctx, spec))
	}
}

func guestName(spec config.GuestSpec) string {
	if spec.VMID != 0 {
		return strconv.Itoa(spec.VMID)
	}
	return spec.Name
}

// findGuest resolves a spec to a cluster resource, by vmid when given,
// by unique name otherwise.
func (r *Reconciler) findGuest(ctx context.Context, spec config.GuestSpec) (*proxmox.ClusterResource, error) {
	if spec.VMID != 0 {
		return r.client.FindGuest(ctx, spec.VMID)
	}
	return r.client.FindGuestByName(ctx, spec.Name)
}

func tagSet(tags []string) string {
	set := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			set = append(set, strings.ToLower(tag))
		}
	}
	sort.Strings(set)
	return strings.Join(set, ";")
}

func (r *Reconciler) reconcileGuest(ctx context.Context, spec config.GuestSpec) Result {
	kind := "guest"
	name := guestName(spec)

	guest, err := r.findGuest(ctx, spec)
	if err != nil {
		return failedResult(kind, name, fmt.Errorf("failed to locate guest: %w", err))
	}
	if guest == nil {
		return failedResult(kind, name, fmt.Errorf("guest %s does not exist in the cluster", name))
	}
	if guest.Template.Bool() {
		return failedResult(kind, name, fmt.Errorf("guest %s is a template", name))
	}

	node := spec.Node
	if node == "" {
		node = guest.Node
	}
	typ := spec.Type
	if typ == "" {
		typ = guest.Type
	}

	var changes []string

	// Power state. An empty desired state leaves the guest as is.
	if spec.State != "" {
		running := guest.Status == "running"
		wantRunning := spec.State == config.GuestStarted
		if running != wantRunning {
			verb := "start"
			if !wantRunning {
				verb = "shut down"
			}
			if r.check {
				changes = append(changes, "would "+verb)
			} else {
				if err := r.setGuestPower(ctx, node, typ, guest.VMID.Int(), wantRunning); err != nil {
					return failedResult(kind, name, fmt.Errorf("failed to %s guest: %w", verb, err))
				}
				changes = append(changes, verb+" completed")
			}
		}
	}

	// Tags replace the whole list when declared.
	if len(spec.Tags) > 0 && tagSet(guest.TagList()) != tagSet(spec.Tags) {
		if r.check {
			changes = append(changes, "tags would be replaced")
		} else {
			params := proxmox.NewParams().SetAlways("tags", tagSet(spec.Tags))
			if err := r.client.SetGuestConfig(ctx, node, typ, guest.VMID.Int(), params); err != nil {
				return failedResult(kind, name, fmt.Errorf("failed to set tags: %w", err))
			}
			changes = append(changes, "tags replaced")
		}
	}

	if len(changes) == 0 {
		return okResult(kind, name, "up to date")
	}
	return changedResult(kind, name, strings.Join(changes, ", "))
}

// setGuestPower starts or gracefully shuts down a guest and waits for
// the resulting task.
func (r *Reconciler) setGuestPower(ctx context.Context, node, typ string, vmid int, wantRunning bool) error {
	var upid proxmox.UPID
	var err error
	if wantRunning {
		upid, err = r.client.StartGuest(ctx, node, typ, vmid)
	} else {
		upid, err = r.client.ShutdownGuest(ctx, node, typ, vmid)
	}
	if err != nil {
		return err
	}
	return r.client.WaitForTask(ctx, upid)
}

package reconcile

import (
	"context"
	"sort"
	"strings"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

func (r *Reconciler) applyStorage(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Storages {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeStorage(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "storage", spec.Name, r.check, ensureFuncs[proxmox.Storage]{
			get: func(ctx context.Context) (*proxmox.Storage, error) {
				return r.client.GetStorage(ctx, spec.Name)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateStorage(ctx, spec.Name, spec.Type, storageParams(spec))
			},
			needsUpdate: func(current *proxmox.Storage) bool {
				return storageNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, _ *proxmox.Storage) error {
				// Type, path, server and export are create-only.
				params := storageParams(spec)
				delete(params, "path")
				delete(params, "server")
				delete(params, "export")
				return r.client.UpdateStorage(ctx, spec.Name, params)
			},
		}))
	}
}

func (r *Reconciler) destroyStorage(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Storages {
		report.Add(r.removeStorage(ctx, spec))
	}
}

func (r *Reconciler) removeStorage(ctx context.Context, spec config.StorageSpec) Result {
	return remove(ctx, "storage", spec.Name, r.check, r.timeouts, deleteFuncs[proxmox.Storage]{
		get: func(ctx context.Context) (*proxmox.Storage, error) {
			return r.client.GetStorage(ctx, spec.Name)
		},
		del: func(ctx context.Context, _ *proxmox.Storage) error {
			return r.client.DeleteStorage(ctx, spec.Name)
		},
	})
}

func storageParams(spec config.StorageSpec) proxmox.Params {
	params := proxmox.NewParams().
		SetList("content", spec.Content).
		SetList("nodes", spec.Nodes).
		Set("path", spec.Path).
		Set("server", spec.Server).
		Set("export", spec.Export).
		SetBool("disable", spec.Disable).
		SetBool("shared", spec.Shared)
	for k, v := range spec.Options {
		params.SetAlways(k, v)
	}
	return params
}

// commaSet normalises comma-separated lists whose order the API does not
// preserve.
func commaSet(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ",")
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// storageNeedsUpdate compares the declared definition against the
// current one. Only declared fields participate, so unmanaged options
// set out of band are left alone.
func storageNeedsUpdate(current *proxmox.Storage, spec config.StorageSpec) bool {
	if len(spec.Content) > 0 && commaSet(current.Content) != commaSet(strings.Join(spec.Content, ",")) {
		return true
	}
	if len(spec.Nodes) > 0 && commaSet(current.Nodes) != commaSet(strings.Join(spec.Nodes, ",")) {
		return true
	}
	if spec.Disable != nil && current.Disable.Bool() != *spec.Disable {
		return true
	}
	if spec.Shared != nil && current.Shared.Bool() != *spec.Shared {
		return true
	}
	for key, want := range spec.Options {
		if current.Raw[key] != want {
			return true
		}
	}
	return false
}

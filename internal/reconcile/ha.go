package reconcile

import (
	"context"
	"strings"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

// applyHA reconciles groups before resources (resources reference their
// group) and rules last (rules reference resources).
func (r *Reconciler) applyHA(ctx context.Context, report *Report) {
	r.applyHAGroups(ctx, report)
	r.applyHAResources(ctx, report)
	r.applyHARules(ctx, report)
}

func (r *Reconciler) destroyHA(ctx context.Context, report *Report) {
	r.destroyHARules(ctx, report)
	r.destroyHAResources(ctx, report)
	r.destroyHAGroups(ctx, report)
}

func haGroupParams(spec config.HAGroupSpec) proxmox.Params {
	return proxmox.NewParams().
		SetList("nodes", spec.Nodes).
		SetAlways("comment", spec.Comment).
		SetBool("restricted", spec.Restricted).
		SetBool("nofailback", spec.NoFailback)
}

func haGroupNeedsUpdate(current *proxmox.HAGroup, spec config.HAGroupSpec) bool {
	if commaSet(current.Nodes) != commaSet(strings.Join(spec.Nodes, ",")) {
		return true
	}
	if current.Comment != spec.Comment {
		return true
	}
	if spec.Restricted != nil && current.Restricted.Bool() != *spec.Restricted {
		return true
	}
	if spec.NoFailback != nil && current.NoFailback.Bool() != *spec.NoFailback {
		return true
	}
	return false
}

func (r *Reconciler) applyHAGroups(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.HA.Groups {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeHAGroup(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "ha-group", spec.Name, r.check, ensureFuncs[proxmox.HAGroup]{
			get: func(ctx context.Context) (*proxmox.HAGroup, error) {
				return r.findHAGroup(ctx, spec.Name)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateHAGroup(ctx, spec.Name, haGroupParams(spec))
			},
			needsUpdate: func(current *proxmox.HAGroup) bool {
				return haGroupNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, _ *proxmox.HAGroup) error {
				return r.client.UpdateHAGroup(ctx, spec.Name, haGroupParams(spec))
			},
		}))
	}
}

func (r *Reconciler) destroyHAGroups(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.HA.Groups {
		report.Add(r.removeHAGroup(ctx, spec))
	}
}

func (r *Reconciler) removeHAGroup(ctx context.Context, spec config.HAGroupSpec) Result {
	return remove(ctx, "ha-group", spec.Name, r.check, r.timeouts, deleteFuncs[proxmox.HAGroup]{
		get: func(ctx context.Context) (*proxmox.HAGroup, error) {
			return r.findHAGroup(ctx, spec.Name)
		},
		del: func(ctx context.Context, _ *proxmox.HAGroup) error {
			return r.client.DeleteHAGroup(ctx, spec.Name)
		},
	})
}

func (r *Reconciler) findHAGroup(ctx context.Context, name string) (*proxmox.HAGroup, error) {
	groups, err := r.client.ListHAGroups(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].Group == name {
			return &groups[i], nil
		}
	}
	return nil, nil
}

// haResourceState normalises the requested state, defaulting to started.
func haResourceState(spec config.HAResourceSpec) string {
	if spec.HAState == "" {
		return "started"
	}
	return spec.HAState
}

// haResourceNeedsUpdate compares against the API defaults: one relocate,
// one restart, started.
func haResourceNeedsUpdate(current *proxmox.HAResource, spec config.HAResourceSpec) bool {
	wantRelocate := spec.MaxRelocate
	if wantRelocate == 0 {
		wantRelocate = 1
	}
	wantRestart := spec.MaxRestart
	if wantRestart == 0 {
		wantRestart = 1
	}
	currentRelocate := current.MaxRelocate.Int()
	if currentRelocate == 0 {
		currentRelocate = 1
	}
	currentRestart := current.MaxRestart.Int()
	if currentRestart == 0 {
		currentRestart = 1
	}
	currentState := current.State
	if currentState == "" {
		currentState = "started"
	}
	return current.Comment != spec.Comment ||
		current.Group != spec.Group ||
		currentRelocate != wantRelocate ||
		currentRestart != wantRestart ||
		currentState != haResourceState(spec)
}

func haResourceParams(spec config.HAResourceSpec) proxmox.Params {
	return proxmox.NewParams().
		SetAlways("comment", spec.Comment).
		SetAlways("group", spec.Group).
		SetInt("max_relocate", spec.MaxRelocate).
		SetInt("max_restart", spec.MaxRestart).
		SetAlways("state", haResourceState(spec))
}

func (r *Reconciler) applyHAResources(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.HA.Resources {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeHAResource(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "ha-resource", spec.SID, r.check, ensureFuncs[proxmox.HAResource]{
			get: func(ctx context.Context) (*proxmox.HAResource, error) {
				return r.findHAResource(ctx, spec.SID)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateHAResource(ctx, spec.SID, haResourceParams(spec))
			},
			needsUpdate: func(current *proxmox.HAResource) bool {
				return haResourceNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, _ *proxmox.HAResource) error {
				return r.client.UpdateHAResource(ctx, spec.SID, haResourceParams(spec))
			},
		}))
	}
}

func (r *Reconciler) destroyHAResources(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.HA.Resources {
		report.Add(r.removeHAResource(ctx, spec))
	}
}

func (r *Reconciler) removeHAResource(ctx context.Context, spec config.HAResourceSpec) Result {
	return remove(ctx, "ha-resource", spec.SID, r.check, r.timeouts, deleteFuncs[proxmox.HAResource]{
		get: func(ctx context.Context) (*proxmox.HAResource, error) {
			return r.findHAResource(ctx, spec.SID)
		},
		del: func(ctx context.Context, _ *proxmox.HAResource) error {
			return r.client.DeleteHAResource(ctx, spec.SID)
		},
	})
}

func (r *Reconciler) findHAResource(ctx context.Context, sid string) (*proxmox.HAResource, error) {
	resources, err := r.client.ListHAResources(ctx)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		if resources[i].SID == sid {
			return &resources[i], nil
		}
	}
	return nil, nil
}

func haRuleParams(spec config.HARuleSpec) proxmox.Params {
	return proxmox.NewParams().
		Set("type", spec.Type).
		SetList("resources", spec.Resources).
		SetList("nodes", spec.Nodes).
		Set("affinity", spec.Affinity).
		SetAlways("comment", spec.Comment).
		SetBool("disable", spec.Disable)
}

func haRuleNeedsUpdate(current *proxmox.HARule, spec config.HARuleSpec) bool {
	if commaSet(current.Resources) != commaSet(strings.Join(spec.Resources, ",")) {
		return true
	}
	if commaSet(current.Nodes) != commaSet(strings.Join(spec.Nodes, ",")) {
		return true
	}
	if current.Affinity != spec.Affinity || current.Comment != spec.Comment {
		return true
	}
	wantDisable := spec.Disable != nil && *spec.Disable
	return current.Disable.Bool() != wantDisable
}

func (r *Reconciler) applyHARules(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.HA.Rules {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeHARule(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "ha-rule", spec.Name, r.check, ensureFuncs[proxmox.HARule]{
			get: func(ctx context.Context) (*proxmox.HARule, error) {
				return r.findHARule(ctx, spec.Name)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateHARule(ctx, spec.Name, haRuleParams(spec))
			},
			needsUpdate: func(current *proxmox.HARule) bool {
				return haRuleNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, _ *proxmox.HARule) error {
				// The rule type is immutable, everything else updates in
				// place.
				params := haRuleParams(spec)
				delete(params, "type")
				return r.client.UpdateHARule(ctx, spec.Name, params)
			},
		}))
	}
}

func (r *Reconciler) destroyHARules(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.HA.Rules {
		report.Add(r.removeHARule(ctx, spec))
	}
}

func (r *Reconciler) removeHARule(ctx context.Context, spec config.HARuleSpec) Result {
	return remove(ctx, "ha-rule", spec.Name, r.check, r.timeouts, deleteFuncs[proxmox.HARule]{
		get: func(ctx context.Context) (*proxmox.HARule, error) {
			return r.findHARule(ctx, spec.Name)
		},
		del: func(ctx context.Context, _ *proxmox.HARule) error {
			return r.client.DeleteHARule(ctx, spec.Name)
		},
	})
}

func (r *Reconciler) findHARule(ctx context.Context, name string) (*proxmox.HARule, error) {
	rules, err := r.client.ListHARules(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if rules[i].Rule == name {
			return &rules[i], nil
		}
	}
	return nil, nil
}

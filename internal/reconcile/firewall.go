package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

// applyFirewall reconciles security groups, aliases and IP sets first,
// cluster rules last, since rules may reference all three.
func (r *Reconciler) applyFirewall(ctx context.Context, report *Report) {
	r.parallel(ctx, report, map[string]func(context.Context, *Report){
		"security-groups": r.applySecurityGroups,
		"aliases":         r.applyAliases,
		"ipsets":          r.applyIPSets,
	})
	if len(r.manifest.Firewall.Rules) > 0 {
		report.Add(r.reconcileRuleList(ctx, "cluster", proxmox.FirewallScope{}, r.manifest.Firewall.Rules))
	}
}

func (r *Reconciler) destroyFirewall(ctx context.Context, report *Report) {
	if len(r.manifest.Firewall.Rules) > 0 {
		report.Add(r.clearRuleList(ctx, "cluster", proxmox.FirewallScope{}))
	}
	r.parallel(ctx, report, map[string]func(context.Context, *Report){
		"security-groups": r.destroySecurityGroups,
		"aliases":         r.destroyAliases,
		"ipsets":          r.destroyIPSets,
	})
}

func ruleParams(spec config.FirewallRuleSpec, includePos bool) proxmox.Params {
	enable := spec.Enable == nil || *spec.Enable
	params := proxmox.NewParams().
		Set("type", spec.Type).
		Set("action", spec.Action).
		Set("source", spec.Source).
		Set("dest", spec.Dest).
		Set("proto", spec.Proto).
		Set("dport", spec.DPort).
		Set("sport", spec.SPort).
		Set("macro", spec.Macro).
		Set("iface", spec.IFace).
		Set("log", spec.Log).
		Set("icmp-type", spec.ICMPType).
		Set("comment", spec.Comment).
		SetBool("enable", &enable)
	if includePos {
		params.SetIntAlways("pos", spec.Pos)
	}
	return params
}

// ruleMatches compares one rule against its spec, ignoring digest and
// ipversion which the API derives itself.
func ruleMatches(current proxmox.FirewallRule, spec config.FirewallRuleSpec) bool {
	wantEnable := spec.Enable == nil || *spec.Enable
	return current.Type == spec.Type &&
		current.Action == spec.Action &&
		current.Source == spec.Source &&
		current.Dest == spec.Dest &&
		current.Proto == spec.Proto &&
		current.DPort == spec.DPort &&
		current.SPort == spec.SPort &&
		current.Macro == spec.Macro &&
		current.IFace == spec.IFace &&
		current.Log == spec.Log &&
		current.ICMPType == spec.ICMPType &&
		current.Comment == spec.Comment &&
		current.Enable.Bool() == wantEnable
}

// reconcileRuleList diffs a whole rule list keyed by position: matching
// positions update in place, missing ones are inserted, surplus ones are
// removed from the highest position down so earlier deletes do not shift
// later ones.
func (r *Reconciler) reconcileRuleList(ctx context.Context, name string, scope proxmox.FirewallScope, desired []config.FirewallRuleSpec) Result {
	kind := "firewall-rules"
	current, err := r.client.ListFirewallRules(ctx, scope)
	if err != nil {
		return failedResult(kind, name, fmt.Errorf("failed to read current rules: %w", err))
	}

	byPos := make(map[int]proxmox.FirewallRule, len(current))
	for _, rule := range current {
		byPos[rule.Pos] = rule
	}

	var updates, creates []config.FirewallRuleSpec
	declared := make(map[int]bool, len(desired))
	for _, spec := range desired {
		declared[spec.Pos] = true
		if existing, ok := byPos[spec.Pos]; ok {
			if !ruleMatches(existing, spec) {
				updates = append(updates, spec)
			}
		} else {
			creates = append(creates, spec)
		}
	}

	var deletes []int
	for pos := range byPos {
		if !declared[pos] {
			deletes = append(deletes, pos)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(deletes)))
	sort.Slice(creates, func(i, j int) bool { return creates[i].Pos < creates[j].Pos })

	total := len(updates) + len(creates) + len(deletes)
	if total == 0 {
		return okResult(kind, name, "up to date")
	}
	summary := fmt.Sprintf("%d created, %d updated, %d deleted", len(creates), len(updates), len(deletes))
	if r.check {
		return changedResult(kind, name, "would change: "+summary)
	}

	for _, spec := range updates {
		if err := r.client.UpdateFirewallRule(ctx, scope, spec.Pos, ruleParams(spec, false)); err != nil {
			return failedResult(kind, name, fmt.Errorf("failed to update rule at pos %d: %w", spec.Pos, err))
		}
	}
	for _, spec := range creates {
		if err := r.client.CreateFirewallRule(ctx, scope, ruleParams(spec, true)); err != nil {
			return failedResult(kind, name, fmt.Errorf("failed to create rule at pos %d: %w", spec.Pos, err))
		}
	}
	for _, pos := range deletes {
		// The digest guards against a rule edited since the list read.
		if err := r.client.DeleteFirewallRule(ctx, scope, pos, byPos[pos].Digest); err != nil {
			return failedResult(kind, name, fmt.Errorf("failed to delete rule at pos %d: %w", pos, err))
		}
	}
	return changedResult(kind, name, summary)
}

// clearRuleList removes every rule of a scope, highest position first.
func (r *Reconciler) clearRuleList(ctx context.Context, name string, scope proxmox.FirewallScope) Result {
	kind := "firewall-rules"
	current, err := r.client.ListFirewallRules(ctx, scope)
	if err != nil {
		return failedResult(kind, name, fmt.Errorf("failed to read current rules: %w", err))
	}
	if len(current) == 0 {
		return okResult(kind, name, "already absent")
	}
	if r.check {
		return changedResult(kind, name, fmt.Sprintf("would delete %d rules", len(current)))
	}

	rules := append([]proxmox.FirewallRule(nil), current...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].Pos > rules[j].Pos })
	for _, rule := range rules {
		if err := r.client.DeleteFirewallRule(ctx, scope, rule.Pos, rule.Digest); err != nil {
			return failedResult(kind, name, fmt.Errorf("failed to delete rule at pos %d: %w", rule.Pos, err))
		}
	}
	return changedResult(kind, name, fmt.Sprintf("%d rules deleted", len(current)))
}

func (r *Reconciler) applySecurityGroups(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Firewall.Groups {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeSecurityGroup(ctx, spec))
			continue
		}
		res := ensure(ctx, "security-group", spec.Name, r.check, ensureFuncs[proxmox.SecurityGroup]{
			get: func(ctx context.Context) (*proxmox.SecurityGroup, error) {
				return r.findSecurityGroup(ctx, spec.Name)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateSecurityGroup(ctx, spec.Name, spec.Comment)
			},
		})
		report.Add(res)
		if res.Failed {
			continue
		}
		// A group that does not exist yet in check mode has no rule list
		// to diff against.
		if r.check && res.Changed {
			if len(spec.Rules) > 0 {
				report.Add(changedResult("firewall-rules", "group/"+spec.Name,
					fmt.Sprintf("would create %d rules", len(spec.Rules))))
			}
			continue
		}
		scope := proxmox.FirewallScope{Group: spec.Name}
		report.Add(r.reconcileRuleList(ctx, "group/"+spec.Name, scope, spec.Rules))
	}
}

func (r *Reconciler) destroySecurityGroups(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Firewall.Groups {
		report.Add(r.removeSecurityGroup(ctx, spec))
	}
}

func (r *Reconciler) removeSecurityGroup(ctx context.Context, spec config.SecurityGroupSpec) Result {
	return remove(ctx, "security-group", spec.Name, r.check, r.timeouts, deleteFuncs[proxmox.SecurityGroup]{
		get: func(ctx context.Context) (*proxmox.SecurityGroup, error) {
			return r.findSecurityGroup(ctx, spec.Name)
		},
		del: func(ctx context.Context, _ *proxmox.SecurityGroup) error {
			return r.client.DeleteSecurityGroup(ctx, spec.Name)
		},
	})
}

func (r *Reconciler) findSecurityGroup(ctx context.Context, name string) (*proxmox.SecurityGroup, error) {
	groups, err := r.client.ListSecurityGroups(ctx)
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

func (r *Reconciler) applyAliases(ctx context.Context, report *Report) {
	scope := proxmox.FirewallScope{}
	for _, spec := range r.manifest.Firewall.Aliases {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeAlias(ctx, spec))
			continue
		}
		report.Add(ensure(ctx, "firewall-alias", spec.Name, r.check, ensureFuncs[proxmox.FirewallAlias]{
			get: func(ctx context.Context) (*proxmox.FirewallAlias, error) {
				return r.findAlias(ctx, spec.Name)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateAlias(ctx, scope, spec.Name, spec.CIDR, spec.Comment)
			},
			needsUpdate: func(current *proxmox.FirewallAlias) bool {
				return !strings.EqualFold(current.CIDR, spec.CIDR) || current.Comment != spec.Comment
			},
			update: func(ctx context.Context, _ *proxmox.FirewallAlias) error {
				return r.client.UpdateAlias(ctx, scope, spec.Name, spec.CIDR, spec.Comment)
			},
		}))
	}
}

func (r *Reconciler) destroyAliases(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Firewall.Aliases {
		report.Add(r.removeAlias(ctx, spec))
	}
}

func (r *Reconciler) removeAlias(ctx context.Context, spec config.AliasSpec) Result {
	return remove(ctx, "firewall-alias", spec.Name, r.check, r.timeouts, deleteFuncs[proxmox.FirewallAlias]{
		get: func(ctx context.Context) (*proxmox.FirewallAlias, error) {
			return r.findAlias(ctx, spec.Name)
		},
		del: func(ctx context.Context, _ *proxmox.FirewallAlias) error {
			return r.client.DeleteAlias(ctx, proxmox.FirewallScope{}, spec.Name)
		},
	})
}

func (r *Reconciler) findAlias(ctx context.Context, name string) (*proxmox.FirewallAlias, error) {
	aliases, err := r.client.ListAliases(ctx, proxmox.FirewallScope{})
	if err != nil {
		return nil, err
	}
	for i := range aliases {
		if aliases[i].Name == name {
			return &aliases[i], nil
		}
	}
	return nil, nil
}

func (r *Reconciler) applyIPSets(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Firewall.IPSets {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeIPSet(ctx, spec))
			continue
		}
		report.Add(r.reconcileIPSet(ctx, spec))
	}
}

func (r *Reconciler) destroyIPSets(ctx context.Context, report *Report) {
	for _, spec := range r.manifest.Firewall.IPSets {
		report.Add(r.removeIPSet(ctx, spec))
	}
}

// reconcileIPSet ensures the set exists and its entries match, as one
// result covering set and entries together.
func (r *Reconciler) reconcileIPSet(ctx context.Context, spec config.IPSetSpec) Result {
	kind := "ipset"
	scope := proxmox.FirewallScope{}

	existing, err := r.findIPSet(ctx, spec.Name)
	if err != nil {
		return failedResult(kind, spec.Name, fmt.Errorf("failed to read current state: %w", err))
	}

	var changes []string
	if existing == nil {
		if r.check {
			msg := "would be created"
			if len(spec.Entries) > 0 {
				msg = fmt.Sprintf("would be created with %d entries", len(spec.Entries))
			}
			return changedResult(kind, spec.Name, msg)
		}
		if err := r.client.CreateIPSet(ctx, scope, spec.Name, spec.Comment); err != nil {
			if !proxmox.IsAlreadyExists(err) {
				return failedResult(kind, spec.Name, err)
			}
		} else {
			changes = append(changes, "created")
		}
	}

	var current []proxmox.IPSetEntry
	if existing != nil || !r.check {
		current, err = r.client.ListIPSetEntries(ctx, scope, spec.Name)
		if err != nil {
			return failedResult(kind, spec.Name, fmt.Errorf("failed to read entries: %w", err))
		}
	}

	byCIDR := make(map[string]proxmox.IPSetEntry, len(current))
	for _, entry := range current {
		byCIDR[entry.CIDR] = entry
	}

	var toAdd, toUpdate []config.IPSetEntrySpec
	declared := make(map[string]bool, len(spec.Entries))
	for _, entry := range spec.Entries {
		declared[entry.CIDR] = true
		existing, ok := byCIDR[entry.CIDR]
		if !ok {
			toAdd = append(toAdd, entry)
			continue
		}
		wantNoMatch := entry.NoMatch != nil && *entry.NoMatch
		if existing.Comment != entry.Comment || existing.NoMatch.Bool() != wantNoMatch {
			toUpdate = append(toUpdate, entry)
		}
	}
	var toDelete []string
	for cidr := range byCIDR {
		if !declared[cidr] {
			toDelete = append(toDelete, cidr)
		}
	}
	sort.Strings(toDelete)

	if len(toAdd)+len(toUpdate)+len(toDelete) == 0 {
		if len(changes) == 0 {
			return okResult(kind, spec.Name, "up to date")
		}
		return changedResult(kind, spec.Name, strings.Join(changes, ", "))
	}

	entrySummary := fmt.Sprintf("%d entries added, %d updated, %d removed",
		len(toAdd), len(toUpdate), len(toDelete))
	if r.check {
		return changedResult(kind, spec.Name, "would change: "+entrySummary)
	}

	for _, entry := range toAdd {
		params := proxmox.NewParams().
			Set("cidr", entry.CIDR).
			Set("comment", entry.Comment).
			SetBool("nomatch", entry.NoMatch)
		if err := r.client.AddIPSetEntry(ctx, scope, spec.Name, params); err != nil {
			return failedResult(kind, spec.Name, fmt.Errorf("failed to add %s: %w", entry.CIDR, err))
		}
	}
	for _, entry := range toUpdate {
		params := proxmox.NewParams().
			SetAlways("comment", entry.Comment).
			SetBool("nomatch", entry.NoMatch)
		if err := r.client.UpdateIPSetEntry(ctx, scope, spec.Name, entry.CIDR, params); err != nil {
			return failedResult(kind, spec.Name, fmt.Errorf("failed to update %s: %w", entry.CIDR, err))
		}
	}
	for _, cidr := range toDelete {
		if err := r.client.DeleteIPSetEntry(ctx, scope, spec.Name, cidr); err != nil {
			return failedResult(kind, spec.Name, fmt.Errorf("failed to remove %s: %w", cidr, err))
		}
	}
	changes = append(changes, entrySummary)
	return changedResult(kind, spec.Name, strings.Join(changes, ", "))
}

// removeIPSet clears the entries first, the API refuses to drop a
// non-empty set.
func (r *Reconciler) removeIPSet(ctx context.Context, spec config.IPSetSpec) Result {
	kind := "ipset"
	scope := proxmox.FirewallScope{}

	existing, err := r.findIPSet(ctx, spec.Name)
	if err != nil {
		return failedResult(kind, spec.Name, fmt.Errorf("failed to read current state: %w", err))
	}
	if existing == nil {
		return okResult(kind, spec.Name, "already absent")
	}
	if r.check {
		return changedResult(kind, spec.Name, "would be deleted")
	}

	entries, err := r.client.ListIPSetEntries(ctx, scope, spec.Name)
	if err != nil {
		return failedResult(kind, spec.Name, fmt.Errorf("failed to read entries: %w", err))
	}
	for _, entry := range entries {
		if err := r.client.DeleteIPSetEntry(ctx, scope, spec.Name, entry.CIDR); err != nil {
			return failedResult(kind, spec.Name, fmt.Errorf("failed to remove %s: %w", entry.CIDR, err))
		}
	}
	if err := r.client.DeleteIPSet(ctx, scope, spec.Name); err != nil {
		return failedResult(kind, spec.Name, err)
	}
	return changedResult(kind, spec.Name, "deleted")
}

func (r *Reconciler) findIPSet(ctx context.Context, name string) (*proxmox.IPSet, error) {
	sets, err := r.client.ListIPSets(ctx, proxmox.FirewallScope{})
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].Name == name {
			return &sets[i], nil
		}
	}
	return nil, nil
}

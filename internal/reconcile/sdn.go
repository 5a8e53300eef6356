package reconcile

import (
	"context"
	"strings"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
)

func (r *Reconciler) sdnDeclared() bool {
	sdn := r.manifest.SDN
	return len(sdn.Zones)+len(sdn.VNets)+len(sdn.Subnets) > 0
}

// applySDN runs the whole SDN phase under a single global lock: acquire,
// mutate zones then vnets then subnets, then commit once. Any failure
// rolls the pending configuration back. Check mode never takes the lock.
func (r *Reconciler) applySDN(ctx context.Context, report *Report) {
	if !r.sdnDeclared() {
		return
	}
	r.withSDNLock(ctx, report, func(ctx context.Context, local *Report, lock string) {
		r.applyZones(ctx, local, lock)
		r.applyVNets(ctx, local, lock)
		r.applySubnets(ctx, local, lock)
	})
}

// destroySDN removes subnets before vnets before zones, each layer
// refuses deletion while the next one still references it.
func (r *Reconciler) destroySDN(ctx context.Context, report *Report) {
	if !r.sdnDeclared() {
		return
	}
	r.withSDNLock(ctx, report, func(ctx context.Context, local *Report, lock string) {
		r.destroySubnets(ctx, local, lock)
		r.destroyVNets(ctx, local, lock)
		r.destroyZones(ctx, local, lock)
	})
}

func (r *Reconciler) withSDNLock(ctx context.Context, report *Report, fn func(context.Context, *Report, string)) {
	if r.check {
		fn(ctx, report, "")
		return
	}

	lock, err := r.client.AcquireSDNLock(ctx)
	if err != nil {
		report.Add(failedResult("sdn", "lock", err))
		return
	}

	local := &Report{}
	fn(ctx, local, lock)
	for _, res := range local.Results() {
		report.Add(res)
	}

	_, changed, failed := local.Counts()
	switch {
	case failed > 0:
		if err := r.client.RollbackSDN(ctx, lock); err != nil {
			report.Add(failedResult("sdn", "rollback", err))
		} else {
			r.log.Warn().Msg("sdn changes rolled back after failure")
		}
	case changed > 0:
		if err := r.client.ApplySDN(ctx, lock); err != nil {
			report.Add(failedResult("sdn", "apply", err))
		} else {
			report.Add(changedResult("sdn", "apply", "pending configuration applied"))
		}
	default:
		if err := r.client.ReleaseSDNLock(ctx, lock, false); err != nil {
			r.log.Warn().Err(err).Msg("failed to release sdn lock")
		}
	}
}

func zoneParams(spec config.SDNZoneSpec) proxmox.Params {
	return proxmox.NewParams().
		Set("bridge", spec.Bridge).
		SetInt("tag", spec.Tag).
		Set("vlan-protocol", spec.VlanProtocol).
		Set("controller", spec.Controller).
		SetInt("vrf-vxlan", spec.VRFVXLAN).
		SetList("peers", spec.Peers).
		SetInt("mtu", spec.MTU).
		SetList("nodes", spec.Nodes).
		Set("ipam", spec.IPAM).
		Set("dns", spec.DNS).
		Set("dnszone", spec.DNSZone).
		Set("reversedns", spec.ReverseDNS)
}

// zoneNeedsUpdate compares only the fields the manifest sets, unset ones
// keep whatever the cluster has.
func zoneNeedsUpdate(current *proxmox.SDNZone, spec config.SDNZoneSpec) bool {
	if spec.Bridge != "" && current.Bridge != spec.Bridge {
		return true
	}
	if spec.Tag != 0 && current.Tag != spec.Tag {
		return true
	}
	if spec.VlanProtocol != "" && current.VlanProtocol != spec.VlanProtocol {
		return true
	}
	if spec.Controller != "" && current.Controller != spec.Controller {
		return true
	}
	if spec.VRFVXLAN != 0 && current.VRFVXLAN != spec.VRFVXLAN {
		return true
	}
	if len(spec.Peers) > 0 && commaSet(current.Peers) != commaSet(strings.Join(spec.Peers, ",")) {
		return true
	}
	if spec.MTU != 0 && current.MTU != spec.MTU {
		return true
	}
	if len(spec.Nodes) > 0 && commaSet(current.Nodes) != commaSet(strings.Join(spec.Nodes, ",")) {
		return true
	}
	if spec.IPAM != "" && current.IPAM != spec.IPAM {
		return true
	}
	if spec.DNS != "" && current.DNS != spec.DNS {
		return true
	}
	if spec.DNSZone != "" && current.DNSZone != spec.DNSZone {
		return true
	}
	if spec.ReverseDNS != "" && current.ReverseDNS != spec.ReverseDNS {
		return true
	}
	return false
}

func (r *Reconciler) applyZones(ctx context.Context, report *Report, lock string) {
	for _, spec := range r.manifest.SDN.Zones {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeZone(ctx, spec, lock))
			continue
		}
		report.Add(ensure(ctx, "sdn-zone", spec.Zone, r.check, ensureFuncs[proxmox.SDNZone]{
			get: func(ctx context.Context) (*proxmox.SDNZone, error) {
				return r.findZone(ctx, spec.Zone)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateZone(ctx, spec.Zone, spec.Type, zoneParams(spec), lock)
			},
			needsUpdate: func(current *proxmox.SDNZone) bool {
				return zoneNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, _ *proxmox.SDNZone) error {
				return r.client.UpdateZone(ctx, spec.Zone, zoneParams(spec), lock)
			},
		}))
	}
}

func (r *Reconciler) destroyZones(ctx context.Context, report *Report, lock string) {
	for _, spec := range r.manifest.SDN.Zones {
		report.Add(r.removeZone(ctx, spec, lock))
	}
}

func (r *Reconciler) removeZone(ctx context.Context, spec config.SDNZoneSpec, lock string) Result {
	return remove(ctx, "sdn-zone", spec.Zone, r.check, r.timeouts, deleteFuncs[proxmox.SDNZone]{
		get: func(ctx context.Context) (*proxmox.SDNZone, error) {
			return r.findZone(ctx, spec.Zone)
		},
		del: func(ctx context.Context, _ *proxmox.SDNZone) error {
			return r.client.DeleteZone(ctx, spec.Zone, lock)
		},
	})
}

func (r *Reconciler) findZone(ctx context.Context, name string) (*proxmox.SDNZone, error) {
	zones, err := r.client.ListZones(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].Zone == name {
			return &zones[i], nil
		}
	}
	return nil, nil
}

func vnetParams(spec config.SDNVNetSpec) proxmox.Params {
	return proxmox.NewParams().
		SetInt("tag", spec.Tag).
		Set("alias", spec.Alias).
		SetBool("vlanaware", spec.VlanAware)
}

func vnetNeedsUpdate(current *proxmox.SDNVNet, spec config.SDNVNetSpec) bool {
	if current.Zone != spec.Zone {
		return true
	}
	if spec.Tag != 0 && current.Tag != spec.Tag {
		return true
	}
	if spec.Alias != "" && current.Alias != spec.Alias {
		return true
	}
	if spec.VlanAware != nil && current.VlanAware.Bool() != *spec.VlanAware {
		return true
	}
	return false
}

func (r *Reconciler) applyVNets(ctx context.Context, report *Report, lock string) {
	for _, spec := range r.manifest.SDN.VNets {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeVNet(ctx, spec, lock))
			continue
		}
		report.Add(ensure(ctx, "sdn-vnet", spec.VNet, r.check, ensureFuncs[proxmox.SDNVNet]{
			get: func(ctx context.Context) (*proxmox.SDNVNet, error) {
				return r.findVNet(ctx, spec.VNet)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateVNet(ctx, spec.VNet, spec.Zone, vnetParams(spec), lock)
			},
			needsUpdate: func(current *proxmox.SDNVNet) bool {
				return vnetNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, _ *proxmox.SDNVNet) error {
				params := vnetParams(spec)
				params.Set("zone", spec.Zone)
				return r.client.UpdateVNet(ctx, spec.VNet, params, lock)
			},
		}))
	}
}

func (r *Reconciler) destroyVNets(ctx context.Context, report *Report, lock string) {
	for _, spec := range r.manifest.SDN.VNets {
		report.Add(r.removeVNet(ctx, spec, lock))
	}
}

func (r *Reconciler) removeVNet(ctx context.Context, spec config.SDNVNetSpec, lock string) Result {
	return remove(ctx, "sdn-vnet", spec.VNet, r.check, r.timeouts, deleteFuncs[proxmox.SDNVNet]{
		get: func(ctx context.Context) (*proxmox.SDNVNet, error) {
			return r.findVNet(ctx, spec.VNet)
		},
		del: func(ctx context.Context, _ *proxmox.SDNVNet) error {
			return r.client.DeleteVNet(ctx, spec.VNet, lock)
		},
	})
}

func (r *Reconciler) findVNet(ctx context.Context, name string) (*proxmox.SDNVNet, error) {
	vnets, err := r.client.ListVNets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vnets {
		if vnets[i].VNet == name {
			return &vnets[i], nil
		}
	}
	return nil, nil
}

func subnetParams(spec config.SDNSubnetSpec) proxmox.Params {
	return proxmox.NewParams().
		Set("gateway", spec.Gateway).
		SetBool("snat", spec.SNAT).
		Set("dnszoneprefix", spec.DNSZonePrefix)
}

func subnetNeedsUpdate(current *proxmox.SDNSubnet, spec config.SDNSubnetSpec) bool {
	if spec.Gateway != "" && current.Gateway != spec.Gateway {
		return true
	}
	if spec.SNAT != nil && current.SNAT.Bool() != *spec.SNAT {
		return true
	}
	if spec.DNSZonePrefix != "" && current.DNSZonePrefix != spec.DNSZonePrefix {
		return true
	}
	return false
}

func subnetName(spec config.SDNSubnetSpec) string {
	return spec.VNet + "/" + spec.CIDR
}

func (r *Reconciler) applySubnets(ctx context.Context, report *Report, lock string) {
	for _, spec := range r.manifest.SDN.Subnets {
		if config.EffectiveState(spec.State) == config.StateAbsent {
			report.Add(r.removeSubnet(ctx, spec, lock))
			continue
		}
		report.Add(ensure(ctx, "sdn-subnet", subnetName(spec), r.check, ensureFuncs[proxmox.SDNSubnet]{
			get: func(ctx context.Context) (*proxmox.SDNSubnet, error) {
				return r.findSubnet(ctx, spec.VNet, spec.CIDR)
			},
			create: func(ctx context.Context) error {
				return r.client.CreateSubnet(ctx, spec.VNet, spec.CIDR, subnetParams(spec), lock)
			},
			needsUpdate: func(current *proxmox.SDNSubnet) bool {
				return subnetNeedsUpdate(current, spec)
			},
			update: func(ctx context.Context, current *proxmox.SDNSubnet) error {
				// Updates address the API's zone-prefixed subnet id, not
				// the bare CIDR.
				return r.client.UpdateSubnet(ctx, spec.VNet, current.Subnet, subnetParams(spec), lock)
			},
		}))
	}
}

func (r *Reconciler) destroySubnets(ctx context.Context, report *Report, lock string) {
	for _, spec := range r.manifest.SDN.Subnets {
		report.Add(r.removeSubnet(ctx, spec, lock))
	}
}

func (r *Reconciler) removeSubnet(ctx context.Context, spec config.SDNSubnetSpec, lock string) Result {
	return remove(ctx, "sdn-subnet", subnetName(spec), r.check, r.timeouts, deleteFuncs[proxmox.SDNSubnet]{
		get: func(ctx context.Context) (*proxmox.SDNSubnet, error) {
			return r.findSubnet(ctx, spec.VNet, spec.CIDR)
		},
		del: func(ctx context.Context, current *proxmox.SDNSubnet) error {
			return r.client.DeleteSubnet(ctx, spec.VNet, current.Subnet, lock)
		},
	})
}

func (r *Reconciler) findSubnet(ctx context.Context, vnet, cidr string) (*proxmox.SDNSubnet, error) {
	subnets, err := r.client.ListSubnets(ctx, vnet)
	if err != nil {
		// A vnet that does not exist yet has no subnet collection.
		if proxmox.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	want := strings.ToLower(cidr)
	for i := range subnets {
		if strings.ToLower(subnets[i].CIDR) == want {
			return &subnets[i], nil
		}
	}
	return nil, nil
}

package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/log"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
	"github.com/pvekit/pvekit/internal/util/async"
)

// Reconciler drives a cluster towards the state declared in a manifest.
type Reconciler struct {
	client   proxmox.ClusterManager
	manifest *config.Manifest
	timeouts *config.Timeouts
	log      zerolog.Logger
	check    bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithCheckMode makes the run plan-only: nothing is mutated, results
// report what would change.
func WithCheckMode(check bool) Option {
	return func(r *Reconciler) { r.check = check }
}

// WithTimeouts overrides the default timeouts.
func WithTimeouts(t *config.Timeouts) Option {
	return func(r *Reconciler) { r.timeouts = t }
}

// New creates a reconciler for the given cluster and manifest.
func New(client proxmox.ClusterManager, manifest *config.Manifest, opts ...Option) *Reconciler {
	r := &Reconciler{
		client:   client,
		manifest: manifest,
		timeouts: config.LoadTimeouts(),
		log:      log.WithComponent("reconcile"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type phase struct {
	name string
	run  func(context.Context, *Report)
}

// Apply reconciles every declared resource in phase order. A failed
// resource is recorded in the report; later phases still run. The
// returned error is non-nil only when the context ends the run early.
func (r *Reconciler) Apply(ctx context.Context) (*Report, error) {
	report := &Report{}
	phases := []phase{
		{"access", r.applyAccess},
		{"storage", r.applyStorage},
		{"sdn", r.applySDN},
		{"firewall", r.applyFirewall},
		{"ha", r.applyHA},
		{"guests", r.applyGuests},
	}
	return report, r.runPhases(ctx, report, phases)
}

// Destroy removes every declared resource in reverse phase order, so
// dependents go before their dependencies.
func (r *Reconciler) Destroy(ctx context.Context) (*Report, error) {
	report := &Report{}
	phases := []phase{
		{"ha", r.destroyHA},
		{"firewall", r.destroyFirewall},
		{"sdn", r.destroySDN},
		{"storage", r.destroyStorage},
		{"access", r.destroyAccess},
	}
	return report, r.runPhases(ctx, report, phases)
}

func (r *Reconciler) runPhases(ctx context.Context, report *Report, phases []phase) error {
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.log.Info().Str("phase", p.name).Bool("check", r.check).Msg("starting phase")
		p.run(ctx, report)
	}
	r.log.Info().Str("summary", report.Summary()).Msg("run finished")
	return nil
}

// parallel runs independent per-kind reconcile functions concurrently.
// Each function records its own results, so task errors never occur.
func (r *Reconciler) parallel(ctx context.Context, report *Report, fns map[string]func(context.Context, *Report)) {
	tasks := make([]async.Task, 0, len(fns))
	for name, fn := range fns {
		tasks = append(tasks, async.Task{
			Name: name,
			Func: func(ctx context.Context) error {
				fn(ctx, report)
				return nil
			},
		})
	}
	_ = async.RunParallel(ctx, tasks)
}

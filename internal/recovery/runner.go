package recovery

import (
	"context"
	"log/slog"
	"time"
)

// Runner sequences a recovery: list and plan, restore, then optionally
// delete orphans. The plan is fully built before the first mutating call;
// the two apply phases are independent and there is no cross-phase
// rollback.
type Runner struct {
	Store   Store
	Log     *slog.Logger
	MaxKeys int32
}

// RunOptions parameterize a single recovery run.
type RunOptions struct {
	Prefix      string
	Cutoff      time.Time
	DryRun      bool
	DeleteNewer bool
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// Run performs a full recovery for the given prefix and cutoff.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	log := r.logger()
	log.Info("starting recovery",
		"prefix", opts.Prefix,
		"cutoff", opts.Cutoff.UTC().Format(CutoffFormat),
		"dry_run", opts.DryRun,
		"delete_newer", opts.DeleteNewer)

	plan, err := BuildPlan(ctx, r.Store, opts.Prefix, opts.Cutoff, r.MaxKeys, log)
	if err != nil {
		return nil, err
	}
	return r.Apply(ctx, plan, opts)
}

// Apply executes a previously computed plan. Prefix and cutoff are taken
// from the plan itself; opts only gate dry-run and orphan deletion.
func (r *Runner) Apply(ctx context.Context, plan *Plan, opts RunOptions) (*Report, error) {
	log := r.logger()
	log.Info("applying plan",
		"targets", len(plan.Targets),
		"orphans", len(plan.Orphans),
		"versions_scanned", plan.Scanned)

	report := &Report{DryRun: opts.DryRun}
	report.Restored = Restore(ctx, r.Store, plan, opts.DryRun, log)
	if opts.DeleteNewer {
		report.Deleted = DeleteOrphans(ctx, r.Store, plan, opts.DryRun, log)
	}

	log.Info("recovery completed",
		"restored", len(report.Restored),
		"deleted", len(report.Deleted),
		"failed", report.Failed(),
		"dry_run", opts.DryRun)
	return report, nil
}

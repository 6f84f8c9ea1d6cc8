package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Plan is the outcome of one full pass over a prefix's version history.
// Every key observed in the stream ends up in exactly one of Targets or
// Orphans. A Plan is immutable once BuildPlan returns; orphan membership
// is only trustworthy at that point, since a qualifying version may appear
// on any later page.
//
// When two versions of a key carry the exact same timestamp the one
// processed first wins, so results can differ between runs if the service
// changes its return order. Timestamps are second-granular, so true ties
// are rare.
type Plan struct {
	Prefix  string
	Cutoff  time.Time
	Targets map[string]Target
	Orphans map[string]struct{}

	Scanned int
	Pages   int
}

// BuildPlan walks the full version history of prefix and selects, for each
// key, the most recent version modified at or before cutoff. Keys whose
// versions all postdate the cutoff are collected as orphans. Any listing
// error aborts the walk: a partial history would silently restore the
// wrong versions.
func BuildPlan(ctx context.Context, lister Lister, prefix string, cutoff time.Time, maxKeys int32, log *slog.Logger) (*Plan, error) {
	if log == nil {
		log = slog.Default()
	}
	if maxKeys <= 0 {
		maxKeys = DefaultPageSize
	}

	plan := &Plan{
		Prefix:  prefix,
		Cutoff:  cutoff.UTC(),
		Targets: make(map[string]Target),
		Orphans: make(map[string]struct{}),
	}

	var cursor Cursor
	for {
		log.Debug("listing object versions",
			"prefix", prefix,
			"key_marker", cursor.KeyMarker,
			"version_id_marker", cursor.VersionIDMarker)

		page, err := lister.ListVersions(ctx, prefix, cursor, maxKeys)
		if err != nil {
			return nil, fmt.Errorf("list versions for prefix %q (key marker %q): %w", prefix, cursor.KeyMarker, err)
		}
		plan.Pages++
		for _, v := range page.Versions {
			plan.fold(v, log)
		}
		if !page.Truncated {
			break
		}
		cursor = page.Next
	}

	log.Debug("version scan complete",
		"targets", len(plan.Targets),
		"orphans", len(plan.Orphans),
		"versions", plan.Scanned,
		"pages", plan.Pages)
	return plan, nil
}

func (p *Plan) fold(v Version, log *slog.Logger) {
	p.Scanned++
	log.Debug("processing version", "key", v.Key, "version_id", v.VersionID, "modified_at", v.ModifiedAt)

	if !v.ModifiedAt.After(p.Cutoff) {
		cur, ok := p.Targets[v.Key]
		if !ok || v.ModifiedAt.After(cur.ModifiedAt) {
			p.Targets[v.Key] = Target{VersionID: v.VersionID, ModifiedAt: v.ModifiedAt}
			log.Debug("updating target version", "key", v.Key, "version_id", v.VersionID)
		}
		// A qualifying version exists, so the key is not orphaned no
		// matter what order earlier pages arrived in.
		delete(p.Orphans, v.Key)
		return
	}
	if _, ok := p.Targets[v.Key]; !ok {
		log.Debug("marking key as orphan", "key", v.Key)
		p.Orphans[v.Key] = struct{}{}
	}
}

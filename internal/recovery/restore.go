package recovery

import (
	"context"
	"log/slog"
	"sort"
)

// Restore applies the plan's target versions, one copy-to-self per key.
// A dry run logs each intended action and issues no storage calls.
// Per-key failures are recorded and logged but never stop the loop:
// recovery is best-effort across the key set. Keys are processed in
// sorted order so runs are reproducible.
func Restore(ctx context.Context, store Restorer, plan *Plan, dryRun bool, log *slog.Logger) []ItemResult {
	if log == nil {
		log = slog.Default()
	}

	keys := make([]string, 0, len(plan.Targets))
	for k := range plan.Targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]ItemResult, 0, len(keys))
	for _, key := range keys {
		target := plan.Targets[key]
		res := ItemResult{Key: key, VersionID: target.VersionID, Action: ActionRestore}

		if dryRun {
			log.Info("[dry run] would restore object",
				"key", key,
				"version_id", target.VersionID,
				"modified_at", target.ModifiedAt.Format(CutoffFormat))
			results = append(results, res)
			continue
		}

		log.Info("restoring object",
			"key", key,
			"version_id", target.VersionID,
			"modified_at", target.ModifiedAt.Format(CutoffFormat))
		if err := store.RestoreVersion(ctx, key, target.VersionID); err != nil {
			log.Error("restore failed", "key", key, "version_id", target.VersionID, "err", err)
			res.Err = err
		}
		results = append(results, res)
	}
	return results
}

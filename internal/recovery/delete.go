package recovery

import (
	"context"
	"log/slog"
	"sort"
)

// DeleteOrphans removes keys that had no version at or before the cutoff.
// Destructive and opt-in: the orchestrator only calls this when the caller
// asked for it. Deleting in a versioned bucket places a delete marker; the
// key's history stays intact. Same dry-run and failure-isolation contract
// as Restore.
func DeleteOrphans(ctx context.Context, store Deleter, plan *Plan, dryRun bool, log *slog.Logger) []ItemResult {
	if log == nil {
		log = slog.Default()
	}

	keys := make([]string, 0, len(plan.Orphans))
	for k := range plan.Orphans {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]ItemResult, 0, len(keys))
	for _, key := range keys {
		res := ItemResult{Key: key, Action: ActionDelete}

		if dryRun {
			log.Info("[dry run] would delete object", "key", key)
			results = append(results, res)
			continue
		}

		log.Info("deleting object", "key", key)
		if err := store.DeleteObject(ctx, key); err != nil {
			log.Error("delete failed", "key", key, "err", err)
			res.Err = err
		}
		results = append(results, res)
	}
	return results
}

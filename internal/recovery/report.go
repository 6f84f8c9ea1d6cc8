package recovery

// Action identifies what a recovery item did (or would do, on a dry run).
type Action string

const (
	ActionRestore Action = "restore"
	ActionDelete  Action = "delete"
)

// ItemResult is the outcome of one per-key operation.
type ItemResult struct {
	Key       string
	VersionID string
	Action    Action
	Err       error
}

// Report aggregates the per-item outcomes of a recovery run.
type Report struct {
	Restored []ItemResult
	Deleted  []ItemResult
	DryRun   bool
}

// Failed counts items whose operation returned an error.
func (r *Report) Failed() int {
	n := 0
	for _, it := range r.Restored {
		if it.Err != nil {
			n++
		}
	}
	for _, it := range r.Deleted {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// Succeeded counts items that completed (or were logged as intended, on a
// dry run) without error.
func (r *Report) Succeeded() int {
	return len(r.Restored) + len(r.Deleted) - r.Failed()
}

package recovery

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type fakeStore struct {
	fakeLister
	restored   []string
	deleted    []string
	restoreErr map[string]error
	deleteErr  map[string]error
}

func (f *fakeStore) RestoreVersion(ctx context.Context, key, versionID string) error {
	f.restored = append(f.restored, key)
	return f.restoreErr[key]
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr[key]
}

func testPlan() *Plan {
	return &Plan{
		Cutoff: at("15:00"),
		Targets: map[string]Target{
			"a": {VersionID: "a1", ModifiedAt: at("14:00")},
			"b": {VersionID: "b1", ModifiedAt: at("14:30")},
			"c": {VersionID: "c1", ModifiedAt: at("13:00")},
		},
		Orphans: map[string]struct{}{
			"x": {},
			"y": {},
		},
	}
}

func TestRestore_DryRunIssuesNoCalls(t *testing.T) {
	store := &fakeStore{}
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	results := Restore(context.Background(), store, testPlan(), true, log)

	if len(store.restored) != 0 {
		t.Errorf("dry run issued %d restore calls, want 0", len(store.restored))
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("dry run result for %q carries error %v", r.Key, r.Err)
		}
	}
	if got := strings.Count(buf.String(), "would restore object"); got != 3 {
		t.Errorf("dry run logged %d intended restores, want 3 (one per key)", got)
	}
}

func TestRestore_FailureIsolation(t *testing.T) {
	boom := errors.New("access denied")
	store := &fakeStore{restoreErr: map[string]error{"b": boom}}

	results := Restore(context.Background(), store, testPlan(), false, discardLogger())

	if len(store.restored) != 3 {
		t.Errorf("restore calls = %d, want 3 (failure must not stop the loop)", len(store.restored))
	}
	var failed, ok int
	for _, r := range results {
		if r.Err != nil {
			failed++
			if r.Key != "b" {
				t.Errorf("unexpected failure for key %q", r.Key)
			}
			if !errors.Is(r.Err, boom) {
				t.Errorf("result error = %v, want %v", r.Err, boom)
			}
		} else {
			ok++
		}
	}
	if failed != 1 || ok != 2 {
		t.Errorf("failed=%d ok=%d, want 1/2", failed, ok)
	}
}

func TestRestore_ProcessesKeysInSortedOrder(t *testing.T) {
	store := &fakeStore{}
	Restore(context.Background(), store, testPlan(), false, discardLogger())
	want := []string{"a", "b", "c"}
	if len(store.restored) != len(want) {
		t.Fatalf("restored = %v, want %v", store.restored, want)
	}
	for i, k := range want {
		if store.restored[i] != k {
			t.Errorf("restored[%d] = %q, want %q", i, store.restored[i], k)
		}
	}
}

func TestDeleteOrphans_DryRunIssuesNoCalls(t *testing.T) {
	store := &fakeStore{}
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	results := DeleteOrphans(context.Background(), store, testPlan(), true, log)

	if len(store.deleted) != 0 {
		t.Errorf("dry run issued %d delete calls, want 0", len(store.deleted))
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if got := strings.Count(buf.String(), "would delete object"); got != 2 {
		t.Errorf("dry run logged %d intended deletes, want 2", got)
	}
}

func TestDeleteOrphans_FailureIsolation(t *testing.T) {
	boom := errors.New("slow down")
	store := &fakeStore{deleteErr: map[string]error{"x": boom}}

	results := DeleteOrphans(context.Background(), store, testPlan(), false, discardLogger())

	if len(store.deleted) != 2 {
		t.Errorf("delete calls = %d, want 2", len(store.deleted))
	}
	var failed int
	for _, r := range results {
		if r.Action != ActionDelete {
			t.Errorf("action = %q, want delete", r.Action)
		}
		if r.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestReport_Counts(t *testing.T) {
	r := &Report{
		Restored: []ItemResult{
			{Key: "a", Action: ActionRestore},
			{Key: "b", Action: ActionRestore, Err: errors.New("x")},
		},
		Deleted: []ItemResult{
			{Key: "c", Action: ActionDelete},
		},
	}
	if got := r.Failed(); got != 1 {
		t.Errorf("Failed = %d, want 1", got)
	}
	if got := r.Succeeded(); got != 2 {
		t.Errorf("Succeeded = %d, want 2", got)
	}
}

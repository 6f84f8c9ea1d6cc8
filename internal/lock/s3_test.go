package lock

import (
	"context"
	"io"
	"testing"
	"time"
)

type fakeStore struct {
	objects map[string]time.Time
	puts    int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]time.Time{}}
}

func (f *fakeStore) HeadObject(ctx context.Context, key string) (*time.Time, error) {
	t, ok := f.objects[key]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	f.puts++
	f.objects[key] = time.Now().UTC()
	return nil
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	f.deletes++
	delete(f.objects, key)
	return nil
}

func TestLockName(t *testing.T) {
	cases := []struct{ prefix, want string }{
		{"my-folder/", "my-folder"},
		{"a/b/c", "a-b-c"},
		{"/", "root"},
		{"", "root"},
	}
	for _, c := range cases {
		if got := LockName(c.prefix); got != c.want {
			t.Errorf("LockName(%q) = %q, want %q", c.prefix, got, c.want)
		}
	}
}

func TestAcquireRelease(t *testing.T) {
	store := newFakeStore()
	l, err := NewS3(S3Options{Store: store, Prefix: "docs/"})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, ok := store.objects[l.Key()]; !ok {
		t.Error("lock object should exist after Acquire")
	}
	if err := l.Acquire(ctx); err == nil {
		t.Error("second Acquire by the same process should fail")
	}
	if err := l.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, ok := store.objects[l.Key()]; ok {
		t.Error("lock object should be gone after Release")
	}
	// Release is idempotent.
	if err := l.Release(ctx); err != nil {
		t.Errorf("second Release: %v", err)
	}
}

func TestAcquire_HeldByOther(t *testing.T) {
	store := newFakeStore()
	l, err := NewS3(S3Options{Store: store, Prefix: "docs/", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	store.objects[l.Key()] = time.Now().UTC()

	if err := l.Acquire(context.Background()); err == nil {
		t.Error("Acquire should fail while another holder's lock is fresh")
	}
}

func TestAcquire_StaleTakeover(t *testing.T) {
	store := newFakeStore()
	l, err := NewS3(S3Options{Store: store, Prefix: "docs/", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	store.objects[l.Key()] = time.Now().UTC().Add(-2 * time.Minute)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire should take over a stale lock: %v", err)
	}
	if store.deletes != 1 {
		t.Errorf("stale lock deletes = %d, want 1", store.deletes)
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1", store.puts)
	}
}

func TestAcquire_NoTTLNeverTakesOver(t *testing.T) {
	store := newFakeStore()
	l, err := NewS3(S3Options{Store: store, Prefix: "docs/"})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	store.objects[l.Key()] = time.Now().UTC().Add(-24 * time.Hour)

	if err := l.Acquire(context.Background()); err == nil {
		t.Error("Acquire without TTL should never take over an existing lock")
	}
}

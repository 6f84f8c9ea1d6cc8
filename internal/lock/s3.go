package lock

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const lockKeyPrefix = "locks/recovery/"

// Store is the slice of the S3 client a lock needs.
type Store interface {
	HeadObject(ctx context.Context, key string) (*time.Time, error)
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
	DeleteObject(ctx context.Context, key string) error
}

// S3Locker guards a recovery prefix against concurrent runs using a lock
// object in the bucket. Not a real mutex: two writers racing the Put can
// both win. It exists to stop operators stepping on each other, not to
// serialize hostile writers.
type S3Locker struct {
	store Store
	ttl   time.Duration
	key   string
	mu    sync.Mutex
	held  bool
}

type S3Options struct {
	Store  Store
	Prefix string
	TTL    time.Duration
}

func NewS3(opts S3Options) (*S3Locker, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("s3 lock: store is required")
	}
	return &S3Locker{
		store: opts.Store,
		ttl:   opts.TTL,
		key:   lockKeyPrefix + LockName(opts.Prefix) + ".lock",
	}, nil
}

// LockName maps a recovery prefix to a flat lock object name.
func LockName(prefix string) string {
	name := strings.Trim(prefix, "/")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	if name == "" {
		name = "root"
	}
	return name
}

func (l *S3Locker) Key() string {
	return l.key
}

func (l *S3Locker) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return fmt.Errorf("s3 lock already held by this process")
	}

	lastMod, err := l.store.HeadObject(ctx, l.key)
	if err != nil {
		return fmt.Errorf("s3 lock head: %w", err)
	}
	if lastMod != nil {
		if l.ttl <= 0 {
			return fmt.Errorf("s3 lock already held: %s (another recovery may be running)", l.key)
		}
		if time.Since(*lastMod) < l.ttl {
			return fmt.Errorf("s3 lock already held: %s (held by another process)", l.key)
		}
		if err := l.store.DeleteObject(ctx, l.key); err != nil {
			return fmt.Errorf("s3 lock stale but delete failed: %w", err)
		}
	}

	body := time.Now().UTC().Format(time.RFC3339)
	if err := l.store.PutObject(ctx, l.key, strings.NewReader(body), int64(len(body))); err != nil {
		return fmt.Errorf("s3 lock put: %w", err)
	}
	l.held = true
	return nil
}

func (l *S3Locker) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	if err := l.store.DeleteObject(ctx, l.key); err != nil {
		return fmt.Errorf("s3 lock release: %w", err)
	}
	l.held = false
	return nil
}

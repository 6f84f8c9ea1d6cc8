package notifier

import (
	"context"
	"time"
)

type Notifier interface {
	NotifyStart(ctx context.Context, prefix string, cutoff time.Time) error
	NotifySuccess(ctx context.Context, prefix string, restored, deleted, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, prefix string, err error) error
}

package config

import (
	"errors"
	"fmt"
)

var ErrS3Incomplete = errors.New("incomplete s3 configuration")

const maxListPageSize = 1000

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.S3 != nil {
		if cfg.S3.Endpoint == "" {
			return fmt.Errorf("%w: endpoint is required", ErrS3Incomplete)
		}
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("%w: bucket is required", ErrS3Incomplete)
		}
	}
	if cfg.Recovery != nil {
		if cfg.Recovery.MaxKeys < 0 || cfg.Recovery.MaxKeys > maxListPageSize {
			return fmt.Errorf("recovery.max_keys must be between 1 and %d, got %d", maxListPageSize, cfg.Recovery.MaxKeys)
		}
		if cfg.Recovery.LockTTLMinutes < 0 {
			return fmt.Errorf("recovery.lock_ttl_minutes must not be negative, got %d", cfg.Recovery.LockTTLMinutes)
		}
	}
	if cfg.Notifications != nil && cfg.Notifications.Webhook != nil {
		w := cfg.Notifications.Webhook
		if w.Enabled && w.URL == "" {
			return fmt.Errorf("notifications.webhook.url is required when the webhook is enabled")
		}
	}
	return nil
}

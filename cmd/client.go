package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"VelRecover/internal/config"
	"VelRecover/internal/notifier"
	"VelRecover/internal/s3"

	"github.com/spf13/cobra"
)

var flagEndpoint string
var flagRegion string
var flagBucket string
var flagAccessKey string
var flagSecretKey string

func addS3Flags(c *cobra.Command) {
	c.Flags().StringVar(&flagEndpoint, "endpoint", "", "S3 endpoint (overrides config)")
	c.Flags().StringVar(&flagRegion, "region", "", "S3 region (overrides config)")
	c.Flags().StringVar(&flagBucket, "bucket", "", "Bucket name (overrides config)")
	c.Flags().StringVar(&flagAccessKey, "access-key", "", "Access key ID (overrides config)")
	c.Flags().StringVar(&flagSecretKey, "secret-key", "", "Secret access key (overrides config)")
}

// loadMergedConfig reads the config file (optional, since everything can
// arrive as flags) and overlays the S3 flags on top of it.
func loadMergedConfig() (*config.Config, error) {
	v, err := config.Load(configPath, true)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, err
	}
	if cfg.S3 == nil {
		cfg.S3 = &config.S3Config{}
	}
	if flagEndpoint != "" {
		cfg.S3.Endpoint = flagEndpoint
	}
	if flagRegion != "" {
		cfg.S3.Region = flagRegion
	}
	if flagBucket != "" {
		cfg.S3.Bucket = flagBucket
	}
	if flagAccessKey != "" {
		cfg.S3.AccessKey = flagAccessKey
	}
	if flagSecretKey != "" {
		cfg.S3.SecretKey = flagSecretKey
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	if cfg.S3 == nil || cfg.S3.Endpoint == "" || cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 endpoint and bucket are required (set them in %s or via --endpoint/--bucket)", config.ResolveConfigPath(configPath))
	}
	return s3.New(ctx, s3.Options{
		Endpoint:           cfg.S3.Endpoint,
		Region:             cfg.S3.Region,
		AccessKey:          cfg.S3.AccessKey,
		SecretKey:          cfg.S3.SecretKey,
		Bucket:             cfg.S3.Bucket,
		PathStyle:          config.S3PathStyle(cfg.S3),
		InsecureSkipVerify: cfg.S3.TLS != nil && cfg.S3.TLS.InsecureSkipVerify,
	})
}

func recoveryMaxKeys(cfg *config.Config) int32 {
	if cfg.Recovery != nil && cfg.Recovery.MaxKeys > 0 {
		return cfg.Recovery.MaxKeys
	}
	return 0
}

func lockTTL(cfg *config.Config) time.Duration {
	if cfg.Recovery != nil && cfg.Recovery.LockTTLMinutes > 0 {
		return time.Duration(cfg.Recovery.LockTTLMinutes) * time.Minute
	}
	return 30 * time.Minute
}

func notifierFromConfig(cfg *config.Config, log *slog.Logger) notifier.Notifier {
	if cfg.Notifications == nil || cfg.Notifications.Webhook == nil || !cfg.Notifications.Webhook.Enabled {
		return nil
	}
	n, err := notifier.NewWebhook(cfg.Notifications.Webhook)
	if err != nil {
		log.Warn("webhook notifier disabled", "err", err)
		return nil
	}
	return n
}

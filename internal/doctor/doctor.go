package doctor

import (
	"context"
	"fmt"
	"time"

	"VelRecover/internal/config"
	"VelRecover/internal/recovery"
	"VelRecover/internal/s3"
)

type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

func Run(ctx context.Context, cfg *config.Config) []CheckResult {
	var results []CheckResult

	results = append(results, CheckResult{
		Name:   "config",
		OK:     cfg != nil,
		Detail: "configuration loaded",
	})

	if cfg == nil || cfg.S3 == nil {
		results = append(results, CheckResult{Name: "s3", OK: false, Detail: "s3 not configured"})
		return results
	}

	client, err := s3.New(ctx, s3.Options{
		Endpoint:           cfg.S3.Endpoint,
		Region:             cfg.S3.Region,
		AccessKey:          cfg.S3.AccessKey,
		SecretKey:          cfg.S3.SecretKey,
		Bucket:             cfg.S3.Bucket,
		PathStyle:          config.S3PathStyle(cfg.S3),
		InsecureSkipVerify: cfg.S3.TLS != nil && cfg.S3.TLS.InsecureSkipVerify,
	})
	if err != nil {
		results = append(results, CheckResult{Name: "s3", OK: false, Detail: fmt.Sprintf("s3 client init failed: %v", err)})
		return results
	}

	ok, detail := checkListing(ctx, client)
	results = append(results, CheckResult{Name: "s3", OK: ok, Detail: detail})
	if !ok {
		return results
	}

	ok, detail = checkVersioning(ctx, client)
	results = append(results, CheckResult{Name: "versioning", OK: ok, Detail: detail})

	return results
}

func checkListing(ctx context.Context, client *s3.Client) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := client.ListVersions(ctx, "", recovery.Cursor{}, 1)
	if err != nil {
		return false, fmt.Sprintf("s3 version listing failed: %v", err)
	}
	return true, fmt.Sprintf("s3 OK (bucket=%s)", client.Bucket())
}

// Point-in-time recovery is meaningless against an unversioned bucket, so
// a non-Enabled status is a hard failure, not a warning.
func checkVersioning(ctx context.Context, client *s3.Client) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	status, err := client.BucketVersioning(ctx)
	if err != nil {
		return false, fmt.Sprintf("get bucket versioning failed: %v", err)
	}
	if status != "Enabled" {
		if status == "" {
			status = "not enabled"
		}
		return false, fmt.Sprintf("bucket versioning is %s; point-in-time recovery requires Enabled", status)
	}
	return true, fmt.Sprintf("bucket versioning enabled (bucket=%s)", client.Bucket())
}

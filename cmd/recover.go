package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"VelRecover/internal/lock"
	"VelRecover/internal/recovery"

	"github.com/spf13/cobra"
)

var recoverPrefix string
var recoverTime string
var recoverDryRun bool
var recoverDeleteNewer bool
var recoverPlanOut string
var recoverPlanIn string

func init() {
	rootCmd.AddCommand(recoverCmd)
	recoverCmd.Flags().StringVar(&recoverPrefix, "prefix", "", "Key prefix to recover (required unless --plan-in is set)")
	recoverCmd.Flags().StringVar(&recoverTime, "recovery-time", "", "Recovery time in UTC, format 2006-01-02T15:04:05Z (required unless --plan-in is set)")
	recoverCmd.Flags().BoolVar(&recoverDryRun, "dry-run", false, "Log intended actions without making changes")
	recoverCmd.Flags().BoolVar(&recoverDeleteNewer, "delete-newer-objects", false, "Delete objects whose earliest version postdates the recovery time")
	recoverCmd.Flags().StringVar(&recoverPlanOut, "plan-out", "", "Write the computed plan to this file before applying (.zst for compression)")
	recoverCmd.Flags().StringVar(&recoverPlanIn, "plan-in", "", "Apply a previously exported plan instead of scanning")
	addS3Flags(recoverCmd)
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Restore a prefix to its state at a point in time",
	Long:  "Recover scans the version history of every object under the prefix, restores each key to its newest version at or before the recovery time, and optionally deletes keys that did not exist yet.",
	RunE:  runRecover,
}

func runRecover(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := slog.Default()

	var cutoff time.Time
	if recoverPlanIn == "" {
		if recoverPrefix == "" {
			return fmt.Errorf("--prefix is required")
		}
		if recoverTime == "" {
			return fmt.Errorf("--recovery-time is required")
		}
		var err error
		cutoff, err = recovery.ParseCutoff(recoverTime)
		if err != nil {
			return err
		}
	}

	cfg, err := loadMergedConfig()
	if err != nil {
		return err
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	prefix := recoverPrefix
	var plan *recovery.Plan
	if recoverPlanIn != "" {
		var digest string
		plan, digest, err = recovery.ReadPlanFile(recoverPlanIn)
		if err != nil {
			return err
		}
		cutoff = plan.Cutoff
		prefix = plan.Prefix
		log.Info("loaded plan file", "path", recoverPlanIn, "digest", digest,
			"targets", len(plan.Targets), "orphans", len(plan.Orphans))
	}

	// Dry runs never mutate, so they do not need the lock either.
	if !recoverDryRun {
		locker, err := lock.NewS3(lock.S3Options{
			Store:  client,
			Prefix: prefix,
			TTL:    lockTTL(cfg),
		})
		if err != nil {
			return err
		}
		if err := locker.Acquire(ctx); err != nil {
			return err
		}
		defer func() {
			if err := locker.Release(context.Background()); err != nil {
				log.Warn("lock release failed", "key", locker.Key(), "err", err)
			}
		}()
	}

	runner := &recovery.Runner{
		Store:   client,
		Log:     log,
		MaxKeys: recoveryMaxKeys(cfg),
	}

	notif := notifierFromConfig(cfg, log)
	start := time.Now()
	if notif != nil {
		if err := notif.NotifyStart(ctx, prefix, cutoff); err != nil {
			log.Warn("start notification failed", "err", err)
		}
	}

	opts := recovery.RunOptions{
		Prefix:      prefix,
		Cutoff:      cutoff,
		DryRun:      recoverDryRun,
		DeleteNewer: recoverDeleteNewer,
	}

	if plan == nil {
		plan, err = recovery.BuildPlan(ctx, client, prefix, cutoff, runner.MaxKeys, log)
		if err != nil {
			if notif != nil {
				if nerr := notif.NotifyError(ctx, prefix, err); nerr != nil {
					log.Warn("error notification failed", "err", nerr)
				}
			}
			return err
		}
	}

	if recoverPlanOut != "" {
		digest, err := recovery.WritePlanFile(recoverPlanOut, plan)
		if err != nil {
			return err
		}
		log.Info("plan exported", "path", recoverPlanOut, "digest", digest)
	}

	report, err := runner.Apply(ctx, plan, opts)
	if err != nil {
		return err
	}

	if notif != nil {
		if err := notif.NotifySuccess(ctx, prefix, len(report.Restored), len(report.Deleted), report.Failed(), time.Since(start)); err != nil {
			log.Warn("success notification failed", "err", err)
		}
	}
	return nil
}

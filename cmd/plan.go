package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"VelRecover/internal/recovery"

	"github.com/spf13/cobra"
)

var planPrefix string
var planTime string
var planOut string

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planPrefix, "prefix", "", "Key prefix to plan recovery for (required)")
	planCmd.Flags().StringVar(&planTime, "recovery-time", "", "Recovery time in UTC, format 2006-01-02T15:04:05Z (required)")
	planCmd.Flags().StringVar(&planOut, "out", "", "Write the plan to this file (.zst for compression)")
	addS3Flags(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute and show a recovery plan without applying it",
	RunE:  runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if planPrefix == "" {
		return fmt.Errorf("--prefix is required")
	}
	if planTime == "" {
		return fmt.Errorf("--recovery-time is required")
	}
	cutoff, err := recovery.ParseCutoff(planTime)
	if err != nil {
		return err
	}

	cfg, err := loadMergedConfig()
	if err != nil {
		return err
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	plan, err := recovery.BuildPlan(ctx, client, planPrefix, cutoff, recoveryMaxKeys(cfg), slog.Default())
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(plan.Targets))
	for k := range plan.Targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Printf("Recovery plan for prefix %q as of %s\n", plan.Prefix, plan.Cutoff.Format(recovery.CutoffFormat))
	cmd.Printf("Scanned %d versions across %d pages\n\n", plan.Scanned, plan.Pages)

	cmd.Printf("Restore (%d):\n", len(keys))
	for _, key := range keys {
		t := plan.Targets[key]
		cmd.Printf("  %-50s -> %s (%s)\n", key, t.VersionID, t.ModifiedAt.Format(recovery.CutoffFormat))
	}

	orphans := make([]string, 0, len(plan.Orphans))
	for k := range plan.Orphans {
		orphans = append(orphans, k)
	}
	sort.Strings(orphans)

	cmd.Printf("\nNo version at or before cutoff (%d):\n", len(orphans))
	for _, key := range orphans {
		cmd.Printf("  %s\n", key)
	}

	if planOut != "" {
		digest, err := recovery.WritePlanFile(planOut, plan)
		if err != nil {
			return err
		}
		cmd.Printf("\nPlan written to %s (blake3 %s)\n", planOut, digest)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"VelRecover/internal/doctor"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
	addS3Flags(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, S3 connectivity, and bucket versioning",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig()
	if err != nil {
		cmd.Printf("Config load: ERROR: %v\n", err)
		return err
	}

	results := doctor.Run(ctx, cfg)
	allOK := true
	for _, r := range results {
		status := "OK"
		if !r.OK {
			status = "ERROR"
			allOK = false
		}
		cmd.Printf("%-12s %s: %s\n", r.Name, status, r.Detail)
	}
	if !allOK {
		return fmt.Errorf("one or more checks failed; see output above")
	}
	return nil
}

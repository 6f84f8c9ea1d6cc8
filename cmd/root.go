package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debugLogging bool
var configPath string

var rootCmd = &cobra.Command{
	Use:   "velrecover",
	Short: "Point-in-time recovery for versioned S3-compatible buckets",
	Long:  "VelRecover restores every object under a bucket prefix to the version that was current at a given UTC instant, and can delete objects that did not yet exist at that time.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debugLogging)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default /etc/velrecover/config.yaml)")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

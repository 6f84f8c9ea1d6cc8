package cmd

import (
	"fmt"
	"os"

	"VelRecover/internal/config"

	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath(configPath)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	pathStyle := true
	cfg := &config.Config{
		S3: &config.S3Config{
			Endpoint:  "https://s3.example.com",
			Region:    "us-east-1",
			AccessKey: "CHANGE_ME",
			SecretKey: "CHANGE_ME",
			Bucket:    "my-bucket",
			PathStyle: &pathStyle,
		},
		Recovery: &config.RecoveryConfig{
			MaxKeys:        999,
			LockTTLMinutes: 30,
		},
	}
	if err := config.Write(cfg, path); err != nil {
		return err
	}
	cmd.Printf("Wrote starter config to %s\n", path)
	return nil
}

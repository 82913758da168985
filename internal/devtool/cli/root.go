// Package cli defines the devtool command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"verity/internal/devtool"
)

var (
	settings *devtool.Settings
	compose  *devtool.Compose
)

var rootCmd = &cobra.Command{
	Use:   "devtool",
	Short: "Development task runner for verity",
	Long: `devtool wraps the docker compose development environment:
building images, starting and stopping the stack, database utilities,
and quality checks.

Configuration comes from devtool.yml in the project root, overridden
by VERITY_DEV_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = devtool.LoadSettings()
		if err != nil {
			return err
		}
		compose = devtool.NewCompose(settings, nil)
		return nil
	},
}

// Execute runs the command tree
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

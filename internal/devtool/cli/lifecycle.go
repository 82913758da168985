package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"verity/internal/devtool"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the development environment in detached mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Starting verity in detached mode...")
		if err := compose.Run(cmd.Context(), "up", "--detach"); err != nil {
			return err
		}
		return compose.AwaitHealthy(cmd.Context(), "server", 5*time.Minute)
	},
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Start the development environment in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Starting verity in debug mode...")
		return compose.Run(cmd.Context(), "up")
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the development environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Stopping verity...")
		return compose.Run(cmd.Context(), "down", "--remove-orphans")
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the running containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Restarting verity...")
		return compose.Run(cmd.Context(), "restart")
	},
}

var (
	destroyNoVolumes    bool
	destroyImportDBFile string
)

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Destroy the containers and volumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if destroyNoVolumes && destroyImportDBFile != "" {
			return fmt.Errorf("cannot specify both --no-volumes and --import-db-file")
		}

		fmt.Println("Destroying verity...")
		downArgs := []string{"down", "--remove-orphans"}
		if !destroyNoVolumes {
			downArgs = append(downArgs, "--volumes")
		}
		if err := compose.Run(cmd.Context(), downArgs...); err != nil {
			return err
		}

		if destroyImportDBFile == "" {
			return nil
		}

		fmt.Printf("Importing database file: %s...\n", destroyImportDBFile)
		backend, err := devtool.DetectBackend(settings)
		if err != nil {
			return err
		}
		if err := compose.Run(cmd.Context(), "up", "--detach", "--wait", "db"); err != nil {
			return err
		}
		importCmd, err := devtool.ImportDBCommand(backend, destroyImportDBFile)
		if err != nil {
			return err
		}
		if err := compose.Run(cmd.Context(), importCmd...); err != nil {
			return err
		}
		return compose.Run(cmd.Context(), "down", "--remove-orphans")
	},
}

func init() {
	destroyCmd.Flags().BoolVar(&destroyNoVolumes, "no-volumes", false, "keep the data volumes")
	destroyCmd.Flags().StringVar(&destroyImportDBFile, "import-db-file", "", "import a database dump after the destroy")
	rootCmd.AddCommand(startCmd, debugCmd, stopCmd, restartCmd, destroyCmd)
}

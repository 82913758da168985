package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Open a shell inside the server container",
	RunE: func(cmd *cobra.Command, args []string) error {
		return compose.Run(cmd.Context(), "exec", "server", "bash")
	},
}

var execService string

var execCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "Run a command in a service container (or locally with local mode)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settings.Local {
			return compose.RunCommand(cmd.Context(), args[0], args[1:]...)
		}
		composeArgs := append([]string{"exec", execService}, args...)
		return compose.Run(cmd.Context(), composeArgs...)
	},
}

var (
	logsFollow bool
	logsTail   int
)

var logsCmd = &cobra.Command{
	Use:   "logs [service...]",
	Short: "Show container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		composeArgs := []string{"logs"}
		if logsFollow {
			composeArgs = append(composeArgs, "--follow")
		}
		if logsTail > 0 {
			composeArgs = append(composeArgs, "--tail", fmt.Sprint(logsTail))
		}
		composeArgs = append(composeArgs, args...)
		return compose.Run(cmd.Context(), composeArgs...)
	},
}

var statusAll bool

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"ps"},
	Short:   "Show the state of the development containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		running, err := compose.ServiceRunning(cmd.Context(), "server")
		if err != nil {
			return err
		}
		if running {
			fmt.Println("server: running")
		} else {
			fmt.Println("server: stopped")
		}
		psArgs := []string{"ps"}
		if statusAll {
			psArgs = append(psArgs, "--all")
		}
		return compose.Run(cmd.Context(), psArgs...)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the merged compose configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return compose.Run(cmd.Context(), "config")
	},
}

func init() {
	execCmd.Flags().StringVar(&execService, "service", "server", "compose service to run the command in")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	logsCmd.Flags().IntVar(&logsTail, "tail", 0, "number of lines to show from the end of the logs")
	statusCmd.Flags().BoolVarP(&statusAll, "all", "a", false, "include stopped containers")
	rootCmd.AddCommand(cliCmd, execCmd, logsCmd, statusCmd, exportCmd)
}

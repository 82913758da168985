package cli

import (
	"github.com/spf13/cobra"

	"verity/internal/devtool"
)

var (
	dbShellInputFile  string
	dbShellQuery      string
	dbShellOutputFile string
)

var dbShellCmd = &cobra.Command{
	Use:   "dbshell",
	Short: "Open a shell on the database, or run a script or query",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := devtool.DetectBackend(settings)
		if err != nil {
			return err
		}
		opts := devtool.DBShellOptions{
			Backend:    backend,
			InputFile:  dbShellInputFile,
			Query:      dbShellQuery,
			OutputFile: dbShellOutputFile,
		}
		shellCmd, err := devtool.DBShellCommand(opts)
		if err != nil {
			return err
		}
		return compose.Run(cmd.Context(), shellCmd...)
	},
}

var importDBFile string

var importDBCmd = &cobra.Command{
	Use:   "import-db",
	Short: "Restore a database dump into the dev database",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := devtool.DetectBackend(settings)
		if err != nil {
			return err
		}
		return devtool.ImportDB(cmd.Context(), compose, backend, importDBFile)
	},
}

var (
	backupDBFile     string
	backupDBReadable bool
)

var backupDBCmd = &cobra.Command{
	Use:   "backup-db",
	Short: "Dump the dev database to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := devtool.DetectBackend(settings)
		if err != nil {
			return err
		}
		return devtool.BackupDB(cmd.Context(), compose, backend, backupDBFile, backupDBReadable)
	},
}

func init() {
	dbShellCmd.Flags().StringVar(&dbShellInputFile, "input-file", "", "SQL file to execute and quit (mutually exclusive with --query)")
	dbShellCmd.Flags().StringVar(&dbShellQuery, "query", "", "SQL command to execute and quit (mutually exclusive with --input-file)")
	dbShellCmd.Flags().StringVar(&dbShellOutputFile, "output-file", "", "file to write the results to (requires --input-file or --query)")
	importDBCmd.Flags().StringVar(&importDBFile, "input-file", "dump.sql", "database dump to restore")
	backupDBCmd.Flags().StringVar(&backupDBFile, "output-file", "dump.sql", "file to write the dump to")
	backupDBCmd.Flags().BoolVar(&backupDBReadable, "readable", false, "dump with per-row inserts for readable diffs")
	rootCmd.AddCommand(dbShellCmd, importDBCmd, backupDBCmd)
}

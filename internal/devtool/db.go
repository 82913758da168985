package devtool

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Database backends the development environment supports
const (
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// DBShellOptions configure an interactive or scripted database shell
type DBShellOptions struct {
	Backend string
	// InputFile is a SQL script to execute instead of an interactive shell
	InputFile string
	// Query is a SQL string to execute instead of an interactive shell
	Query string
	// OutputFile receives the results of InputFile or Query
	OutputFile string
}

// Validate enforces the option constraints: input-file and query are
// mutually exclusive, and output-file needs one of them.
func (o DBShellOptions) Validate() error {
	if o.InputFile != "" && o.Query != "" {
		return fmt.Errorf("cannot specify both --input-file and --query")
	}
	if o.OutputFile != "" && o.InputFile == "" && o.Query == "" {
		return fmt.Errorf("--output-file requires --input-file or --query")
	}
	return nil
}

// DBShellCommand builds the docker compose exec command for a database
// shell against the given backend.
func DBShellCommand(opts DBShellOptions) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var cmd []string
	switch opts.Backend {
	case BackendPostgres:
		cmd = []string{"exec"}
		if opts.InputFile != "" || opts.OutputFile != "" {
			cmd = append(cmd, "--no-TTY")
		}
		cmd = append(cmd, "db", "sh", "-c", pgShell(opts))
	case BackendMySQL:
		cmd = []string{"exec"}
		if opts.InputFile != "" || opts.OutputFile != "" {
			cmd = append(cmd, "--no-TTY")
		}
		cmd = append(cmd, "db", "sh", "-c", mysqlShell(opts))
	default:
		return nil, fmt.Errorf("unsupported database backend %q", opts.Backend)
	}
	return cmd, nil
}

func pgShell(opts DBShellOptions) string {
	var sb strings.Builder
	sb.WriteString(`psql --username="$POSTGRES_USER" "$POSTGRES_DB"`)
	if opts.Query != "" {
		sb.WriteString(fmt.Sprintf(" --command=%q", opts.Query))
	}
	if opts.InputFile != "" {
		sb.WriteString(" < " + opts.InputFile)
	}
	if opts.OutputFile != "" {
		sb.WriteString(" > " + opts.OutputFile)
	}
	return sb.String()
}

func mysqlShell(opts DBShellOptions) string {
	var sb strings.Builder
	sb.WriteString(`mysql --user="$MYSQL_USER" --password="$MYSQL_PASSWORD" "$MYSQL_DATABASE"`)
	if opts.Query != "" {
		sb.WriteString(fmt.Sprintf(" --execute=%q", opts.Query))
	}
	if opts.InputFile != "" {
		sb.WriteString(" < " + opts.InputFile)
	}
	if opts.OutputFile != "" {
		sb.WriteString(" > " + opts.OutputFile)
	}
	return sb.String()
}

// ImportDBCommand builds the command restoring a database dump into
// the db service.
func ImportDBCommand(backend, inputFile string) ([]string, error) {
	if inputFile == "" {
		inputFile = "dump.sql"
	}
	switch backend {
	case BackendPostgres:
		return []string{
			"exec", "--no-TTY", "db", "sh", "-c",
			`psql --username="$POSTGRES_USER" postgres < ` + inputFile,
		}, nil
	case BackendMySQL:
		return []string{
			"exec", "--no-TTY", "db", "sh", "-c",
			`mysql --user="$MYSQL_USER" --password="$MYSQL_PASSWORD" "$MYSQL_DATABASE" < ` + inputFile,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database backend %q", backend)
	}
}

// DropCreateDBCommand builds the command recreating an empty database,
// run before a restore so the dump lands on a clean schema.
func DropCreateDBCommand(backend string) ([]string, error) {
	switch backend {
	case BackendPostgres:
		return []string{
			"exec", "--no-TTY", "db", "sh", "-c",
			`dropdb --if-exists --username="$POSTGRES_USER" "$POSTGRES_DB" && createdb --username="$POSTGRES_USER" "$POSTGRES_DB"`,
		}, nil
	case BackendMySQL:
		return []string{
			"exec", "--no-TTY", "db", "sh", "-c",
			`mysql --user=root --password="$MYSQL_ROOT_PASSWORD" --execute="DROP DATABASE IF EXISTS $MYSQL_DATABASE; CREATE DATABASE $MYSQL_DATABASE;"`,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database backend %q", backend)
	}
}

// BackupDBCommand builds the command dumping the database to a file.
// With readable set, the dump uses per-row inserts so diffs stay usable.
func BackupDBCommand(backend, outputFile string, readable bool) ([]string, error) {
	if outputFile == "" {
		outputFile = "dump.sql"
	}
	switch backend {
	case BackendPostgres:
		dump := `pg_dump --username="$POSTGRES_USER" "$POSTGRES_DB"`
		if readable {
			dump += " --inserts"
		}
		return []string{
			"exec", "--no-TTY", "db", "sh", "-c",
			dump + " > " + outputFile,
		}, nil
	case BackendMySQL:
		dump := `mysqldump --user="$MYSQL_USER" --password="$MYSQL_PASSWORD" "$MYSQL_DATABASE"`
		if readable {
			dump += " --skip-extended-insert"
		}
		return []string{
			"exec", "--no-TTY", "db", "sh", "-c",
			dump + " --result-file=" + outputFile,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database backend %q", backend)
	}
}

// DetectBackend infers the database backend from the configured
// compose files. A file set naming neither backend is rejected.
func DetectBackend(s *Settings) (string, error) {
	for _, name := range s.ComposeFiles {
		if strings.Contains(name, "mysql") {
			return BackendMySQL, nil
		}
	}
	for _, name := range s.ComposeFiles {
		if strings.Contains(name, "postgres") {
			return BackendPostgres, nil
		}
	}
	return "", fmt.Errorf("unsupported database backend: compose files %v name neither mysql nor postgres", s.ComposeFiles)
}

// ImportDB restores a dump. The app services are stopped first so no
// connections hold the database open, the db service is brought up and
// waited on until healthy, and the database is recreated empty before
// the dump is fed in.
func ImportDB(ctx context.Context, c *Compose, backend, inputFile string) error {
	dropCmd, err := DropCreateDBCommand(backend)
	if err != nil {
		return err
	}
	importCmd, err := ImportDBCommand(backend, inputFile)
	if err != nil {
		return err
	}

	if err := c.Run(ctx, "stop", "--", "server", "worker"); err != nil {
		return fmt.Errorf("stop app services: %w", err)
	}
	if err := c.Run(ctx, "up", "--detach", "db"); err != nil {
		return fmt.Errorf("start db service: %w", err)
	}
	if err := c.AwaitHealthy(ctx, "db", 2*time.Minute); err != nil {
		return err
	}
	if err := c.Run(ctx, dropCmd...); err != nil {
		return fmt.Errorf("recreate database: %w", err)
	}
	return c.Run(ctx, importCmd...)
}

// BackupDB dumps the database to a file on the host
func BackupDB(ctx context.Context, c *Compose, backend, outputFile string, readable bool) error {
	cmd, err := BackupDBCommand(backend, outputFile, readable)
	if err != nil {
		return err
	}
	return c.Run(ctx, cmd...)
}

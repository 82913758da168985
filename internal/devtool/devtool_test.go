package devtool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsTruthy(t *testing.T) {
	trueValues := []string{"y", "yes", "t", "true", "on", "1", "YES", "True", " on "}
	for _, v := range trueValues {
		got, err := IsTruthy(v)
		if err != nil || !got {
			t.Errorf("IsTruthy(%q) = %v, %v; want true, nil", v, got, err)
		}
	}

	falseValues := []string{"n", "no", "f", "false", "off", "0", "NO", "False"}
	for _, v := range falseValues {
		got, err := IsTruthy(v)
		if err != nil || got {
			t.Errorf("IsTruthy(%q) = %v, %v; want false, nil", v, got, err)
		}
	}

	for _, v := range []string{"", "maybe", "2", "enabled"} {
		if _, err := IsTruthy(v); err == nil {
			t.Errorf("IsTruthy(%q) must error", v)
		}
	}
}

func TestDBShellOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    DBShellOptions
		wantErr bool
	}{
		{"interactive", DBShellOptions{Backend: BackendPostgres}, false},
		{"query only", DBShellOptions{Backend: BackendPostgres, Query: "SELECT 1"}, false},
		{"input file only", DBShellOptions{Backend: BackendPostgres, InputFile: "in.sql"}, false},
		{"query with output", DBShellOptions{Backend: BackendPostgres, Query: "SELECT 1", OutputFile: "out.txt"}, false},
		{"input and query", DBShellOptions{Backend: BackendPostgres, InputFile: "in.sql", Query: "SELECT 1"}, true},
		{"output alone", DBShellOptions{Backend: BackendPostgres, OutputFile: "out.txt"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDBShellCommandUnsupportedBackend(t *testing.T) {
	if _, err := DBShellCommand(DBShellOptions{Backend: "oracle"}); err == nil {
		t.Fatal("unsupported backend must error")
	}
	if _, err := ImportDBCommand("oracle", ""); err == nil {
		t.Fatal("unsupported backend must error")
	}
	if _, err := BackupDBCommand("oracle", "", false); err == nil {
		t.Fatal("unsupported backend must error")
	}
	if _, err := DropCreateDBCommand("oracle"); err == nil {
		t.Fatal("unsupported backend must error")
	}
}

func TestBackupDBCommandReadable(t *testing.T) {
	cmd, err := BackupDBCommand(BackendPostgres, "out.sql", true)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(cmd, " ")
	if !strings.Contains(joined, "--inserts") || !strings.Contains(joined, "> out.sql") {
		t.Errorf("unexpected command: %v", cmd)
	}

	cmd, err = BackupDBCommand(BackendMySQL, "", true)
	if err != nil {
		t.Fatal(err)
	}
	joined = strings.Join(cmd, " ")
	if !strings.Contains(joined, "--skip-extended-insert") || !strings.Contains(joined, "--result-file=dump.sql") {
		t.Errorf("unexpected command: %v", cmd)
	}
}

func TestDBShellCommandShapes(t *testing.T) {
	cmd, err := DBShellCommand(DBShellOptions{Backend: BackendPostgres, Query: "SELECT 1", OutputFile: "out.txt"})
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(cmd, " ")
	if !strings.Contains(joined, "--no-TTY") {
		t.Errorf("scripted shell must disable TTY: %v", cmd)
	}
	if !strings.Contains(joined, "psql") || !strings.Contains(joined, "> out.txt") {
		t.Errorf("unexpected command: %v", cmd)
	}

	cmd, err = DBShellCommand(DBShellOptions{Backend: BackendMySQL})
	if err != nil {
		t.Fatal(err)
	}
	joined = strings.Join(cmd, " ")
	if strings.Contains(joined, "--no-TTY") {
		t.Errorf("interactive shell must keep the TTY: %v", cmd)
	}
	if !strings.Contains(joined, "mysql") {
		t.Errorf("unexpected command: %v", cmd)
	}
}

func TestDetectBackend(t *testing.T) {
	s := &Settings{ComposeFiles: []string{"docker-compose.base.yml", "docker-compose.postgres.yml"}}
	got, err := DetectBackend(s)
	if err != nil || got != BackendPostgres {
		t.Errorf("backend = %q, %v; want postgres", got, err)
	}

	s.ComposeFiles = []string{"docker-compose.base.yml", "docker-compose.mysql.yml"}
	got, err = DetectBackend(s)
	if err != nil || got != BackendMySQL {
		t.Errorf("backend = %q, %v; want mysql", got, err)
	}

	// Neither backend named: must error instead of assuming postgres
	s.ComposeFiles = []string{"docker-compose.base.yml", "docker-compose.redis.yml"}
	if _, err := DetectBackend(s); err == nil {
		t.Error("compose files without a database backend must error")
	}

	s.ComposeFiles = nil
	if _, err := DetectBackend(s); err == nil {
		t.Error("empty compose file list must error")
	}
}

// fakeRunner records invocations instead of executing them
type fakeRunner struct {
	calls [][]string
}

func (f *fakeRunner) Run(ctx context.Context, env []string, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, env []string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return "", nil
}

func testSettings(t *testing.T, composeFiles ...string) *Settings {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "development")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range composeFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("services: {}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return &Settings{
		ProjectName:        "verity",
		GoVer:              "1.24",
		ComposeDir:         "development",
		ComposeFiles:       append([]string{}, composeFiles...),
		ComposeHTTPTimeout: "86400",
		ProjectRoot:        root,
	}
}

func TestComposeArgs(t *testing.T) {
	s := testSettings(t, "docker-compose.base.yml", "docker-compose.dev.yml")
	c := NewCompose(s, &fakeRunner{})

	args := c.Args("up", "--detach")
	joined := strings.Join(args, " ")

	if !strings.HasPrefix(joined, "compose --project-name verity --project-directory development") {
		t.Errorf("args = %v", args)
	}
	if strings.Count(joined, " -f ") != 2 {
		t.Errorf("want 2 -f flags, got: %v", args)
	}
	if !strings.HasSuffix(joined, "up --detach") {
		t.Errorf("command not last: %v", args)
	}
}

func TestComposeArgsSkipsMissingFiles(t *testing.T) {
	s := testSettings(t, "docker-compose.base.yml")
	s.ComposeFiles = append(s.ComposeFiles, "docker-compose.absent.yml")
	c := NewCompose(s, &fakeRunner{})

	joined := strings.Join(c.Args("ps"), " ")
	if strings.Contains(joined, "absent") {
		t.Errorf("missing compose file included: %s", joined)
	}
	if !strings.Contains(joined, "docker-compose.base.yml") {
		t.Errorf("existing compose file dropped: %s", joined)
	}
}

func TestRunCommandLocalVsContainer(t *testing.T) {
	s := testSettings(t, "docker-compose.base.yml")
	runner := &fakeRunner{}
	c := NewCompose(s, runner)

	s.Local = true
	if err := c.RunCommand(context.Background(), "go", "vet", "./..."); err != nil {
		t.Fatal(err)
	}
	if runner.calls[0][0] != "go" {
		t.Errorf("local run must execute directly: %v", runner.calls[0])
	}

	s.Local = false
	if err := c.RunCommand(context.Background(), "go", "vet", "./..."); err != nil {
		t.Fatal(err)
	}
	last := runner.calls[len(runner.calls)-1]
	joined := strings.Join(last, " ")
	if last[0] != "docker" || !strings.Contains(joined, "exec server go vet") {
		t.Errorf("container run must go through compose exec: %v", last)
	}
}

func TestLoadSettingsDefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.ProjectName != "verity" || s.ComposeDir != "development" {
		t.Errorf("defaults = %+v", s)
	}
	if len(s.ComposeFiles) != 4 {
		t.Errorf("compose files = %v", s.ComposeFiles)
	}
	if s.Local {
		t.Error("local must default false")
	}

	t.Setenv("VERITY_DEV_LOCAL", "yes")
	t.Setenv("VERITY_DEV_PROJECT_NAME", "custom")
	s, err = LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if !s.Local {
		t.Error("VERITY_DEV_LOCAL=yes ignored")
	}
	if s.ProjectName != "custom" {
		t.Errorf("project name = %q, want custom", s.ProjectName)
	}

	t.Setenv("VERITY_DEV_LOCAL", "maybe")
	if _, err := LoadSettings(); err == nil {
		t.Error("invalid VERITY_DEV_LOCAL must error")
	}
}

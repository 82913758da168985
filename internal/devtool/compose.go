package devtool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes external commands. The default implementation shells
// out; tests substitute a recorder.
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) error
	Output(ctx context.Context, env []string, name string, args ...string) (string, error)
}

// ExecRunner runs commands against the real system, streaming output
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func (ExecRunner) Output(ctx context.Context, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Compose drives docker compose for the development environment
type Compose struct {
	settings *Settings
	runner   Runner
}

// NewCompose creates a compose driver
func NewCompose(settings *Settings, runner Runner) *Compose {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Compose{settings: settings, runner: runner}
}

// Args assembles the full docker compose argument list: project name,
// project directory, every existing compose file, then the command.
func (c *Compose) Args(command ...string) []string {
	args := []string{
		"compose",
		"--project-name", c.settings.ProjectName,
		"--project-directory", c.settings.ComposeDir,
	}
	for _, name := range c.settings.ComposeFiles {
		path := c.settings.ComposePath(name)
		if !fileExists(path) {
			fmt.Fprintf(os.Stderr, "Warning: compose file %s not found, skipping\n", path)
			continue
		}
		args = append(args, "-f", path)
	}
	return append(args, command...)
}

// Run executes a docker compose command
func (c *Compose) Run(ctx context.Context, command ...string) error {
	return c.runner.Run(ctx, c.settings.Env(), "docker", c.Args(command...)...)
}

// Output executes a docker compose command and captures stdout
func (c *Compose) Output(ctx context.Context, command ...string) (string, error) {
	return c.runner.Output(ctx, c.settings.Env(), "docker", c.Args(command...)...)
}

// RunCommand runs a project command either locally or inside the
// server container, depending on the local setting.
func (c *Compose) RunCommand(ctx context.Context, command string, args ...string) error {
	if c.settings.Local {
		return c.runner.Run(ctx, c.settings.Env(), command, args...)
	}
	composeArgs := append([]string{"exec", "server", command}, args...)
	return c.Run(ctx, composeArgs...)
}

// ServiceRunning reports whether a compose service has a running container
func (c *Compose) ServiceRunning(ctx context.Context, svc string) (bool, error) {
	out, err := c.Output(ctx, "ps", "--services", "--filter", "status=running")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == svc {
			return true, nil
		}
	}
	return false, nil
}

// AwaitHealthy polls a container's health status until it reports
// healthy or the timeout elapses.
func (c *Compose) AwaitHealthy(ctx context.Context, svc string, timeout time.Duration) error {
	container := fmt.Sprintf("%s-%s-1", c.settings.ProjectName, svc)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		out, err := c.runner.Output(ctx, c.settings.Env(),
			"docker", "inspect", "--format", "{{.State.Health.Status}}", container)
		if err == nil && out == "healthy" {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return fmt.Errorf("service %s not healthy after %s", svc, timeout)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

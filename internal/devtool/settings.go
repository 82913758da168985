// Package devtool implements the development task runner: docker
// compose lifecycle, database utilities, and quality checks for the
// verity development environment.
package devtool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds task runner configuration. Values come from
// devtool.yml in the project root, overridden by VERITY_DEV_*
// environment variables.
type Settings struct {
	ProjectName        string
	GoVer              string
	Local              bool
	ComposeDir         string
	ComposeFiles       []string
	ComposeHTTPTimeout string
	ProjectRoot        string
}

// Defaults mirrored into viper before reading the config file
const (
	defaultProjectName = "verity"
	defaultGoVer       = "1.24"
	defaultComposeDir  = "development"
	defaultHTTPTimeout = "86400"
)

var defaultComposeFiles = []string{
	"docker-compose.base.yml",
	"docker-compose.redis.yml",
	"docker-compose.postgres.yml",
	"docker-compose.dev.yml",
}

// LoadSettings reads devtool.yml and the environment. A missing config
// file is fine; defaults and env cover everything.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("devtool")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("project_name", defaultProjectName)
	v.SetDefault("go_ver", defaultGoVer)
	v.SetDefault("local", false)
	v.SetDefault("compose_dir", defaultComposeDir)
	v.SetDefault("compose_files", defaultComposeFiles)
	v.SetDefault("compose_http_timeout", defaultHTTPTimeout)

	v.SetEnvPrefix("VERITY_DEV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read devtool config: %w", err)
		}
	}

	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	s := &Settings{
		ProjectName:        v.GetString("project_name"),
		GoVer:              v.GetString("go_ver"),
		Local:              v.GetBool("local"),
		ComposeDir:         v.GetString("compose_dir"),
		ComposeFiles:       v.GetStringSlice("compose_files"),
		ComposeHTTPTimeout: v.GetString("compose_http_timeout"),
		ProjectRoot:        root,
	}

	// Env override for local may arrive as a truthy string
	if raw := os.Getenv("VERITY_DEV_LOCAL"); raw != "" {
		local, err := IsTruthy(raw)
		if err != nil {
			return nil, fmt.Errorf("VERITY_DEV_LOCAL: %w", err)
		}
		s.Local = local
	}

	return s, nil
}

// ComposePath returns the absolute path of a compose file
func (s *Settings) ComposePath(name string) string {
	return filepath.Join(s.ProjectRoot, s.ComposeDir, name)
}

// Env returns the environment variables passed to compose invocations
func (s *Settings) Env() []string {
	return append(os.Environ(),
		"GO_VER="+s.GoVer,
		"COMPOSE_HTTP_TIMEOUT="+s.ComposeHTTPTimeout,
		"COMPOSE_PROJECT_NAME="+s.ProjectName,
	)
}

package config

import "time"

// Config is the root configuration structure
type Config struct {
	Version         int                `yaml:"version"`
	Server          ServerConfig       `yaml:"server"`
	Database        DatabaseConfig     `yaml:"database"`
	HideExampleJobs *bool              `yaml:"hide_example_jobs,omitempty"`
	ExampleDataFile string             `yaml:"example_data_file,omitempty"`
	Sync            SyncConfig         `yaml:"sync"`
	Integrations    IntegrationsConfig `yaml:"integrations"`
}

// SyncConfig controls the sync scheduler
type SyncConfig struct {
	// PollInterval is how often polling adapters re-sync
	PollInterval string `yaml:"poll_interval,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// APITokenHash is a bcrypt hash of the bearer token required on API
	// requests. Empty disables authentication.
	APITokenHash string `yaml:"api_token_hash,omitempty"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// IntegrationsConfig groups per-integration settings
type IntegrationsConfig struct {
	ACI        ACISettings        `yaml:"aci"`
	AristaCV   AristaCVSettings   `yaml:"aristacv"`
	Device42   Device42Settings   `yaml:"device42"`
	Infoblox   InfobloxSettings   `yaml:"infoblox"`
	IPFabric   IPFabricSettings   `yaml:"ipfabric"`
	ServiceNow ServiceNowSettings `yaml:"servicenow"`
}

// HideExamples reports whether the example job should be hidden (default true)
func (c *Config) HideExamples() bool {
	if c.HideExampleJobs == nil {
		return true
	}
	return *c.HideExampleJobs
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

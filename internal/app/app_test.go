package app

import (
	"strings"
	"testing"

	"verity/internal/config"
)

func TestReadyAcceptsDefaults(t *testing.T) {
	if err := Current().Ready(config.DefaultConfig()); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestReadyRejectsBadSchemaVersion(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Version = 99
	if err := Current().Ready(cfg); err == nil {
		t.Error("unsupported schema version must fail")
	}
	if err := Current().Ready(nil); err == nil {
		t.Error("nil config must fail")
	}
}

func TestReadyRequiresIntegrationSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			"aci without apics",
			func(c *config.Config) { c.Integrations.ACI.Enabled = true },
			"aci.apics",
		},
		{
			"aristacv without host or token",
			func(c *config.Config) { c.Integrations.AristaCV.Enabled = true },
			"aristacv.cvp_host or aristacv.cvp_token",
		},
		{
			"device42 without credentials",
			func(c *config.Config) { c.Integrations.Device42.Enabled = true },
			"device42.host",
		},
		{
			"infoblox without url",
			func(c *config.Config) {
				c.Integrations.Infoblox.Enabled = true
				c.Integrations.Infoblox.Username = "admin"
			},
			"infoblox.url",
		},
		{
			"ipfabric without token",
			func(c *config.Config) {
				c.Integrations.IPFabric.Enabled = true
				c.Integrations.IPFabric.Host = "https://ipf.example.com"
			},
			"ipfabric.api_token",
		},
		{
			"servicenow without instance",
			func(c *config.Config) {
				c.Integrations.ServiceNow.Enabled = true
				c.Integrations.ServiceNow.Username = "integration"
			},
			"servicenow.instance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := Current().Ready(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not name %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadyAcceptsCompleteIntegration(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrations.ServiceNow.Enabled = true
	cfg.Integrations.ServiceNow.Instance = "dev12345"
	cfg.Integrations.ServiceNow.Username = "integration"
	if err := Current().Ready(cfg); err != nil {
		t.Errorf("complete integration must validate: %v", err)
	}
}

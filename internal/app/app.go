// Package app holds the application descriptor: the metadata and startup
// validation the server registers itself with.
package app

import (
	"fmt"
	"strings"

	"verity/internal/config"
)

// Version is injected via ldflags at build time
var Version = "dev"

// Info describes the application to operators and API clients
type Info struct {
	Name        string `json:"name"`
	VerboseName string `json:"verbose_name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
	BaseURL     string `json:"base_url"`

	// MinVersion and MaxVersion bound the supported config schema version
	MinVersion int `json:"min_version"`
	MaxVersion int `json:"max_version"`
}

// Current returns the descriptor for this build
func Current() Info {
	return Info{
		Name:        "verity",
		VerboseName: "Single Source of Truth",
		Version:     Version,
		Author:      "Verity Maintainers",
		Description: "Aggregates distributed data sources into a single source of truth and distributes it back out to databases and SDN controllers.",
		BaseURL:     "ssot",
		MinVersion:  1,
		MaxVersion:  1,
	}
}

// Ready validates the configuration before any adapter registers.
// It fails fast on an unsupported schema version or on enabled
// integrations missing their required connection settings.
func (i Info) Ready(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("app %s: nil config", i.Name)
	}
	if cfg.Version < i.MinVersion || cfg.Version > i.MaxVersion {
		return fmt.Errorf("app %s: config version %d outside supported range [%d, %d]",
			i.Name, cfg.Version, i.MinVersion, i.MaxVersion)
	}

	var missing []string

	ic := cfg.Integrations
	if ic.ACI.Enabled && len(ic.ACI.APICs) == 0 {
		missing = append(missing, "aci.apics")
	}
	if ic.AristaCV.Enabled && ic.AristaCV.CVPHost == "" && ic.AristaCV.CVPToken == "" {
		missing = append(missing, "aristacv.cvp_host or aristacv.cvp_token")
	}
	if ic.Device42.Enabled {
		if ic.Device42.Host == "" {
			missing = append(missing, "device42.host")
		}
		if ic.Device42.Username == "" {
			missing = append(missing, "device42.username")
		}
	}
	if ic.Infoblox.Enabled {
		if ic.Infoblox.URL == "" {
			missing = append(missing, "infoblox.url")
		}
		if ic.Infoblox.Username == "" {
			missing = append(missing, "infoblox.username")
		}
	}
	if ic.IPFabric.Enabled {
		if ic.IPFabric.Host == "" {
			missing = append(missing, "ipfabric.host")
		}
		if ic.IPFabric.APIToken == "" {
			missing = append(missing, "ipfabric.api_token")
		}
	}
	if ic.ServiceNow.Enabled {
		if ic.ServiceNow.Instance == "" {
			missing = append(missing, "servicenow.instance")
		}
		if ic.ServiceNow.Username == "" {
			missing = append(missing, "servicenow.username")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("app %s: missing required settings: %s",
			i.Name, strings.Join(missing, ", "))
	}

	return nil
}

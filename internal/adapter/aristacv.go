package adapter

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"verity/internal/config"
	"verity/internal/domain"
)

// AristaCVAdapter pulls device inventory from Arista CloudVision,
// either an on-prem CVP instance or the CVaaS service.
type AristaCVAdapter struct {
	settings config.AristaCVSettings
	client   *restClient

	hostnamePatterns []*regexp.Regexp
}

// NewAristaCVAdapter creates a CloudVision adapter from its settings.
// A cvp_host targets on-prem CVP with user/password auth; otherwise
// the adapter talks to CVaaS with token auth.
func NewAristaCVAdapter(settings config.AristaCVSettings) *AristaCVAdapter {
	a := &AristaCVAdapter{settings: settings}

	opts := restClientOptions{VerifyTLS: settings.VerifyTLS()}
	if settings.CVPHost != "" {
		opts.BaseURL = fmt.Sprintf("https://%s:%s", settings.CVPHost, settings.CVPPort)
		opts.Username = settings.CVPUser
		opts.Password = settings.CVPPassword
	} else {
		host := settings.CVaaSURL
		if !strings.Contains(host, "://") {
			host = "https://" + host
		}
		opts.BaseURL = host
		opts.TokenHeader = "Authorization"
		opts.TokenValue = "Bearer " + settings.CVPToken
	}
	a.client = newRESTClient(opts)

	for _, pattern := range settings.HostnamePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Printf("CloudVision: invalid hostname pattern %q: %v", pattern, err)
			continue
		}
		a.hostnamePatterns = append(a.hostnamePatterns, re)
	}
	return a
}

func (a *AristaCVAdapter) Name() string { return "aristacv" }
func (a *AristaCVAdapter) Type() Type   { return TypePolling }

func (a *AristaCVAdapter) Start(ctx context.Context) error {
	target := a.settings.CVPHost
	if target == "" {
		target = a.settings.CVaaSURL
	}
	log.Printf("CloudVision adapter starting (target=%s)", target)
	return nil
}

func (a *AristaCVAdapter) Stop() error { return nil }

// cvDevice is one device from the CloudVision inventory API
type cvDevice struct {
	Hostname       string `json:"hostname"`
	SerialNumber   string `json:"serialNumber"`
	ModelName      string `json:"modelName"`
	Version        string `json:"version"`
	IPAddress      string `json:"ipAddress"`
	StreamingState string `json:"streamingStatus"`
}

type cvInventoryResponse struct {
	Devices []cvDevice `json:"devices"`
}

// Sync pulls the device inventory, applying hostname derived role and
// site mappings.
func (a *AristaCVAdapter) Sync(ctx context.Context) (*domain.RecordSet, error) {
	var resp cvInventoryResponse
	if err := a.client.getJSON(ctx, "/cvpservice/inventory/devices", &resp); err != nil {
		return nil, err
	}

	set := domain.NewRecordSet()
	for _, dev := range resp.Devices {
		if dev.Hostname == "" {
			continue
		}
		if a.settings.ImportActive && dev.StreamingState != "active" {
			continue
		}
		rec := domain.NewRecord(domain.RecordKindDevice, dev.Hostname)
		rec.Source = a.Name()
		rec.SetAttr("vendor", "Arista")
		rec.SetAttr("serial", dev.SerialNumber)
		rec.SetAttr("model", dev.ModelName)
		if dev.Version != "" {
			rec.SetAttr("os_version", dev.Version)
		}
		if dev.IPAddress != "" {
			rec.SetAttr("management_ip", dev.IPAddress)
		}
		rec.SetAttr("role", a.resolveRole(dev.Hostname))
		rec.SetAttr("site", a.resolveSite(dev.Hostname))
		if a.settings.ApplyImportTag {
			rec.SetAttr("tags", []string{"cloudvision_imported"})
		}
		set.Add(*rec)
	}

	if a.settings.CreateController {
		set.Add(*a.controllerRecord())
	}

	log.Printf("CloudVision sync pulled %d devices", set.Len())
	return set, nil
}

// controllerRecord represents the CloudVision instance itself
func (a *AristaCVAdapter) controllerRecord() *domain.Record {
	name := "CloudVision"
	if a.settings.CVPHost != "" {
		name = a.settings.CVPHost
	}
	rec := domain.NewRecord(domain.RecordKindDevice, name)
	rec.Source = a.Name()
	rec.SetAttr("vendor", "Arista")
	rec.SetAttr("role", "controller")
	if a.settings.ControllerSite != "" {
		rec.SetAttr("site", a.settings.ControllerSite)
	}
	return rec
}

// resolveRole matches hostname patterns against role mappings, falling
// back to the default device role.
func (a *AristaCVAdapter) resolveRole(hostname string) string {
	for _, re := range a.hostnamePatterns {
		match := re.FindStringSubmatch(hostname)
		if match == nil {
			continue
		}
		for i, name := range re.SubexpNames() {
			if name == "role" && i < len(match) {
				if mapped, ok := a.settings.RoleMappings[match[i]]; ok {
					return mapped
				}
				return match[i]
			}
		}
	}
	return a.settings.DefaultDeviceRole
}

// resolveSite matches hostname patterns against site mappings, falling
// back to the default site.
func (a *AristaCVAdapter) resolveSite(hostname string) string {
	for _, re := range a.hostnamePatterns {
		match := re.FindStringSubmatch(hostname)
		if match == nil {
			continue
		}
		for i, name := range re.SubexpNames() {
			if name == "site" && i < len(match) {
				if mapped, ok := a.settings.SiteMappings[match[i]]; ok {
					return mapped
				}
				return match[i]
			}
		}
	}
	return a.settings.DefaultSite
}

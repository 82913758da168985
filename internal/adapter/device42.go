package adapter

import (
	"context"
	"log"
	"regexp"
	"strings"

	"verity/internal/config"
	"verity/internal/domain"
)

// Device42Adapter pulls device inventory from a Device42 instance
type Device42Adapter struct {
	settings config.Device42Settings
	client   *restClient

	// hostnameRules maps compiled hostname patterns to site slugs
	hostnameRules []hostnameRule
}

type hostnameRule struct {
	pattern *regexp.Regexp
	site    string
}

// NewDevice42Adapter creates a Device42 adapter from its settings.
// Hostname mapping entries use "pattern:site" form; invalid patterns
// are skipped with a warning.
func NewDevice42Adapter(settings config.Device42Settings) *Device42Adapter {
	a := &Device42Adapter{
		settings: settings,
		client: newRESTClient(restClientOptions{
			BaseURL:   settings.Host,
			Username:  settings.Username,
			Password:  settings.Password,
			VerifyTLS: true,
		}),
	}
	for _, mapping := range settings.HostnameMapping {
		pattern, site, ok := strings.Cut(mapping, ":")
		if !ok {
			log.Printf("Device42: ignoring malformed hostname mapping %q", mapping)
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Printf("Device42: invalid hostname pattern %q: %v", pattern, err)
			continue
		}
		a.hostnameRules = append(a.hostnameRules, hostnameRule{pattern: re, site: site})
	}
	return a
}

func (a *Device42Adapter) Name() string { return "device42" }
func (a *Device42Adapter) Type() Type   { return TypePolling }

func (a *Device42Adapter) Start(ctx context.Context) error {
	log.Printf("Device42 adapter starting (host=%s)", a.settings.Host)
	return nil
}

func (a *Device42Adapter) Stop() error { return nil }

// d42Device is one device from the Device42 API
type d42Device struct {
	Name         string   `json:"name"`
	SerialNo     string   `json:"serial_no"`
	Manufacturer string   `json:"manufacturer"`
	HWModel      string   `json:"hw_model"`
	Customer     string   `json:"customer"`
	Building     string   `json:"building"`
	Tags         []string `json:"tags"`
	IP           string   `json:"ip_address,omitempty"`
}

type d42DeviceResponse struct {
	Devices []d42Device `json:"Devices"`
}

// Sync pulls devices, skipping those carrying the ignore tag
func (a *Device42Adapter) Sync(ctx context.Context) (*domain.RecordSet, error) {
	var resp d42DeviceResponse
	if err := a.client.getJSON(ctx, "/api/1.0/devices/", &resp); err != nil {
		return nil, err
	}

	set := domain.NewRecordSet()
	for _, dev := range resp.Devices {
		if dev.Name == "" || a.ignored(dev.Tags) {
			continue
		}
		rec := domain.NewRecord(domain.RecordKindDevice, dev.Name)
		rec.Source = a.Name()
		if dev.SerialNo != "" {
			rec.SetAttr("serial", dev.SerialNo)
		}
		if dev.Manufacturer != "" {
			rec.SetAttr("vendor", dev.Manufacturer)
		}
		if dev.HWModel != "" {
			rec.SetAttr("model", dev.HWModel)
		}
		if dev.IP != "" {
			rec.SetAttr("management_ip", dev.IP)
		}
		rec.SetAttr("site", a.resolveSite(dev))
		if role := a.resolveRole(dev); role != "" {
			rec.SetAttr("role", role)
		}
		for key, value := range a.settings.Defaults {
			if _, exists := rec.GetAttr(key); !exists {
				rec.SetAttr(key, value)
			}
		}
		set.Add(*rec)
	}

	log.Printf("Device42 sync pulled %d devices", set.Len())
	return set, nil
}

func (a *Device42Adapter) ignored(tags []string) bool {
	if a.settings.IgnoreTag == "" {
		return false
	}
	for _, tag := range tags {
		if tag == a.settings.IgnoreTag {
			return true
		}
	}
	return false
}

// resolveSite picks the device site. Hostname mapping rules win, then
// the customer name (when customer_is_facility), then the building.
func (a *Device42Adapter) resolveSite(dev d42Device) string {
	for _, rule := range a.hostnameRules {
		if rule.pattern.MatchString(dev.Name) {
			return rule.site
		}
	}
	if a.settings.FacilityFromCustomer() && dev.Customer != "" {
		return a.settings.FacilityPrepend + dev.Customer
	}
	if dev.Building != "" {
		return a.settings.FacilityPrepend + dev.Building
	}
	return ""
}

// resolveRole derives a role from tags carrying the role prepend
func (a *Device42Adapter) resolveRole(dev d42Device) string {
	if a.settings.RolePrepend == "" {
		return ""
	}
	for _, tag := range dev.Tags {
		if strings.HasPrefix(tag, a.settings.RolePrepend) {
			return strings.TrimPrefix(tag, a.settings.RolePrepend)
		}
	}
	return ""
}

package config

import "time"

// ACISettings configures the Cisco ACI integration
type ACISettings struct {
	Enabled          bool     `yaml:"enabled"`
	APICs            []string `yaml:"apics,omitempty"`
	Tag              string   `yaml:"tag,omitempty"`
	TagColor         string   `yaml:"tag_color,omitempty"`
	TagUp            string   `yaml:"tag_up,omitempty"`
	TagUpColor       string   `yaml:"tag_up_color,omitempty"`
	TagDown          string   `yaml:"tag_down,omitempty"`
	TagDownColor     string   `yaml:"tag_down_color,omitempty"`
	ManufacturerName string   `yaml:"manufacturer_name,omitempty"`
	IgnoreTenants    []string `yaml:"ignore_tenants,omitempty"`
	Comments         string   `yaml:"comments,omitempty"`
	Site             string   `yaml:"site,omitempty"`
}

// AristaCVSettings configures the Arista CloudVision integration
type AristaCVSettings struct {
	Enabled                bool              `yaml:"enabled"`
	ApplyImportTag         bool              `yaml:"apply_import_tag"`
	ControllerSite         string            `yaml:"controller_site,omitempty"`
	CreateController       bool              `yaml:"create_controller"`
	CVaaSURL               string            `yaml:"cvaas_url,omitempty"`
	CVPHost                string            `yaml:"cvp_host,omitempty"`
	CVPPassword            string            `yaml:"cvp_password,omitempty"`
	CVPPort                string            `yaml:"cvp_port,omitempty"`
	CVPToken               string            `yaml:"cvp_token,omitempty"`
	CVPUser                string            `yaml:"cvp_user,omitempty"`
	DeleteDevicesOnSync    bool              `yaml:"delete_devices_on_sync"`
	DefaultDeviceRole      string            `yaml:"default_device_role,omitempty"`
	DefaultDeviceRoleColor string            `yaml:"default_device_role_color,omitempty"`
	DefaultSite            string            `yaml:"default_site,omitempty"`
	HostnamePatterns       []string          `yaml:"hostname_patterns,omitempty"`
	ImportActive           bool              `yaml:"import_active"`
	RoleMappings           map[string]string `yaml:"role_mappings,omitempty"`
	SiteMappings           map[string]string `yaml:"site_mappings,omitempty"`
	Verify                 *bool             `yaml:"verify,omitempty"`
}

// VerifyTLS reports whether TLS verification is enabled (default true)
func (s AristaCVSettings) VerifyTLS() bool {
	return s.Verify == nil || *s.Verify
}

// Device42Settings configures the Device42 integration
type Device42Settings struct {
	Enabled            bool           `yaml:"enabled"`
	Host               string         `yaml:"host,omitempty"`
	Username           string         `yaml:"username,omitempty"`
	Password           string         `yaml:"password,omitempty"`
	Defaults           map[string]any `yaml:"defaults,omitempty"`
	DeleteOnSync       bool           `yaml:"delete_on_sync"`
	UseDNS             *bool          `yaml:"use_dns,omitempty"`
	CustomerIsFacility *bool          `yaml:"customer_is_facility,omitempty"`
	FacilityPrepend    string         `yaml:"facility_prepend,omitempty"`
	RolePrepend        string         `yaml:"role_prepend,omitempty"`
	IgnoreTag          string         `yaml:"ignore_tag,omitempty"`
	HostnameMapping    []string       `yaml:"hostname_mapping,omitempty"`
}

// DNSEnabled reports whether DNS lookups are enabled (default true)
func (s Device42Settings) DNSEnabled() bool {
	return s.UseDNS == nil || *s.UseDNS
}

// FacilityFromCustomer reports whether customer maps to facility (default true)
func (s Device42Settings) FacilityFromCustomer() bool {
	return s.CustomerIsFacility == nil || *s.CustomerIsFacility
}

// InfobloxSettings configures the Infoblox integration
type InfobloxSettings struct {
	Enabled                        bool     `yaml:"enabled"`
	URL                            string   `yaml:"url,omitempty"`
	Username                       string   `yaml:"username,omitempty"`
	Password                       string   `yaml:"password,omitempty"`
	VerifySSL                      *bool    `yaml:"verify_ssl,omitempty"`
	WAPIVersion                    string   `yaml:"wapi_version,omitempty"`
	DefaultStatus                  string   `yaml:"default_status,omitempty"`
	EnableRFC1918NetworkContainers bool     `yaml:"enable_rfc1918_network_containers"`
	EnableSyncToInfoblox           bool     `yaml:"enable_sync_to_infoblox"`
	ImportIPAddresses              bool     `yaml:"import_objects_ip_addresses"`
	ImportSubnets                  bool     `yaml:"import_objects_subnets"`
	ImportVLANViews                bool     `yaml:"import_objects_vlan_views"`
	ImportVLANs                    bool     `yaml:"import_objects_vlans"`
	ImportSubnetFilters            []string `yaml:"import_subnets,omitempty"`
}

// VerifyTLS reports whether TLS verification is enabled (default true)
func (s InfobloxSettings) VerifyTLS() bool {
	return s.VerifySSL == nil || *s.VerifySSL
}

// IPFabricSettings configures the IP Fabric integration
type IPFabricSettings struct {
	Enabled   bool     `yaml:"enabled"`
	Host      string   `yaml:"host,omitempty"`
	APIToken  string   `yaml:"api_token,omitempty"`
	SSLVerify *bool    `yaml:"ssl_verify,omitempty"`
	Timeout   Duration `yaml:"timeout,omitempty"`
	// AppHost is the externally reachable URL of this server, embedded
	// in source-of-record links pushed back to IP Fabric.
	AppHost string `yaml:"app_host,omitempty"`
}

// VerifyTLS reports whether TLS verification is enabled (default true)
func (s IPFabricSettings) VerifyTLS() bool {
	return s.SSLVerify == nil || *s.SSLVerify
}

// ServiceNowSettings configures the ServiceNow integration
type ServiceNowSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Default values preserved from the upstream integration surface
const (
	DefaultCVaaSURL        = "www.arista.io:443"
	DefaultCVPPort         = "443"
	DefaultIPFabricTimeout = 15 * time.Second
)

// applyDefaults fills integration zero values with defaults
func (ic *IntegrationsConfig) applyDefaults() {
	if ic.AristaCV.CVaaSURL == "" {
		ic.AristaCV.CVaaSURL = DefaultCVaaSURL
	}
	if ic.AristaCV.CVPPort == "" {
		ic.AristaCV.CVPPort = DefaultCVPPort
	}
	if ic.IPFabric.Timeout == 0 {
		ic.IPFabric.Timeout = Duration(DefaultIPFabricTimeout)
	}
}

// EnabledNames lists the integrations switched on in this config
func (ic *IntegrationsConfig) EnabledNames() []string {
	var names []string
	if ic.ACI.Enabled {
		names = append(names, "aci")
	}
	if ic.AristaCV.Enabled {
		names = append(names, "aristacv")
	}
	if ic.Device42.Enabled {
		names = append(names, "device42")
	}
	if ic.Infoblox.Enabled {
		names = append(names, "infoblox")
	}
	if ic.IPFabric.Enabled {
		names = append(names, "ipfabric")
	}
	if ic.ServiceNow.Enabled {
		names = append(names, "servicenow")
	}
	return names
}

package adapter

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"

	"verity/internal/config"
	"verity/internal/domain"
)

// InfobloxAdapter pulls subnets, IP addresses, and VLANs from an
// Infoblox grid via its WAPI.
type InfobloxAdapter struct {
	settings config.InfobloxSettings
	client   *restClient
}

// NewInfobloxAdapter creates an Infoblox adapter from its settings
func NewInfobloxAdapter(settings config.InfobloxSettings) *InfobloxAdapter {
	version := settings.WAPIVersion
	if version == "" {
		version = "v2.12"
	}
	return &InfobloxAdapter{
		settings: settings,
		client: newRESTClient(restClientOptions{
			BaseURL:   strings.TrimRight(settings.URL, "/") + "/wapi/" + version,
			Username:  settings.Username,
			Password:  settings.Password,
			VerifyTLS: settings.VerifyTLS(),
		}),
	}
}

func (a *InfobloxAdapter) Name() string { return "infoblox" }
func (a *InfobloxAdapter) Type() Type   { return TypePolling }

func (a *InfobloxAdapter) Start(ctx context.Context) error {
	log.Printf("Infoblox adapter starting (url=%s)", a.settings.URL)
	return nil
}

func (a *InfobloxAdapter) Stop() error { return nil }

// wapiNetwork is a network or network container object from the WAPI
type wapiNetwork struct {
	Ref     string `json:"_ref"`
	Network string `json:"network"`
	Comment string `json:"comment,omitempty"`
}

// wapiIPAddress is an ipv4address object from the WAPI
type wapiIPAddress struct {
	Ref       string   `json:"_ref"`
	IPAddress string   `json:"ip_address"`
	Network   string   `json:"network,omitempty"`
	Names     []string `json:"names,omitempty"`
	Status    string   `json:"status,omitempty"`
}

// wapiVLAN is a vlan object from the WAPI
type wapiVLAN struct {
	Ref    string `json:"_ref"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// Sync pulls the configured object types from the grid
func (a *InfobloxAdapter) Sync(ctx context.Context) (*domain.RecordSet, error) {
	set := domain.NewRecordSet()

	if a.settings.ImportSubnets {
		if err := a.loadSubnets(ctx, set); err != nil {
			return nil, fmt.Errorf("load subnets: %w", err)
		}
	}
	if a.settings.ImportIPAddresses {
		if err := a.loadIPAddresses(ctx, set); err != nil {
			return nil, fmt.Errorf("load ip addresses: %w", err)
		}
	}
	if a.settings.ImportVLANs {
		if err := a.loadVLANs(ctx, set); err != nil {
			return nil, fmt.Errorf("load vlans: %w", err)
		}
	}

	log.Printf("Infoblox sync pulled %d records", set.Len())
	return set, nil
}

func (a *InfobloxAdapter) loadSubnets(ctx context.Context, set *domain.RecordSet) error {
	var networks []wapiNetwork
	if err := a.client.getJSON(ctx, "/network?_return_fields=network,comment", &networks); err != nil {
		return err
	}

	if a.settings.EnableRFC1918NetworkContainers {
		var containers []wapiNetwork
		if err := a.client.getJSON(ctx, "/networkcontainer?_return_fields=network,comment", &containers); err != nil {
			return err
		}
		for _, c := range containers {
			if isRFC1918(c.Network) {
				networks = append(networks, c)
			}
		}
	}

	for _, nw := range networks {
		if !a.subnetAllowed(nw.Network) {
			continue
		}
		rec := domain.NewRecord(domain.RecordKindSubnet, nw.Network)
		rec.Source = a.Name()
		rec.SetAttr("status", a.defaultStatus())
		if nw.Comment != "" {
			rec.SetAttr("description", nw.Comment)
		}
		set.Add(*rec)
	}
	return nil
}

func (a *InfobloxAdapter) loadIPAddresses(ctx context.Context, set *domain.RecordSet) error {
	var addrs []wapiIPAddress
	if err := a.client.getJSON(ctx, "/ipv4address?status=USED&_return_fields=ip_address,network,names,status", &addrs); err != nil {
		return err
	}

	for _, addr := range addrs {
		if addr.Network != "" && !a.subnetAllowed(addr.Network) {
			continue
		}
		rec := domain.NewRecord(domain.RecordKindIPAddress, addr.IPAddress)
		rec.Source = a.Name()
		rec.SetAttr("status", a.defaultStatus())
		if addr.Network != "" {
			rec.SetAttr("subnet", addr.Network)
		}
		if len(addr.Names) > 0 {
			rec.SetAttr("dns_name", addr.Names[0])
		}
		set.Add(*rec)
	}
	return nil
}

func (a *InfobloxAdapter) loadVLANs(ctx context.Context, set *domain.RecordSet) error {
	var vlans []wapiVLAN
	if err := a.client.getJSON(ctx, "/vlan?_return_fields=id,name,parent", &vlans); err != nil {
		return err
	}

	for _, v := range vlans {
		rec := domain.NewRecord(domain.RecordKindVLAN, fmt.Sprintf("%d", v.ID))
		rec.Source = a.Name()
		rec.SetAttr("name", v.Name)
		rec.SetAttr("status", a.defaultStatus())
		if a.settings.ImportVLANViews && v.Parent != "" {
			rec.SetAttr("vlan_view", v.Parent)
		}
		set.Add(*rec)
	}
	return nil
}

// subnetAllowed checks the configured subnet import filters. An empty
// filter list allows everything.
func (a *InfobloxAdapter) subnetAllowed(cidr string) bool {
	if len(a.settings.ImportSubnetFilters) == 0 {
		return true
	}
	ip, _, err := net.ParseCIDR(cidr)
	if err != nil {
		return false
	}
	for _, filter := range a.settings.ImportSubnetFilters {
		_, filterNet, err := net.ParseCIDR(filter)
		if err != nil {
			continue
		}
		if filterNet.Contains(ip) {
			return true
		}
	}
	return false
}

func (a *InfobloxAdapter) defaultStatus() string {
	if a.settings.DefaultStatus != "" {
		return a.settings.DefaultStatus
	}
	return "active"
}

var rfc1918Blocks = []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

func isRFC1918(cidr string) bool {
	ip, _, err := net.ParseCIDR(cidr)
	if err != nil {
		return false
	}
	for _, block := range rfc1918Blocks {
		_, blockNet, _ := net.ParseCIDR(block)
		if blockNet.Contains(ip) {
			return true
		}
	}
	return false
}

package adapter

import (
	"context"
	"fmt"
	"log"
	"strings"

	"verity/internal/config"
	"verity/internal/domain"
)

// ACIAdapter pulls fabric inventory from one or more Cisco ACI APICs.
// Each APIC is authenticated separately via aaaLogin; the session
// cookie is reused for the rest of the pull.
type ACIAdapter struct {
	settings config.ACISettings
	username string
	password string

	// clientFor builds a client per APIC; replaced in tests
	clientFor func(apic string) *restClient
}

// NewACIAdapter creates an ACI adapter from its settings. APIC entries
// use "https://host|username|password" form.
func NewACIAdapter(settings config.ACISettings) *ACIAdapter {
	a := &ACIAdapter{settings: settings}
	a.clientFor = func(apic string) *restClient {
		return newRESTClient(restClientOptions{
			BaseURL:   apic,
			VerifyTLS: false,
		})
	}
	return a
}

func (a *ACIAdapter) Name() string { return "aci" }
func (a *ACIAdapter) Type() Type   { return TypePolling }

func (a *ACIAdapter) Start(ctx context.Context) error {
	log.Printf("ACI adapter starting (%d APICs)", len(a.settings.APICs))
	return nil
}

func (a *ACIAdapter) Stop() error { return nil }

// aciLoginResponse is the aaaLogin reply carrying the session token
type aciLoginResponse struct {
	IMData []struct {
		AAALogin struct {
			Attributes struct {
				Token string `json:"token"`
			} `json:"attributes"`
		} `json:"aaaLogin"`
	} `json:"imdata"`
}

// aciNodeResponse is the fabricNode class query reply
type aciNodeResponse struct {
	IMData []struct {
		FabricNode struct {
			Attributes struct {
				Name    string `json:"name"`
				Serial  string `json:"serial"`
				Model   string `json:"model"`
				Role    string `json:"role"`
				Address string `json:"address"`
				Version string `json:"version"`
			} `json:"attributes"`
		} `json:"fabricNode"`
	} `json:"imdata"`
}

// aciSubnetResponse is the fvSubnet class query reply
type aciSubnetResponse struct {
	IMData []struct {
		FVSubnet struct {
			Attributes struct {
				DN string `json:"dn"`
				IP string `json:"ip"`
			} `json:"attributes"`
		} `json:"fvSubnet"`
	} `json:"imdata"`
}

// Sync pulls fabric nodes and tenant subnets from every configured APIC
func (a *ACIAdapter) Sync(ctx context.Context) (*domain.RecordSet, error) {
	set := domain.NewRecordSet()
	for _, entry := range a.settings.APICs {
		apic, user, pass := parseAPICEntry(entry)
		if err := a.syncAPIC(ctx, set, apic, user, pass); err != nil {
			return nil, fmt.Errorf("apic %s: %w", apic, err)
		}
	}
	log.Printf("ACI sync pulled %d records", set.Len())
	return set, nil
}

func (a *ACIAdapter) syncAPIC(ctx context.Context, set *domain.RecordSet, apic, user, pass string) error {
	client := a.clientFor(apic)

	login := map[string]any{
		"aaaUser": map[string]any{
			"attributes": map[string]string{"name": user, "pwd": pass},
		},
	}
	var loginResp aciLoginResponse
	if err := client.postJSON(ctx, "/api/aaaLogin.json", login, &loginResp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if len(loginResp.IMData) == 0 {
		return fmt.Errorf("login: empty response")
	}
	client.setCookie("APIC-cookie", loginResp.IMData[0].AAALogin.Attributes.Token)

	var nodeResp aciNodeResponse
	if err := client.getJSON(ctx, "/api/node/class/fabricNode.json", &nodeResp); err != nil {
		return fmt.Errorf("fabric nodes: %w", err)
	}

	for _, item := range nodeResp.IMData {
		node := item.FabricNode.Attributes
		if node.Name == "" {
			continue
		}
		rec := domain.NewRecord(domain.RecordKindDevice, node.Name)
		rec.Source = a.Name()
		rec.SetAttr("serial", node.Serial)
		rec.SetAttr("model", node.Model)
		rec.SetAttr("role", node.Role)
		rec.SetAttr("vendor", a.manufacturer())
		if node.Address != "" {
			rec.SetAttr("management_ip", node.Address)
		}
		if node.Version != "" {
			rec.SetAttr("os_version", node.Version)
		}
		if a.settings.Site != "" {
			rec.SetAttr("site", a.settings.Site)
		}
		if a.settings.Tag != "" {
			rec.SetAttr("tags", []string{a.settings.Tag})
		}
		set.Add(*rec)
	}

	var subnetResp aciSubnetResponse
	if err := client.getJSON(ctx, "/api/node/class/fvSubnet.json", &subnetResp); err != nil {
		return fmt.Errorf("tenant subnets: %w", err)
	}
	for _, item := range subnetResp.IMData {
		subnet := item.FVSubnet.Attributes
		tenant := tenantFromDN(subnet.DN)
		if subnet.IP == "" || a.tenantIgnored(tenant) {
			continue
		}
		rec := domain.NewRecord(domain.RecordKindSubnet, subnet.IP)
		rec.Source = a.Name()
		rec.SetAttr("tenant", tenant)
		if a.settings.Site != "" {
			rec.SetAttr("site", a.settings.Site)
		}
		set.Add(*rec)
	}
	return nil
}

func (a *ACIAdapter) tenantIgnored(tenant string) bool {
	for _, ignored := range a.settings.IgnoreTenants {
		if tenant == ignored {
			return true
		}
	}
	return false
}

// tenantFromDN extracts the tenant name from a "uni/tn-<name>/..." DN
func tenantFromDN(dn string) string {
	const marker = "/tn-"
	i := strings.Index(dn, marker)
	if i < 0 {
		return ""
	}
	rest := dn[i+len(marker):]
	if j := strings.Index(rest, "/"); j >= 0 {
		return rest[:j]
	}
	return rest
}

func (a *ACIAdapter) manufacturer() string {
	if a.settings.ManufacturerName != "" {
		return a.settings.ManufacturerName
	}
	return "Cisco"
}

// parseAPICEntry splits an "url|user|pass" APIC entry
func parseAPICEntry(entry string) (apic, user, pass string) {
	parts := strings.SplitN(entry, "|", 3)
	apic = parts[0]
	if len(parts) > 1 {
		user = parts[1]
	}
	if len(parts) > 2 {
		pass = parts[2]
	}
	return apic, user, pass
}

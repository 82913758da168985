package adapter

import (
	"context"
	"fmt"
	"log"

	"verity/internal/config"
	"verity/internal/domain"
)

// ServiceNowAdapter pulls network gear CIs from a ServiceNow CMDB
type ServiceNowAdapter struct {
	settings config.ServiceNowSettings
	client   *restClient
}

// NewServiceNowAdapter creates a ServiceNow adapter from its settings
func NewServiceNowAdapter(settings config.ServiceNowSettings) *ServiceNowAdapter {
	return &ServiceNowAdapter{
		settings: settings,
		client: newRESTClient(restClientOptions{
			BaseURL:   fmt.Sprintf("https://%s.service-now.com", settings.Instance),
			Username:  settings.Username,
			Password:  settings.Password,
			VerifyTLS: true,
		}),
	}
}

// newServiceNowAdapterWithBase is used by tests to point at a local server
func newServiceNowAdapterWithBase(settings config.ServiceNowSettings, baseURL string) *ServiceNowAdapter {
	a := NewServiceNowAdapter(settings)
	a.client = newRESTClient(restClientOptions{
		BaseURL:   baseURL,
		Username:  settings.Username,
		Password:  settings.Password,
		VerifyTLS: true,
	})
	return a
}

func (a *ServiceNowAdapter) Name() string { return "servicenow" }
func (a *ServiceNowAdapter) Type() Type   { return TypePolling }

func (a *ServiceNowAdapter) Start(ctx context.Context) error {
	log.Printf("ServiceNow adapter starting (instance=%s)", a.settings.Instance)
	return nil
}

func (a *ServiceNowAdapter) Stop() error { return nil }

// snowCI is one cmdb_ci_netgear row from the Table API
type snowCI struct {
	SysID        string `json:"sys_id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Manufacturer string `json:"manufacturer"`
	ModelID      string `json:"model_id"`
	Location     string `json:"location"`
	IPAddress    string `json:"ip_address"`
}

type snowTableResponse struct {
	Result []snowCI `json:"result"`
}

// Sync pulls network gear configuration items from the CMDB
func (a *ServiceNowAdapter) Sync(ctx context.Context) (*domain.RecordSet, error) {
	var resp snowTableResponse
	path := "/api/now/table/cmdb_ci_netgear?sysparm_display_value=true&sysparm_limit=10000"
	if err := a.client.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	set := domain.NewRecordSet()
	for _, ci := range resp.Result {
		if ci.Name == "" {
			continue
		}
		rec := domain.NewRecord(domain.RecordKindDevice, ci.Name)
		rec.Source = a.Name()
		rec.SetAttr("sys_id", ci.SysID)
		if ci.SerialNumber != "" {
			rec.SetAttr("serial", ci.SerialNumber)
		}
		if ci.Manufacturer != "" {
			rec.SetAttr("vendor", ci.Manufacturer)
		}
		if ci.ModelID != "" {
			rec.SetAttr("model", ci.ModelID)
		}
		if ci.Location != "" {
			rec.SetAttr("site", ci.Location)
		}
		if ci.IPAddress != "" {
			rec.SetAttr("management_ip", ci.IPAddress)
		}
		set.Add(*rec)
	}

	log.Printf("ServiceNow sync pulled %d devices", set.Len())
	return set, nil
}

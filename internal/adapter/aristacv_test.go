package adapter

import (
	"testing"

	"verity/internal/config"
)

func TestAristaCVHostnameResolution(t *testing.T) {
	a := NewAristaCVAdapter(config.AristaCVSettings{
		HostnamePatterns:  []string{`^(?P<site>\w{3})-(?P<role>\w+)-\d+$`},
		RoleMappings:      map[string]string{"lf": "leaf"},
		SiteMappings:      map[string]string{"nyc": "new-york"},
		DefaultDeviceRole: "network",
		DefaultSite:       "unknown",
	})

	tests := []struct {
		hostname string
		wantRole string
		wantSite string
	}{
		{"nyc-lf-01", "leaf", "new-york"},
		{"sfo-spine-02", "spine", "sfo"},
		{"unmatchable", "network", "unknown"},
	}
	for _, tt := range tests {
		if got := a.resolveRole(tt.hostname); got != tt.wantRole {
			t.Errorf("resolveRole(%q) = %q, want %q", tt.hostname, got, tt.wantRole)
		}
		if got := a.resolveSite(tt.hostname); got != tt.wantSite {
			t.Errorf("resolveSite(%q) = %q, want %q", tt.hostname, got, tt.wantSite)
		}
	}
}

func TestAristaCVInvalidPatternSkipped(t *testing.T) {
	a := NewAristaCVAdapter(config.AristaCVSettings{
		HostnamePatterns: []string{`valid-.*`, `broken(`},
	})
	if len(a.hostnamePatterns) != 1 {
		t.Errorf("patterns = %d, want 1 (invalid skipped)", len(a.hostnamePatterns))
	}
}

func TestAristaCVControllerRecord(t *testing.T) {
	a := NewAristaCVAdapter(config.AristaCVSettings{
		CVPHost:        "cvp.example.com",
		ControllerSite: "hq",
	})

	rec := a.controllerRecord()
	if rec.Key != "cvp.example.com" {
		t.Errorf("key = %q", rec.Key)
	}
	if rec.GetAttrString("role") != "controller" || rec.GetAttrString("site") != "hq" {
		t.Errorf("attrs = %v", rec.Attrs)
	}

	// CVaaS has no host; the record falls back to a generic name
	cvaas := NewAristaCVAdapter(config.AristaCVSettings{CVPToken: "tok"})
	if cvaas.controllerRecord().Key != "CloudVision" {
		t.Errorf("cvaas controller key = %q", cvaas.controllerRecord().Key)
	}
}

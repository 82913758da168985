package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"verity/internal/config"
)

func TestServiceNowSync(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		sawAuth = ok && user == "integration" && pass == "secret"
		w.Write([]byte(`{"result": [
			{"sys_id": "abc123", "name": "core-sw-01", "serial_number": "SN1", "manufacturer": "Cisco", "model_id": "C9300", "location": "HQ", "ip_address": "10.1.1.1"},
			{"sys_id": "def456", "name": ""}
		]}`))
	}))
	t.Cleanup(srv.Close)

	a := newServiceNowAdapterWithBase(config.ServiceNowSettings{
		Enabled:  true,
		Instance: "dev12345",
		Username: "integration",
		Password: "secret",
	}, srv.URL)

	set, err := a.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !sawAuth {
		t.Error("basic auth credentials not sent")
	}
	// Nameless CIs are skipped
	if set.Len() != 1 {
		t.Fatalf("records = %d, want 1", set.Len())
	}

	rec := set.Records[0]
	if rec.ID != "device:core-sw-01" {
		t.Errorf("id = %q", rec.ID)
	}
	if rec.Source != "servicenow" {
		t.Errorf("source = %q", rec.Source)
	}
	if rec.GetAttrString("sys_id") != "abc123" {
		t.Errorf("sys_id = %q", rec.GetAttrString("sys_id"))
	}
	if rec.GetAttrString("vendor") != "Cisco" || rec.GetAttrString("site") != "HQ" {
		t.Errorf("attrs = %v", rec.Attrs)
	}
}

func TestServiceNowSyncHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient rights", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	a := newServiceNowAdapterWithBase(config.ServiceNowSettings{
		Enabled:  true,
		Instance: "dev12345",
		Username: "integration",
	}, srv.URL)

	if _, err := a.Sync(context.Background()); err == nil {
		t.Fatal("expected error on 403")
	}
}

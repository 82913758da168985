package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Database.Path != "./verity.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Sync.PollInterval != "15m" {
		t.Errorf("poll interval = %q, want 15m", cfg.Sync.PollInterval)
	}
	if !cfg.HideExamples() {
		t.Error("examples must be hidden by default")
	}
}

func TestIntegrationDefaults(t *testing.T) {
	cfg := DefaultConfig()
	ic := cfg.Integrations

	if ic.AristaCV.CVaaSURL != "www.arista.io:443" {
		t.Errorf("cvaas_url = %q, want www.arista.io:443", ic.AristaCV.CVaaSURL)
	}
	if ic.AristaCV.CVPPort != "443" {
		t.Errorf("cvp_port = %q, want 443", ic.AristaCV.CVPPort)
	}
	if ic.IPFabric.Timeout.Duration() != 15*time.Second {
		t.Errorf("ipfabric timeout = %s, want 15s", ic.IPFabric.Timeout.Duration())
	}

	// Unset tri-state flags default to true
	if !ic.AristaCV.VerifyTLS() {
		t.Error("aristacv verify must default true")
	}
	if !ic.Infoblox.VerifyTLS() {
		t.Error("infoblox verify_ssl must default true")
	}
	if !ic.IPFabric.VerifyTLS() {
		t.Error("ipfabric ssl_verify must default true")
	}
	if !ic.Device42.DNSEnabled() {
		t.Error("device42 use_dns must default true")
	}
	if !ic.Device42.FacilityFromCustomer() {
		t.Error("device42 customer_is_facility must default true")
	}

	if len(ic.EnabledNames()) != 0 {
		t.Errorf("enabled by default = %v, want none", ic.EnabledNames())
	}
}

func TestExplicitFalseBeatsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verity.yaml")
	content := `
version: 1
hide_example_jobs: false
integrations:
  infoblox:
    enabled: true
    url: https://infoblox.example.com
    username: admin
    verify_ssl: false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HideExamples() {
		t.Error("explicit hide_example_jobs: false ignored")
	}
	if cfg.Integrations.Infoblox.VerifyTLS() {
		t.Error("explicit verify_ssl: false ignored")
	}
	if got := cfg.Integrations.EnabledNames(); len(got) != 1 || got[0] != "infoblox" {
		t.Errorf("enabled = %v, want [infoblox]", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verity.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":8080"
	cfg.Integrations.IPFabric.Enabled = true
	cfg.Integrations.IPFabric.Host = "https://ipfabric.example.com"
	cfg.Integrations.IPFabric.APIToken = "token123"
	cfg.Integrations.IPFabric.Timeout = Duration(30 * time.Second)

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Server.Addr != ":8080" {
		t.Errorf("addr = %q", loaded.Server.Addr)
	}
	if loaded.Integrations.IPFabric.Timeout.Duration() != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", loaded.Integrations.IPFabric.Timeout.Duration())
	}
	if loaded.Integrations.IPFabric.Host != "https://ipfabric.example.com" {
		t.Errorf("host = %q", loaded.Integrations.IPFabric.Host)
	}
}

func TestFindConfigPathEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvConfigPath, path)
	if got := FindConfigPath(); got != path {
		t.Errorf("FindConfigPath = %q, want %q", got, path)
	}

	// A missing env path falls through the chain
	t.Setenv(EnvConfigPath, filepath.Join(dir, "missing.yaml"))
	if got := FindConfigPath(); got == filepath.Join(dir, "missing.yaml") {
		t.Error("missing env path must not be returned")
	}
}

func TestFindConfigPathChainOrder(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)

	xdgPath := filepath.Join(xdg, ConfigDirName, "config.yaml")
	if err := os.MkdirAll(filepath.Dir(xdgPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdgPath, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigPath(); got != xdgPath {
		t.Errorf("FindConfigPath = %q, want %q", got, xdgPath)
	}

	// A working-directory file outranks the XDG location
	if err := os.WriteFile(filepath.Join(work, ConfigFileName), []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	got := FindConfigPath()
	if filepath.Base(got) != ConfigFileName || !filepath.IsAbs(got) {
		t.Errorf("FindConfigPath = %q, want absolute path to %s", got, ConfigFileName)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

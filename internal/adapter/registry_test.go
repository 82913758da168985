package adapter

import (
	"context"
	"sync/atomic"
	"testing"

	"verity/internal/domain"
)

type stubAdapter struct {
	name string
}

func (s *stubAdapter) Name() string                    { return s.name }
func (s *stubAdapter) Type() Type                      { return TypeOneShot }
func (s *stubAdapter) Start(ctx context.Context) error { return nil }
func (s *stubAdapter) Stop() error                     { return nil }
func (s *stubAdapter) Sync(ctx context.Context) (*domain.RecordSet, error) {
	return domain.NewRecordSet(), nil
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubAdapter{name: "a"}, Config{Enabled: true}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(&stubAdapter{name: "a"}, Config{Enabled: true}); err == nil {
		t.Fatal("duplicate register must fail")
	}
}

func TestGetAndGetConfig(t *testing.T) {
	r := NewRegistry()
	cfg := Config{Enabled: true, Priority: 42, DeleteOnSync: true}
	if err := r.Register(&stubAdapter{name: "a"}, cfg); err != nil {
		t.Fatal(err)
	}

	if _, ok := r.Get("a"); !ok {
		t.Error("registered adapter not found")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("unknown adapter found")
	}

	got, ok := r.GetConfig("a")
	if !ok || got.Priority != 42 || !got.DeleteOnSync {
		t.Errorf("config = %+v", got)
	}
}

func TestTriggerSync(t *testing.T) {
	r := NewRegistry()
	var runs atomic.Int32
	r.SetRunFunc(func(ctx context.Context, name string) error {
		runs.Add(1)
		return nil
	})
	if err := r.Register(&stubAdapter{name: "on"}, Config{Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&stubAdapter{name: "off"}, Config{Enabled: false}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := r.TriggerSync(ctx, "on"); err != nil {
		t.Errorf("trigger failed: %v", err)
	}
	if err := r.TriggerSync(ctx, "off"); err == nil {
		t.Error("triggering a disabled adapter must fail")
	}
	if err := r.TriggerSync(ctx, "missing"); err == nil {
		t.Error("triggering an unknown adapter must fail")
	}
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}
}

func TestTriggerSyncAllSkipsDisabled(t *testing.T) {
	r := NewRegistry()
	var runs atomic.Int32
	r.SetRunFunc(func(ctx context.Context, name string) error {
		runs.Add(1)
		return nil
	})
	r.Register(&stubAdapter{name: "a"}, Config{Enabled: true})
	r.Register(&stubAdapter{name: "b"}, Config{Enabled: true})
	r.Register(&stubAdapter{name: "c"}, Config{Enabled: false})

	if err := r.TriggerSyncAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if runs.Load() != 2 {
		t.Errorf("runs = %d, want 2", runs.Load())
	}
}

func TestStartRequiresRunFunc(t *testing.T) {
	r := NewRegistry()
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("start without run func must fail")
	}
}

func TestListReportsConfigs(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubAdapter{name: "a"}, Config{Enabled: true, Priority: 10, DeleteOnSync: true})

	infos := r.List()
	if len(infos) != 1 {
		t.Fatalf("infos = %d, want 1", len(infos))
	}
	if infos[0].Name != "a" || infos[0].Priority != 10 || !infos[0].DeleteOnSync {
		t.Errorf("info = %+v", infos[0])
	}
}

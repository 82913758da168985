package adapter

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// RunFunc executes one sync run for the named adapter. The registry only
// schedules; the sync service owns pull/diff/apply and logging.
type RunFunc func(ctx context.Context, name string) error

// Registry manages all registered adapters and their lifecycle
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	configs  map[string]Config
	run      RunFunc
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
		configs:  make(map[string]Config),
	}
}

// SetRunFunc sets the sync run callback. Must be called before Start.
func (r *Registry) SetRunFunc(run RunFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run = run
}

// Register adds an adapter to the registry
func (r *Registry) Register(adapter Adapter, config Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := adapter.Name()
	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("adapter %s already registered", name)
	}

	r.adapters[name] = adapter
	r.configs[name] = config
	log.Printf("Registered adapter: %s (type=%s, priority=%d, enabled=%v)",
		name, adapter.Type(), config.Priority, config.Enabled)

	return nil
}

// Get returns a registered adapter by name
func (r *Registry) Get(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// GetConfig returns the configuration for a registered adapter
func (r *Registry) GetConfig(name string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.configs[name]
	return c, ok
}

// Start initializes all enabled adapters and begins their sync cycles
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.run == nil {
		return fmt.Errorf("registry run func not set")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	for name, adapter := range r.adapters {
		config := r.configs[name]
		if !config.Enabled {
			log.Printf("Adapter %s is disabled, skipping", name)
			continue
		}

		if err := adapter.Start(r.ctx); err != nil {
			log.Printf("Failed to start adapter %s: %v", name, err)
			continue
		}

		if adapter.Type() == TypePolling {
			r.startPollingLoop(name, config)
		}
	}

	return nil
}

// Stop gracefully shuts down all adapters
func (r *Registry) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	// Wait for all polling loops to finish
	r.wg.Wait()

	for name, adapter := range r.adapters {
		if err := adapter.Stop(); err != nil {
			log.Printf("Error stopping adapter %s: %v", name, err)
		}
	}

	return nil
}

// TriggerSync manually triggers a sync for a specific adapter
func (r *Registry) TriggerSync(ctx context.Context, name string) error {
	r.mu.RLock()
	_, exists := r.adapters[name]
	config := r.configs[name]
	run := r.run
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("adapter %s not found", name)
	}
	if !config.Enabled {
		return fmt.Errorf("adapter %s is disabled", name)
	}
	if run == nil {
		return fmt.Errorf("registry run func not set")
	}

	return run(ctx, name)
}

// TriggerSyncAll manually triggers sync for all enabled adapters
func (r *Registry) TriggerSyncAll(ctx context.Context) error {
	r.mu.RLock()
	var names []string
	for name := range r.adapters {
		if r.configs[name].Enabled {
			names = append(names, name)
		}
	}
	run := r.run
	r.mu.RUnlock()

	if run == nil {
		return fmt.Errorf("registry run func not set")
	}

	var errs []error
	for _, name := range names {
		if err := run(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("sync errors: %v", errs)
	}
	return nil
}

// Info provides read-only information about an adapter
type Info struct {
	Name         string `json:"name"`
	Type         Type   `json:"type"`
	Priority     int    `json:"priority"`
	Enabled      bool   `json:"enabled"`
	PollInterval string `json:"poll_interval,omitempty"`
	DeleteOnSync bool   `json:"delete_on_sync"`
}

// List returns information about registered adapters
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var infos []Info
	for name, adapter := range r.adapters {
		config := r.configs[name]
		infos = append(infos, Info{
			Name:         name,
			Type:         adapter.Type(),
			Priority:     config.Priority,
			Enabled:      config.Enabled,
			PollInterval: config.PollInterval,
			DeleteOnSync: config.DeleteOnSync,
		})
	}
	return infos
}

// startPollingLoop starts a goroutine that runs syncs on schedule
func (r *Registry) startPollingLoop(name string, config Config) {
	interval, err := time.ParseDuration(config.PollInterval)
	if err != nil || interval <= 0 {
		log.Printf("Invalid poll interval for %s: %v, using 15m default", name, err)
		interval = 15 * time.Minute
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		// Run initial sync
		if err := r.run(r.ctx, name); err != nil {
			log.Printf("Initial sync failed for %s: %v", name, err)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				log.Printf("Stopping polling loop for %s", name)
				return
			case <-ticker.C:
				if err := r.run(r.ctx, name); err != nil {
					log.Printf("Sync failed for %s: %v", name, err)
				}
			}
		}
	}()

	log.Printf("Started polling loop for %s (interval=%s)", name, interval)
}

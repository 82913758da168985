package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verity/internal/adapter"
	"verity/internal/app"
	"verity/internal/config"
	"verity/internal/handler"
	"verity/internal/hub"
	"verity/internal/repository/sqlite"
	"verity/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		configPath  = flag.String("config", "", "path to config file (overrides search)")
		addr        = flag.String("addr", "", "listen address (overrides config)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	info := app.Current()
	if *showVersion {
		fmt.Printf("%s %s\n", info.Name, info.Version)
		return
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path != "" {
		log.Printf("Loaded config from %s", path)
	} else {
		log.Printf("No config file found, using defaults")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := info.Ready(cfg); err != nil {
		log.Fatalf("Startup validation failed: %v", err)
	}
	log.Printf("%s %s starting\n%s", info.VerboseName, info.Version, cfg.Summary())

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := service.NewEventBus()
	eventHub := hub.New()
	go eventHub.Run(ctx)
	go relayEvents(ctx, bus, eventHub)

	registry := adapter.NewRegistry()
	inventory := service.NewInventoryService(repo, bus)
	syncSvc := service.NewSyncService(repo, registry, bus)
	logSvc := service.NewLogService(repo)
	registry.SetRunFunc(func(ctx context.Context, name string) error {
		_, err := syncSvc.Run(ctx, name, false)
		return err
	})

	if err := registerAdapters(registry, cfg); err != nil {
		log.Fatalf("Failed to register adapters: %v", err)
	}
	if err := registry.Start(ctx); err != nil {
		log.Fatalf("Failed to start adapters: %v", err)
	}

	mux := http.NewServeMux()
	api := handler.NewAPI(cfg, inventory, syncSvc, logSvc, registry, eventHub)
	api.Routes(mux)

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.Chain(mux,
			handler.Recover,
			handler.CORS,
			handler.Logger,
			handler.BearerAuth(cfg.Server.APITokenHash),
		),
	}

	go func() {
		log.Printf("Listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down...")

	cancel()
	if err := registry.Stop(); err != nil {
		log.Printf("Error stopping adapters: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Shutdown complete")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// registerAdapters wires each enabled integration into the registry.
// Priorities follow authority: dedicated IPAM and DCIM systems rank
// above discovery tools.
func registerAdapters(registry *adapter.Registry, cfg *config.Config) error {
	poll := cfg.Sync.PollInterval
	ic := cfg.Integrations

	type registration struct {
		adapter adapter.Adapter
		config  adapter.Config
	}

	var regs []registration
	if ic.Infoblox.Enabled {
		regs = append(regs, registration{
			adapter: adapter.NewInfobloxAdapter(ic.Infoblox),
			config:  adapter.Config{Enabled: true, Priority: 100, PollInterval: poll},
		})
	}
	if ic.Device42.Enabled {
		regs = append(regs, registration{
			adapter: adapter.NewDevice42Adapter(ic.Device42),
			config: adapter.Config{
				Enabled: true, Priority: 90, PollInterval: poll,
				DeleteOnSync: ic.Device42.DeleteOnSync,
			},
		})
	}
	if ic.ServiceNow.Enabled {
		regs = append(regs, registration{
			adapter: adapter.NewServiceNowAdapter(ic.ServiceNow),
			config:  adapter.Config{Enabled: true, Priority: 80, PollInterval: poll},
		})
	}
	if ic.ACI.Enabled {
		regs = append(regs, registration{
			adapter: adapter.NewACIAdapter(ic.ACI),
			config:  adapter.Config{Enabled: true, Priority: 70, PollInterval: poll},
		})
	}
	if ic.AristaCV.Enabled {
		regs = append(regs, registration{
			adapter: adapter.NewAristaCVAdapter(ic.AristaCV),
			config: adapter.Config{
				Enabled: true, Priority: 60, PollInterval: poll,
				DeleteOnSync: ic.AristaCV.DeleteDevicesOnSync,
			},
		})
	}
	if ic.IPFabric.Enabled {
		regs = append(regs, registration{
			adapter: adapter.NewIPFabricAdapter(ic.IPFabric),
			config:  adapter.Config{Enabled: true, Priority: 50, PollInterval: poll},
		})
	}

	if !cfg.HideExamples() {
		dataFile := cfg.ExampleDataFile
		if dataFile == "" {
			dataFile = "./example-data.yaml"
		}
		example := adapter.NewExampleAdapter(dataFile)
		regs = append(regs, registration{
			adapter: example,
			config:  adapter.Config{Enabled: true, Priority: 1, DeleteOnSync: true},
		})
		example.OnChange(func() {
			if err := registry.TriggerSync(context.Background(), example.Name()); err != nil {
				log.Printf("Example re-sync failed: %v", err)
			}
		})
	}

	for _, reg := range regs {
		if err := registry.Register(reg.adapter, reg.config); err != nil {
			return err
		}
	}
	return nil
}

// relayEvents forwards bus events to the SSE hub
func relayEvents(ctx context.Context, bus *service.EventBus, h *hub.Hub) {
	events := bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			bus.Unsubscribe(events)
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			h.Broadcast(event)
		}
	}
}

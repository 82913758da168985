package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"verity/internal/adapter"
	"verity/internal/app"
	"verity/internal/config"
	"verity/internal/domain"
	"verity/internal/repository/sqlite"
	"verity/internal/service"
)

// API holds the handler dependencies and registers routes
type API struct {
	cfg       *config.Config
	inventory *service.InventoryService
	sync      *service.SyncService
	logs      *service.LogService
	registry  *adapter.Registry
	events    http.Handler
}

// NewAPI creates the API handler set
func NewAPI(cfg *config.Config, inventory *service.InventoryService, sync *service.SyncService, logs *service.LogService, registry *adapter.Registry, events http.Handler) *API {
	return &API{
		cfg:       cfg,
		inventory: inventory,
		sync:      sync,
		logs:      logs,
		registry:  registry,
		events:    events,
	}
}

// Routes registers all API routes on the mux
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/app", a.handleAppInfo)
	mux.HandleFunc("GET /api/records", a.handleListRecords)
	mux.HandleFunc("POST /api/records", a.handlePutRecord)
	mux.HandleFunc("GET /api/records/{id}", a.handleGetRecord)
	mux.HandleFunc("DELETE /api/records/{id}", a.handleDeleteRecord)
	mux.HandleFunc("GET /api/jobs", a.handleListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", a.handleGetJob)
	mux.HandleFunc("GET /api/logs", a.handleListLogs)
	mux.HandleFunc("GET /api/adapters", a.handleListAdapters)
	mux.HandleFunc("POST /api/sync", a.handleSyncAll)
	mux.HandleFunc("POST /api/sync/{name}", a.handleSync)
	mux.HandleFunc("POST /api/import", a.handleImport)
	mux.HandleFunc("GET /api/export", a.handleExport)
	mux.Handle("GET /api/events", a.events)
}

func (a *API) handleAppInfo(w http.ResponseWriter, r *http.Request) {
	info := app.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         info.Name,
		"verbose_name": info.VerboseName,
		"version":      info.Version,
		"base_url":     info.BaseURL,
		"integrations": a.cfg.Integrations.EnabledNames(),
	})
}

func (a *API) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := a.inventory.List(r.Context(), r.URL.Query().Get("kind"), r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (a *API) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := a.inventory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	var rec domain.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.inventory.Put(r.Context(), &rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := a.inventory.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	jobs, err := a.logs.Jobs(r.Context(), r.URL.Query().Get("integration"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if jobs == nil {
		jobs = []domain.SyncJob{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

func (a *API) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.logs.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (a *API) handleListLogs(w http.ResponseWriter, r *http.Request) {
	filter := sqlite.LogFilter{
		JobID:  r.URL.Query().Get("job_id"),
		Action: r.URL.Query().Get("action"),
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit", 100),
	}
	entries, err := a.logs.Entries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.SyncLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (a *API) handleListAdapters(w http.ResponseWriter, r *http.Request) {
	infos := a.registry.List()
	if infos == nil {
		infos = []adapter.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"adapters": infos})
}

func (a *API) handleSync(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	dryRun := r.URL.Query().Get("dry_run") == "true"

	if _, ok := a.registry.Get(name); !ok {
		writeError(w, http.StatusNotFound, "unknown integration")
		return
	}

	job, err := a.sync.Run(r.Context(), name, dryRun)
	if err != nil {
		if job != nil {
			// The job exists and records the failure; report it as-is
			writeJSON(w, http.StatusOK, job)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (a *API) handleSyncAll(w http.ResponseWriter, r *http.Request) {
	// Detach from the request context: the syncs outlive the response
	go func() {
		if err := a.registry.TriggerSyncAll(context.Background()); err != nil {
			log.Printf("sync all: %v", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sync triggered"})
}

func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "yaml"
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := a.inventory.Import(r.Context(), data, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": n})
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	data, err := a.inventory.Export(r.Context(), r.URL.Query().Get("kind"), r.URL.Query().Get("source"), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "application/yaml")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

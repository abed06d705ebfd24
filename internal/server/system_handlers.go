package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/nickybricks/private-aesy-sub003/internal/database"
	"github.com/nickybricks/private-aesy-sub003/internal/scheduler"
)

// SystemConfig holds dependencies for system handlers.
type SystemConfig struct {
	Log         zerolog.Logger
	DataDir     string
	RatesDB     *database.DB
	CacheDB     *database.DB
	Scheduler   *scheduler.Scheduler
	SnapshotJob scheduler.Job
	CleanupJob  scheduler.Job
}

// SystemHandlers serves system monitoring and maintenance endpoints.
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	ratesDB     *database.DB
	cacheDB     *database.DB
	scheduler   *scheduler.Scheduler
	snapshotJob scheduler.Job
	cleanupJob  scheduler.Job
}

// NewSystemHandlers creates system handlers.
func NewSystemHandlers(cfg SystemConfig) *SystemHandlers {
	return &SystemHandlers{
		log:         cfg.Log.With().Str("handler", "system").Logger(),
		dataDir:     cfg.DataDir,
		ratesDB:     cfg.RatesDB,
		cacheDB:     cfg.CacheDB,
		scheduler:   cfg.Scheduler,
		snapshotJob: cfg.SnapshotJob,
		cleanupJob:  cfg.CleanupJob,
	}
}

// RegisterRoutes registers all system routes
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", h.HandleSystemStatus)
		r.Post("/jobs/fx-snapshot", h.HandleTriggerSnapshot)
		r.Post("/jobs/cache-cleanup", h.HandleTriggerCleanup)
	})
}

// HandleSystemStatus returns system resource usage and database health.
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, ramPct := h.getSystemStats()

	databases := map[string]string{}
	for name, db := range map[string]*database.DB{"rates": h.ratesDB, "cache": h.cacheDB} {
		if db == nil {
			databases[name] = "not_initialized"
			continue
		}
		if err := db.QuickCheck(r.Context()); err != nil {
			h.log.Warn().Err(err).Str("database", name).Msg("Quick check failed")
			databases[name] = "error"
			continue
		}
		databases[name] = "ok"
	}

	h.writeJSON(w, map[string]interface{}{
		"cpu_percent":  cpuPct,
		"ram_percent":  ramPct,
		"data_dir_mb":  h.dirSizeMB(h.dataDir),
		"databases":    databases,
		"generated_at": time.Now().Format(time.RFC3339),
	})
}

// HandleTriggerSnapshot runs the FX snapshot job immediately.
// POST /api/system/jobs/fx-snapshot
func (h *SystemHandlers) HandleTriggerSnapshot(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.snapshotJob)
}

// HandleTriggerCleanup runs the cache cleanup job immediately.
// POST /api/system/jobs/cache-cleanup
func (h *SystemHandlers) HandleTriggerCleanup(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.cleanupJob)
}

func (h *SystemHandlers) triggerJob(w http.ResponseWriter, job scheduler.Job) {
	if job == nil || h.scheduler == nil {
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": "job not registered",
		})
		return
	}

	if err := h.scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", job.Name()).Msg("Manual job run failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"status": "success",
		"job":    job.Name(),
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Sampling over 100ms keeps the endpoint responsive for pollers.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// dirSizeMB returns the total size of a directory tree in megabytes.
func (h *SystemHandlers) dirSizeMB(dirPath string) float64 {
	var totalSize int64
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/ddhealthcare/hrms-backend-go/internal/handler/http/response"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/cron"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is implemented by every storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
	Version(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	pinger    Pinger
	scheduler *cron.Scheduler
	info      goversion.Info
	driver    string
	started   time.Time
}

type HealthResponse struct {
	Status   string           `json:"status"`
	Database string           `json:"database"`
	Driver   string           `json:"driver"`
	Uptime   string           `json:"uptime"`
	Jobs     []cron.JobStatus `json:"jobs,omitempty"`
}

type VersionResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// NewHealthHandler builds the health handler. scheduler may be nil.
func NewHealthHandler(pinger Pinger, driver string, scheduler *cron.Scheduler, info goversion.Info) HealthHandler {
	return &healthHandlerImpl{
		pinger:    pinger,
		scheduler: scheduler,
		info:      info,
		driver:    driver,
		started:   time.Now(),
	}
}

// Health handles GET /health
func (h *healthHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:   "ok",
		Database: "up",
		Driver:   h.driver,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
	}
	if h.scheduler != nil {
		resp.Jobs = h.scheduler.Status()
	}

	if err := h.pinger.Ping(ctx); err != nil {
		slog.Error("health check failed", "driver", h.driver, "error", err)
		resp.Status = "degraded"
		resp.Database = "down"
		response.ServiceUnavailable(w, "Database is unreachable", resp)
		return
	}

	response.Success(w, resp)
}

// Version handles GET /version
func (h *healthHandlerImpl) Version(w http.ResponseWriter, r *http.Request) {
	response.Success(w, VersionResponse{
		Name:      h.info.Name,
		Version:   h.info.GitVersion,
		Commit:    h.info.GitCommit,
		BuildDate: h.info.BuildDate,
		GoVersion: h.info.GoVersion,
	})
}

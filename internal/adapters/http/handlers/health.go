package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hallworld/hallgate/internal/config"
	"github.com/hallworld/hallgate/internal/ports"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

type HealthCheckConfig struct {
	Timeout time.Duration
}

func DefaultHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{Timeout: 5 * time.Second}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ServiceHealth struct {
	Status    string  `json:"status"`
	LatencyMs *int64  `json:"latencyMs,omitempty"`
	Error     *string `json:"error,omitempty"`
}

type DetailedHealthResponse struct {
	Status   string                   `json:"status"`
	Version  string                   `json:"version"`
	Services map[string]ServiceHealth `json:"services"`
}

type HealthHandler struct {
	config  HealthCheckConfig
	version string
	cfg     *config.Config
	rooms   ports.RoomService
}

func NewHealthHandler(version string, cfg *config.Config, rooms ports.RoomService) *HealthHandler {
	return &HealthHandler{
		config:  DefaultHealthCheckConfig(),
		version: version,
		cfg:     cfg,
		rooms:   rooms,
	}
}

// Handle reports liveness only; it never calls LiveKit.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}

// HandleDetailed reports whether token signing is possible and, when a
// room API is configured, probes it. Signing is the core function, so
// missing credentials make the whole service unhealthy; an unreachable
// room API only degrades it.
func (h *HealthHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	services := map[string]ServiceHealth{
		"signing": h.checkSigning(),
	}
	if h.cfg.IsRoomAPIConfigured() {
		services["livekit"] = h.checkRoomAPI(r.Context())
	}

	status := calculateOverallStatus(services)

	httpStatus := http.StatusOK
	if status == statusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	respondJSON(w, DetailedHealthResponse{
		Status:   status,
		Version:  h.version,
		Services: services,
	}, httpStatus)
}

// checkSigning verifies credential presence only. Signing is local, so
// there is nothing to probe over the network.
func (h *HealthHandler) checkSigning() ServiceHealth {
	if !h.cfg.HasCredentials() {
		msg := "LiveKit credentials are not configured"
		return ServiceHealth{Status: statusUnhealthy, Error: &msg}
	}
	return ServiceHealth{Status: statusHealthy}
}

// checkRoomAPI lists rooms as a read-only round trip to the LiveKit
// server.
func (h *HealthHandler) checkRoomAPI(ctx context.Context) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	start := time.Now()
	_, err := h.rooms.ListRooms(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		msg := err.Error()
		return ServiceHealth{Status: statusUnhealthy, LatencyMs: &latency, Error: &msg}
	}
	return ServiceHealth{Status: statusHealthy, LatencyMs: &latency}
}

func calculateOverallStatus(services map[string]ServiceHealth) string {
	if s, ok := services["signing"]; ok && s.Status == statusUnhealthy {
		return statusUnhealthy
	}
	for name, s := range services {
		if name == "signing" {
			continue
		}
		if s.Status == statusUnhealthy {
			return statusDegraded
		}
	}
	return statusHealthy
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports on the store and, when configured, the rate-limit cache.
type HealthHandler struct {
	db        Pinger
	cache     func(ctx context.Context) error
	startedAt time.Time
	version   string
}

// NewHealthHandler takes a nil cache when Redis is not configured.
func NewHealthHandler(db Pinger, cache func(ctx context.Context) error, version string) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, startedAt: time.Now(), version: version}
}

type dependencyStatus struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type readinessResponse struct {
	Status  string           `json:"status"`
	Version string           `json:"version"`
	Uptime  string           `json:"uptime"`
	Checks  dependencyStatus `json:"checks"`
}

// Liveness answers as long as the process serves HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness fails only on the database; the limiter fails open, so Redis can only degrade.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res := readinessResponse{
		Status:  "ready",
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Checks:  dependencyStatus{Database: "up", Redis: "disabled"},
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		res.Status = "unavailable"
		res.Checks.Database = "down: " + err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		res.Checks.Redis = "up"
		if err := h.cache(ctx); err != nil {
			res.Checks.Redis = "degraded: " + err.Error()
		}
	}

	c.JSON(status, res)
}

// Health is the short form used by load balancers: the database must answer.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

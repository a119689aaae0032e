package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/pa-ews-api/internal/service"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

// SystemHandler serves liveness, readiness and instrumentation snapshots.
type SystemHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	metrics *service.MetricsService
}

// NewSystemHandler constructs the handler.
func NewSystemHandler(db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService) *SystemHandler {
	return &SystemHandler{db: db, redis: redisClient, metrics: metrics}
}

// Health reports process liveness.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports dependency reachability. Redis is optional; the
// database is not.
func (h *SystemHandler) Ready(c *gin.Context) {
	checks := gin.H{"database": "ok", "redis": "ok"}
	status := http.StatusOK

	if h.db == nil {
		checks["database"] = "unconfigured"
		status = http.StatusServiceUnavailable
	} else if err := h.db.PingContext(c.Request.Context()); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if h.redis == nil {
		checks["redis"] = "disabled"
	} else if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		checks["redis"] = err.Error()
	}

	c.JSON(status, gin.H{"status": checks})
}

// Snapshot godoc
// @Summary Aggregated runtime counters
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /system/metrics [get]
func (h *SystemHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

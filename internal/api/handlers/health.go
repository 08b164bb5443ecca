package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"authgate/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness of the service and its backing stores
type HealthHandler struct {
	db    *sql.DB
	redis *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
	}
}

// Health godoc
// @Summary Health check
// @Description Ping the database and counter store and report overall status
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse "Service healthy"
// @Failure 503 {object} models.HealthResponse "One or more dependencies unavailable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	resp := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Database:  "ok",
		Redis:     "ok",
	}

	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "unavailable"
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		resp.Status = "degraded"
		resp.Redis = "unavailable"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports the status of the service's subsystems.
type HealthHandler struct {
	db    *gorm.DB
	queue services.TaskQueue
	hub   *services.SSEHub
}

func NewHealthHandler(db *gorm.DB, queue services.TaskQueue, hub *services.SSEHub) *HealthHandler {
	return &HealthHandler{db: db, queue: queue, hub: hub}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	queueMode := "sync"
	if h.queue != nil && h.queue.IsAsync() {
		queueMode = "async (Redis)"
	}

	var openJobs int64
	h.db.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen).Count(&openJobs)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "jobkit",
		"components": gin.H{
			"database":    dbStatus,
			"queue_mode":  queueMode,
			"sse_clients": h.hub.ClientCount(),
			"open_jobs":   openJobs,
		},
	})
}

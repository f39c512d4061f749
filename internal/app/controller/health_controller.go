package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthController struct {
	db    *gorm.DB
	redis redis.Cmdable
}

func NewHealthController(db *gorm.DB, redisClient redis.Cmdable) *HealthController {
	return &HealthController{
		db:    db,
		redis: redisClient,
	}
}

// Check reports whether the database and session store answer
// GET /health
func (ctrl *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "sessions": "ok"}
	healthy := true

	if sqlDB, err := ctrl.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unavailable"
		healthy = false
	}
	if err := ctrl.redis.Ping(ctx).Err(); err != nil {
		checks["sessions"] = "unavailable"
		healthy = false
	}

	status := http.StatusOK
	checks["status"] = "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		checks["status"] = "degraded"
	}
	c.JSON(status, checks)
}

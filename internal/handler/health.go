package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthCheck godoc
// @Summary Health check
// @Description Check that the service and its database are available
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(db Pinger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, HealthResponse{
					Status:  "unavailable",
					Service: "url-shortener",
				})
				return
			}
		}

		c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: "url-shortener",
		})
	}
}

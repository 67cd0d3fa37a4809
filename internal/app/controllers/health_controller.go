package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseflow/server/internal/app/models/dto"
)

// HealthController reports process liveness and storage reachability.
type HealthController struct {
	dbPool *pgxpool.Pool
}

// NewHealthController creates a new HealthController.
func NewHealthController(dbPool *pgxpool.Pool) *HealthController {
	return &HealthController{
		dbPool: dbPool,
	}
}

// Health checks liveness and the storage round trip
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service and storage healthy"
// @Failure 503 {object} dto.APIResponse "Storage unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.dbPool.Ping(pingCtx); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeStorageError, "Database unreachable").
			WithDetails(err.Error())
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
}

package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const defaultResetRate = "5-M"

// adminHandler exposes the database lifecycle.
type adminHandler struct {
	database portssvc.DatabaseLifecycleSvc
}

// registerAdminRoutes registers the lifecycle routes. Reset is rate limited per
// client IP using the formatted rate (e.g. "5-M").
func registerAdminRoutes(rg *gin.RouterGroup, database portssvc.DatabaseLifecycleSvc, resetRate string) {
	h := &adminHandler{database: database}

	rate, err := limiter.NewRateFromFormatted(resetRate)
	if err != nil {
		slog.Warn("Invalid reset rate limit, using default",
			slog.String("rate", resetRate), slog.String("default", defaultResetRate))
		rate, _ = limiter.NewRateFromFormatted(defaultResetRate)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	admin := rg.Group("/admin")
	{
		admin.GET("/status", h.status)
		admin.POST("/initialize", h.initialize)
		admin.POST("/reset", middleware.RateLimit(ipLimiter), h.reset)
	}
}

func (h *adminHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"initialized": h.database.IsInitialized()})
}

func (h *adminHandler) initialize(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	if err := h.database.Initialize(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to initialize database")
		return
	}
	c.JSON(http.StatusOK, gin.H{"initialized": true})
}

// reset drops, recreates and reseeds every table. A reset already in flight answers 409.
func (h *adminHandler) reset(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	logger.Warn("Received request to reset database")

	if err := h.database.Reset(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to reset database")
		return
	}

	logger.Info("Database reset successfully")
	c.Status(http.StatusNoContent)
}

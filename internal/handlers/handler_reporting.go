package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/SscSPs/finance_manager/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/period", h.getPeriodReport)
		reportingGroup.GET("/trend", h.getTrendReport)
	}
}

// getPeriodReport handles GET /reports/period?startDate&endDate.
func (h *reportingHandler) getPeriodReport(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.PeriodReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}

	logger = logger.With(slog.String("start_date", params.StartDate), slog.String("end_date", params.EndDate))
	logger.Info("Generating period report")

	report, err := h.reportingService.GeneratePeriodReport(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getTrendReport handles GET /reports/trend?startDate&endDate&interval.
func (h *reportingHandler) getTrendReport(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.TrendReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}

	logger = logger.With(slog.String("interval", string(params.Interval)))
	logger.Info("Generating trend report")

	points, err := h.reportingService.GenerateTrendReport(c.Request.Context(), start, end, params.Interval)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, dto.TrendReportResponse{Interval: params.Interval, Points: points})
}

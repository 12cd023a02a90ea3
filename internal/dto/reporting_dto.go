package dto

import (
	"github.com/SscSPs/finance_manager/internal/core/domain"
)

// PeriodReportParams defines the query parameters of the period report.
type PeriodReportParams struct {
	StartDate string `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"required,datetime=2006-01-02"`
}

// TrendReportParams defines the query parameters of the trend report.
type TrendReportParams struct {
	StartDate string                `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string                `form:"endDate" binding:"required,datetime=2006-01-02"`
	Interval  domain.ReportInterval `form:"interval,default=monthly" binding:"oneof=daily weekly monthly yearly"`
}

// TrendReportResponse wraps trend points with the interval they were bucketed by.
type TrendReportResponse struct {
	Interval domain.ReportInterval `json:"interval"`
	Points   []domain.TrendPoint   `json:"points"`
}

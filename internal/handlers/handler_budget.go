package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/SscSPs/finance_manager/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests related to budgets.
type budgetHandler struct {
	budgetService      portssvc.BudgetSvcFacade
	transactionService portssvc.TransactionSvcFacade
}

// newBudgetHandler creates a new budgetHandler.
func newBudgetHandler(bs portssvc.BudgetSvcFacade, ts portssvc.TransactionSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService:      bs,
		transactionService: ts,
	}
}

// registerBudgetRoutes registers routes related to budgets.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade, transactionService portssvc.TransactionSvcFacade) {
	h := newBudgetHandler(budgetService, transactionService)

	budgets := rg.Group("/budgets")
	{
		budgets.GET("", h.listBudgets)
		budgets.POST("", h.createBudget)
		budgets.GET("/by-month", h.listBudgetsByMonth)
		budgets.GET("/active", h.listActiveBudgets)
		budgets.GET("/alerts", h.listBudgetAlerts)
		budgets.GET("/total", h.getTotalBudgetAmount)
		budgets.GET("/:id", h.getBudget)
		budgets.PUT("/:id", h.updateBudget)
		budgets.DELETE("/:id", h.deleteBudget)
		budgets.GET("/:id/status", h.getBudgetStatus)
		budgets.POST("/:id/recalculate", h.recalculateBudget)
		budgets.GET("/:id/transactions", h.listBudgetTransactions)
	}
}

// listBudgets handles GET /budgets. ?period or ?startDate&endDate narrow the
// listing; without filters rows carry their category and spent amount.
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}

	ctx := c.Request.Context()
	var result any
	var err error
	switch {
	case params.Period != "":
		result, err = h.budgetService.GetBudgetsByPeriod(ctx, params.Period)
	case params.StartDate != "" || params.EndDate != "":
		start, end, perr := parseRange(params.StartDate, params.EndDate)
		if perr != nil {
			respondError(c, logger, perr, "Failed to list budgets")
			return
		}
		result, err = h.budgetService.GetBudgetsByDateRange(ctx, start, end)
	default:
		result, err = h.budgetService.GetBudgetsWithCategory(ctx)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, result)
}

// listBudgetsByMonth handles GET /budgets/by-month?year&month. ?withCategory=false
// returns plain budget rows.
func (h *budgetHandler) listBudgetsByMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.BudgetsByMonthParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}

	var budgets any
	var err error
	if params.WithCategory != nil && !*params.WithCategory {
		budgets, err = h.budgetService.GetBudgetsByMonth(c.Request.Context(), params.Year, params.Month)
	} else {
		budgets, err = h.budgetService.GetBudgetsByMonthWithCategory(c.Request.Context(), params.Year, params.Month)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, budgets)
}

// listActiveBudgets handles GET /budgets/active?date=YYYY-MM-DD. No date means today.
func (h *budgetHandler) listActiveBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ActiveBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	day, _, err := parseRange(params.Date, "")
	if err != nil {
		respondError(c, logger, err, "Failed to list active budgets")
		return
	}

	budgets, err := h.budgetService.GetActiveBudgets(c.Request.Context(), day)
	if err != nil {
		respondError(c, logger, err, "Failed to list active budgets")
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *budgetHandler) listBudgetAlerts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	alerts, err := h.budgetService.GetBudgetAlerts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list budget alerts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetStatusResponse(alerts))
}

func (h *budgetHandler) getTotalBudgetAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	total, err := h.budgetService.GetTotalBudgetAmount(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute total budget amount")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *budgetHandler) getBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetWithCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

// getBudgetStatus handles GET /budgets/:id/status. Spending is summed fresh on every call.
func (h *budgetHandler) getBudgetStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	status, err := h.budgetService.GetBudgetStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to compute budget status")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetStatusResponse(*status))
}

func (h *budgetHandler) recalculateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	status, err := h.budgetService.RecalculateBudgetStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to recalculate budget status")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetStatusResponse(*status))
}

func (h *budgetHandler) listBudgetTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	transactions, err := h.transactionService.GetTransactionsByBudgetID(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// createBudget handles POST /budgets.
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger.Info("Received request to create budget",
		slog.String("name", req.Name),
		slog.Int64("category_id", req.CategoryID),
		slog.String("period", string(req.Period)))

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create budget")
		return
	}

	logger.Info("Budget created successfully", slog.Int64("budget_id", budget.ID))
	c.JSON(http.StatusCreated, budget)
}

func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}
	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger = logger.With(slog.Int64("budget_id", id))
	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update budget")
		return
	}

	logger.Info("Budget updated successfully")
	c.JSON(http.StatusOK, budget)
}

func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("budget_id", id))
	if err := h.budgetService.DeleteBudget(c.Request.Context(), id); err != nil {
		respondError(c, logger, err, "Failed to delete budget")
		return
	}

	logger.Info("Budget deleted successfully")
	c.Status(http.StatusNoContent)
}


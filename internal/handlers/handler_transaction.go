package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/SscSPs/finance_manager/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.GET("/by-month", h.listTransactionsByMonth)
		transactions.GET("/recent", h.listRecentTransactions)
		transactions.GET("/totals", h.getTotals)
		transactions.GET("/summary/category", h.summaryByCategory)
		transactions.GET("/summary/budget", h.summaryByBudget)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

// listTransactions handles GET /transactions. With ?startDate&endDate the listing
// is bounded; rows carry their category name and icon unless ?withCategory=false.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	ctx := c.Request.Context()
	plain := params.WithCategory != nil && !*params.WithCategory
	bounded := !start.IsZero() || !end.IsZero()
	var result any
	switch {
	case plain && bounded:
		result, err = h.transactionService.GetTransactionsByDateRange(ctx, start, end)
	case plain:
		result, err = h.transactionService.GetTransactions(ctx)
	case bounded:
		result, err = h.transactionService.GetTransactionsByDateRangeWithCategory(ctx, start, end)
	default:
		result, err = h.transactionService.GetTransactionsWithCategory(ctx)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *transactionHandler) listTransactionsByMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.YearMonthParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}

	transactions, err := h.transactionService.GetTransactionsByMonth(c.Request.Context(), params.Year, params.Month)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *transactionHandler) listRecentTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.RecentTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}

	transactions, err := h.transactionService.GetRecentTransactions(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list recent transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// getTotals handles GET /transactions/totals. Omitted bounds are open.
func (h *transactionHandler) getTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.OptionalDateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, logger, err, "Failed to compute totals")
		return
	}

	income, err := h.transactionService.GetTotalIncome(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, logger, err, "Failed to compute totals")
		return
	}
	expense, err := h.transactionService.GetTotalExpense(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, logger, err, "Failed to compute totals")
		return
	}

	c.JSON(http.StatusOK, dto.TotalsResponse{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
	})
}

func (h *transactionHandler) summaryByCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, logger, err, "Failed to summarize transactions")
		return
	}

	summary, err := h.transactionService.GetTransactionsSummaryByCategory(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, logger, err, "Failed to summarize transactions")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *transactionHandler) summaryByBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, logger, err, "Failed to summarize transactions")
		return
	}

	summary, err := h.transactionService.GetTransactionsSummaryByBudget(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, logger, err, "Failed to summarize transactions")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	transaction, err := h.transactionService.GetTransactionWithCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// createTransaction handles POST /transactions.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger.Info("Received request to create transaction",
		slog.String("type", string(req.Type)),
		slog.Int64("category_id", req.CategoryID),
		slog.String("date", req.Date))

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.Int64("transaction_id", transaction.ID))
	c.JSON(http.StatusCreated, transaction)
}

func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger = logger.With(slog.Int64("transaction_id", id))
	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update transaction")
		return
	}

	logger.Info("Transaction updated successfully")
	c.JSON(http.StatusOK, transaction)
}

func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("transaction_id", id))
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted successfully")
	c.Status(http.StatusNoContent)
}

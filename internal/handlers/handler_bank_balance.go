package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/SscSPs/finance_manager/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankBalanceHandler handles HTTP requests related to monthly bank balances.
type bankBalanceHandler struct {
	bankBalanceService portssvc.BankBalanceSvcFacade
}

func newBankBalanceHandler(bs portssvc.BankBalanceSvcFacade) *bankBalanceHandler {
	return &bankBalanceHandler{bankBalanceService: bs}
}

// registerBankBalanceRoutes registers routes related to bank balances.
func registerBankBalanceRoutes(rg *gin.RouterGroup, bankBalanceService portssvc.BankBalanceSvcFacade) {
	h := newBankBalanceHandler(bankBalanceService)

	balances := rg.Group("/bank-balances")
	{
		balances.GET("/:year", h.listBankBalances)
		balances.POST("/:year/initialize", h.initializeBankBalance)
		balances.GET("/:year/:month", h.getBankBalance)
		balances.PUT("/:year/:month", h.updateBankBalance)
	}
}

func (h *bankBalanceHandler) listBankBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	year, ok := pathInt(c, logger, "year")
	if !ok {
		return
	}

	balances, err := h.bankBalanceService.GetBankBalancesByYear(c.Request.Context(), year)
	if err != nil {
		respondError(c, logger, err, "Failed to list bank balances")
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (h *bankBalanceHandler) getBankBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	year, ok := pathInt(c, logger, "year")
	if !ok {
		return
	}
	month, ok := pathInt(c, logger, "month")
	if !ok {
		return
	}

	balance, err := h.bankBalanceService.GetBankBalance(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve bank balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// updateBankBalance handles PUT /bank-balances/:year/:month. Omitted fields keep
// their stored value and the stored row is returned.
func (h *bankBalanceHandler) updateBankBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	year, ok := pathInt(c, logger, "year")
	if !ok {
		return
	}
	month, ok := pathInt(c, logger, "month")
	if !ok {
		return
	}
	var req dto.UpdateBankBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger = logger.With(slog.Int("year", year), slog.Int("month", month))
	balance, err := h.bankBalanceService.UpdateBankBalance(c.Request.Context(), year, month, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update bank balance")
		return
	}

	logger.Info("Bank balance updated successfully")
	c.JSON(http.StatusOK, balance)
}

// initializeBankBalance handles POST /bank-balances/:year/initialize. The body may
// pin a month; otherwise the current month of the year is initialized.
func (h *bankBalanceHandler) initializeBankBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	year, ok := pathInt(c, logger, "year")
	if !ok {
		return
	}
	var req dto.InitializeMonthRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, logger, "request format", err)
			return
		}
	}

	ctx := c.Request.Context()
	var err error
	var result any
	if req.Month != nil {
		result, err = h.bankBalanceService.InitializeMonth(ctx, year, *req.Month)
	} else {
		result, err = h.bankBalanceService.InitializeYear(ctx, year)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to initialize bank balance")
		return
	}
	c.JSON(http.StatusOK, result)
}

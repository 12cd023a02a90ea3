package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/SscSPs/finance_manager/internal/middleware"
	"github.com/gin-gonic/gin"
)

// categoryHandler handles HTTP requests related to categories.
type categoryHandler struct {
	categoryService    portssvc.CategorySvcFacade
	transactionService portssvc.TransactionSvcFacade
	budgetService      portssvc.BudgetSvcFacade
}

// newCategoryHandler creates a new categoryHandler.
func newCategoryHandler(cs portssvc.CategorySvcFacade, ts portssvc.TransactionSvcFacade, bs portssvc.BudgetSvcFacade) *categoryHandler {
	return &categoryHandler{
		categoryService:    cs,
		transactionService: ts,
		budgetService:      bs,
	}
}

// registerCategoryRoutes registers routes related to categories.
func registerCategoryRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCategoryHandler(services.Category, services.Transaction, services.Budget)

	categories := rg.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.POST("", h.createCategory)
		categories.GET("/:id", h.getCategory)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
		categories.GET("/:id/transactions", h.listCategoryTransactions)
		categories.GET("/:id/budgets", h.listCategoryBudgets)
	}
}

// listCategories handles GET /categories, optionally filtered by ?type=.
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.ListCategoriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}

	var err error
	var result any
	if params.Type != "" {
		result, err = h.categoryService.GetCategoriesByType(c.Request.Context(), params.Type)
	} else {
		result, err = h.categoryService.GetCategories(c.Request.Context())
	}
	if err != nil {
		respondError(c, logger, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *categoryHandler) getCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// createCategory handles POST /categories.
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger.Info("Received request to create category", slog.String("name", req.Name), slog.String("type", string(req.Type)))
	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create category")
		return
	}

	logger.Info("Category created successfully", slog.Int64("category_id", category.ID))
	c.JSON(http.StatusCreated, category)
}

// updateCategory handles PUT /categories/:id. Changing the type of a used category answers 409.
func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger = logger.With(slog.Int64("category_id", id))
	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update category")
		return
	}

	logger.Info("Category updated successfully")
	c.JSON(http.StatusOK, category)
}

// deleteCategory handles DELETE /categories/:id. A referenced category answers 409.
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	logger = logger.With(slog.Int64("category_id", id))
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, logger, err, "Failed to delete category")
		return
	}

	logger.Info("Category deleted successfully")
	c.Status(http.StatusNoContent)
}

func (h *categoryHandler) listCategoryTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	transactions, err := h.transactionService.GetTransactionsByCategoryID(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *categoryHandler) listCategoryBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	budgets, err := h.budgetService.GetBudgetsByCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, budgets)
}

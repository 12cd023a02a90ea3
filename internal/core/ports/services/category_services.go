package services

import (
	"context"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/dto"
)

// CategoryReaderSvc defines read operations for category data
type CategoryReaderSvc interface {
	// GetCategories retrieves every category ordered by sort order.
	GetCategories(ctx context.Context) ([]domain.Category, error)

	// GetCategoryByID retrieves a specific category by its identifier.
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)

	// GetCategoriesByType retrieves income or expense categories.
	GetCategoriesByType(ctx context.Context, categoryType domain.TransactionType) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for category data
type CategoryWriterSvc interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error)

	// UpdateCategory applies the provided fields. Changing the type of a category
	// that transactions reference is rejected with apperrors.ErrConflict.
	UpdateCategory(ctx context.Context, id int64, req dto.UpdateCategoryRequest) (*domain.Category, error)

	// DeleteCategory removes an unreferenced category. Returns apperrors.ErrConflict
	// while transactions or budgets still point at it.
	DeleteCategory(ctx context.Context, id int64) error
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}

package repositories

import (
	"context"

	"github.com/SscSPs/finance_manager/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByID retrieves a category by id. Returns apperrors.ErrNotFound when missing.
	FindCategoryByID(ctx context.Context, id int64) (*domain.Category, error)

	// ListCategories retrieves every category ordered by sort order then name.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// FindCategoriesByType retrieves categories of one transaction type.
	FindCategoriesByType(ctx context.Context, categoryType domain.TransactionType) ([]domain.Category, error)

	// FindCategoryByName retrieves a category by its exact name.
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)

	// CountCategories returns the number of stored categories.
	CountCategories(ctx context.Context) (int64, error)

	// CountCategoryReferences returns how many transactions and budgets point at the category.
	CountCategoryReferences(ctx context.Context, id int64) (transactions int64, budgets int64, err error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}

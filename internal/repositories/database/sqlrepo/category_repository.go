package sqlrepo

import (
	"context"
	"fmt"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
)

const categoryColumns = "id, name, type, icon, color, description, sort_order, is_default, is_active, created_at, updated_at"

type categoryRepository struct {
	baseRepository
}

// NewCategoryRepository creates a category repository over exec.
func NewCategoryRepository(exec portsrepo.QueryExecutor) portsrepo.CategoryRepositoryFacade {
	return &categoryRepository{baseRepository: newBaseRepository(exec)}
}

var _ portsrepo.CategoryRepositoryFacade = (*categoryRepository)(nil)

func scanCategory(s rowScanner) (domain.Category, error) {
	var c domain.Category
	var categoryType, created, updated string
	if err := s.Scan(&c.ID, &c.Name, &categoryType, &c.Icon, &c.Color, &c.Description,
		&c.SortOrder, &c.IsDefault, &c.IsActive, &created, &updated); err != nil {
		return c, err
	}
	c.Type = domain.TransactionType(categoryType)
	ts, err := parseTimestamps(created, updated)
	if err != nil {
		return c, err
	}
	c.Timestamps = ts
	return c, nil
}

func (r *categoryRepository) FindCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := queryOne(ctx, r.exec, scanCategory, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %d: %w", id, err)
	}
	return c, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := queryAll(ctx, r.exec, scanCategory, "SELECT "+categoryColumns+" FROM categories ORDER BY sort_order, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) FindCategoriesByType(ctx context.Context, categoryType domain.TransactionType) ([]domain.Category, error) {
	categories, err := queryAll(ctx, r.exec, scanCategory,
		"SELECT "+categoryColumns+" FROM categories WHERE type = ? ORDER BY sort_order, name", string(categoryType))
	if err != nil {
		return nil, fmt.Errorf("failed to find categories of type %s: %w", categoryType, err)
	}
	return categories, nil
}

func (r *categoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	c, err := queryOne(ctx, r.exec, scanCategory, "SELECT "+categoryColumns+" FROM categories WHERE name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %q: %w", name, err)
	}
	return c, nil
}

func (r *categoryRepository) CountCategories(ctx context.Context) (int64, error) {
	n, err := queryInt64(ctx, r.exec, "SELECT COUNT(*) FROM categories")
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func (r *categoryRepository) CountCategoryReferences(ctx context.Context, id int64) (int64, int64, error) {
	transactions, err := queryInt64(ctx, r.exec, "SELECT COUNT(*) FROM transactions WHERE category_id = ?", id)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count transactions of category %d: %w", id, err)
	}
	budgets, err := queryInt64(ctx, r.exec, "SELECT COUNT(*) FROM budgets WHERE category_id = ?", id)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count budgets of category %d: %w", id, err)
	}
	return transactions, budgets, nil
}

func (r *categoryRepository) SaveCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	now := r.timestamp()
	res, err := r.exec.Exec(ctx, `INSERT INTO categories
		(name, type, icon, color, description, sort_order, is_default, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, string(c.Type), c.Icon, c.Color, c.Description, c.SortOrder, c.IsDefault, c.IsActive, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return r.FindCategoryByID(ctx, res.LastInsertID)
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.IsEmpty() {
		return r.FindCategoryByID(ctx, id)
	}

	b := newUpdateBuilder("categories", categoryUpdatableColumns)
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Type != nil {
		b.set("type", string(*patch.Type))
	}
	if patch.Icon != nil {
		b.set("icon", *patch.Icon)
	}
	if patch.Color != nil {
		b.set("color", *patch.Color)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.SortOrder != nil {
		b.set("sort_order", *patch.SortOrder)
	}
	if patch.IsActive != nil {
		b.set("is_active", *patch.IsActive)
	}

	query, args, err := b.build(id, r.timestamp())
	if err != nil {
		return nil, err
	}
	if err := execAffectingOne(ctx, r.exec, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	return r.FindCategoryByID(ctx, id)
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	if err := execAffectingOne(ctx, r.exec, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

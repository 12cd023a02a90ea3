package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/core/events"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
)

// categoryService implements the CategorySvcFacade interface
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// CategoryServiceOption is a functional option for configuring the category service
type CategoryServiceOption func(*categoryService)

// WithCategoryEvents sets the publisher category changes are announced on.
func WithCategoryEvents(publisher events.Publisher) CategoryServiceOption {
	return func(s *categoryService) {
		s.Events = publisher
	}
}

// NewCategoryService creates a new category service with the provided options
func NewCategoryService(repo portsrepo.CategoryRepositoryFacade, options ...CategoryServiceOption) portssvc.CategorySvcFacade {
	svc := &categoryService{categoryRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category by ID", slog.Int64("category_id", id))
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategoriesByType(ctx context.Context, categoryType domain.TransactionType) ([]domain.Category, error) {
	if !categoryType.IsValid() {
		return nil, apperrors.Validationf("unknown category type %q", categoryType)
	}
	categories, err := s.categoryRepo.FindCategoriesByType(ctx, categoryType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories by type", slog.String("type", string(categoryType)))
		return nil, fmt.Errorf("failed to list categories by type: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	category := req.ToDomain()
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, apperrors.Validationf("category name is required")
	}
	if !category.Type.IsValid() {
		return nil, apperrors.Validationf("unknown category type %q", category.Type)
	}

	saved, err := s.categoryRepo.SaveCategory(ctx, category)
	if err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("name", category.Name))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.LogInfo(ctx, "Category created", slog.Int64("category_id", saved.ID))
	s.Publish(ctx, changed(events.CategoryChanged, saved.ID, "created"))
	return saved, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	patch := req.ToPatch()
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, apperrors.Validationf("category name cannot be empty")
		}
		patch.Name = &trimmed
	}

	current, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	if patch.Type != nil && *patch.Type != current.Type {
		if !patch.Type.IsValid() {
			return nil, apperrors.Validationf("unknown category type %q", *patch.Type)
		}
		transactions, _, err := s.categoryRepo.CountCategoryReferences(ctx, id)
		if err != nil {
			s.LogError(ctx, err, "Failed to count category references", slog.Int64("category_id", id))
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
		if transactions > 0 {
			return nil, fmt.Errorf("%w: category %d is used by %d transactions, its type cannot change",
				apperrors.ErrConflict, id, transactions)
		}
	}

	updated, err := s.categoryRepo.UpdateCategory(ctx, id, patch)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update category", slog.Int64("category_id", id))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Category updated", slog.Int64("category_id", id))
	s.Publish(ctx,
		events.New(events.CategoryUpdated, events.CategoryPayload{Category: *updated}),
		changed(events.CategoryChanged, id, "updated"),
	)
	return updated, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.GetCategoryByID(ctx, id); err != nil {
		return err
	}

	transactions, budgets, err := s.categoryRepo.CountCategoryReferences(ctx, id)
	if err != nil {
		s.LogError(ctx, err, "Failed to count category references", slog.Int64("category_id", id))
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if transactions > 0 || budgets > 0 {
		return fmt.Errorf("%w: category %d is used by %d transactions and %d budgets",
			apperrors.ErrConflict, id, transactions, budgets)
	}

	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete category", slog.Int64("category_id", id))
		}
		return err
	}

	s.LogInfo(ctx, "Category deleted", slog.Int64("category_id", id))
	s.Publish(ctx, changed(events.CategoryChanged, id, "deleted"))
	return nil
}

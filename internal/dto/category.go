package dto

import (
	"github.com/SscSPs/finance_manager/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a new category.
type CreateCategoryRequest struct {
	Name        string                 `json:"name" binding:"required,max=100"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Icon        string                 `json:"icon" binding:"max=50"`
	Color       string                 `json:"color" binding:"omitempty,hexcolor"`
	Description string                 `json:"description" binding:"max=500"`
	SortOrder   int                    `json:"sortOrder"`
	IsActive    *bool                  `json:"isActive"` // Optional, defaults to true
}

// ToDomain converts the request into a new, non-default category.
func (r CreateCategoryRequest) ToDomain() domain.Category {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.Category{
		Name:        r.Name,
		Type:        r.Type,
		Icon:        r.Icon,
		Color:       r.Color,
		Description: r.Description,
		SortOrder:   r.SortOrder,
		IsActive:    active,
	}
}

// UpdateCategoryRequest defines the data allowed for updating a category.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateCategoryRequest struct {
	Name        *string                 `json:"name" binding:"omitempty,max=100"`
	Type        *domain.TransactionType `json:"type" binding:"omitempty,oneof=income expense"`
	Icon        *string                 `json:"icon" binding:"omitempty,max=50"`
	Color       *string                 `json:"color" binding:"omitempty,hexcolor"`
	Description *string                 `json:"description" binding:"omitempty,max=500"`
	SortOrder   *int                    `json:"sortOrder"`
	IsActive    *bool                   `json:"isActive"`
}

// ToPatch converts the request into a category patch.
func (r UpdateCategoryRequest) ToPatch() domain.CategoryPatch {
	return domain.CategoryPatch{
		Name:        r.Name,
		Type:        r.Type,
		Icon:        r.Icon,
		Color:       r.Color,
		Description: r.Description,
		SortOrder:   r.SortOrder,
		IsActive:    r.IsActive,
	}
}

// ListCategoriesParams optionally narrows the listing to one type.
type ListCategoriesParams struct {
	Type domain.TransactionType `form:"type" binding:"omitempty,oneof=income expense"`
}

package domain

// Category groups transactions and budgets. Its Type must match the type of
// every transaction that references it.
type Category struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Type        TransactionType `json:"type"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
	SortOrder   int             `json:"sortOrder"`
	IsDefault   bool            `json:"isDefault"`
	IsActive    bool            `json:"isActive"`
	Timestamps
}

// CategoryPatch lists the fields of a category that may be changed after creation.
// A nil field is left untouched.
type CategoryPatch struct {
	Name        *string
	Type        *TransactionType
	Icon        *string
	Color       *string
	Description *string
	SortOrder   *int
	IsActive    *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Icon == nil && p.Color == nil &&
		p.Description == nil && p.SortOrder == nil && p.IsActive == nil
}

// DefaultCategories are seeded into an empty categories table.
var DefaultCategories = []Category{
	{Name: "Food & Dining", Type: Expense, Icon: "restaurant", Color: "#FF6B6B", Description: "Everyday meals and groceries", SortOrder: 1, IsDefault: true, IsActive: true},
	{Name: "Transport", Type: Expense, Icon: "directions_car", Color: "#4ECDC4", Description: "Public transport and car costs", SortOrder: 2, IsDefault: true, IsActive: true},
	{Name: "Shopping", Type: Expense, Icon: "shopping_cart", Color: "#FFD93D", Description: "Household goods and clothing", SortOrder: 3, IsDefault: true, IsActive: true},
	{Name: "Salary", Type: Income, Icon: "work", Color: "#95E1D3", Description: "Monthly salary", SortOrder: 4, IsDefault: true, IsActive: true},
	{Name: "Investment", Type: Income, Icon: "trending_up", Color: "#6C5CE7", Description: "Returns from stocks and funds", SortOrder: 5, IsDefault: true, IsActive: true},
}

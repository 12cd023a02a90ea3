package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/core/events"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/shopspring/decimal"
)

// DefaultAlertThreshold is the consumed percentage at which a budget is reported as an alert.
var DefaultAlertThreshold = decimal.NewFromInt(90)

// budgetService implements the BudgetSvcFacade interface
type budgetService struct {
	BaseService
	budgetRepo      portsrepo.BudgetRepositoryFacade
	transactionRepo portsrepo.TransactionReader
	categoryRepo    portsrepo.CategoryReader
	alertThreshold  decimal.Decimal
}

// BudgetServiceOption is a functional option for configuring the budget service
type BudgetServiceOption func(*budgetService)

// WithBudgetEvents sets the publisher budget changes are announced on.
func WithBudgetEvents(publisher events.Publisher) BudgetServiceOption {
	return func(s *budgetService) {
		s.Events = publisher
	}
}

// WithBudgetClock overrides the clock that decides which budgets are active today.
func WithBudgetClock(clock func() time.Time) BudgetServiceOption {
	return func(s *budgetService) {
		s.Clock = clock
	}
}

// WithAlertThreshold sets the consumed percentage that triggers an alert.
func WithAlertThreshold(threshold decimal.Decimal) BudgetServiceOption {
	return func(s *budgetService) {
		s.alertThreshold = threshold
	}
}

// NewBudgetService creates a new budget service with the provided options
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	transactionRepo portsrepo.TransactionReader,
	categoryRepo portsrepo.CategoryReader,
	options ...BudgetServiceOption,
) portssvc.BudgetSvcFacade {
	svc := &budgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		alertThreshold:  DefaultAlertThreshold,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// --- Reads ---

func (s *budgetService) GetBudgets(ctx context.Context) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets")
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return nonNil(budgets), nil
}

func (s *budgetService) GetBudgetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find budget by ID", slog.Int64("budget_id", id))
		}
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) GetBudgetsByMonth(ctx context.Context, year, month int) ([]domain.Budget, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, invalid(err)
	}
	budgets, err := s.budgetRepo.FindBudgetsByMonth(ctx, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets by month", slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to list budgets by month: %w", err)
	}
	return nonNil(budgets), nil
}

func (s *budgetService) GetBudgetsByMonthWithCategory(ctx context.Context, year, month int) ([]domain.BudgetWithCategory, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, invalid(err)
	}
	budgets, err := s.budgetRepo.FindBudgetsByMonthWithCategory(ctx, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets with category by month", slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to list budgets by month: %w", err)
	}
	return nonNil(budgets), nil
}

func (s *budgetService) GetBudgetsWithCategory(ctx context.Context) ([]domain.BudgetWithCategory, error) {
	budgets, err := s.budgetRepo.ListBudgetsWithCategory(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets with category, returning empty list")
		return []domain.BudgetWithCategory{}, nil
	}
	return nonNil(budgets), nil
}

func (s *budgetService) GetBudgetWithCategory(ctx context.Context, id int64) (*domain.BudgetWithCategory, error) {
	budget, err := s.budgetRepo.FindBudgetWithCategory(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find budget with category", slog.Int64("budget_id", id))
		}
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) GetBudgetsByCategory(ctx context.Context, categoryID int64) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.FindBudgetsByCategory(ctx, categoryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets by category", slog.Int64("category_id", categoryID))
		return nil, fmt.Errorf("failed to list budgets by category: %w", err)
	}
	return nonNil(budgets), nil
}

func (s *budgetService) GetBudgetsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Budget, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.FindBudgetsByDateRange(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets by date range")
		return nil, fmt.Errorf("failed to list budgets by date range: %w", err)
	}
	return nonNil(budgets), nil
}

func (s *budgetService) GetBudgetsByPeriod(ctx context.Context, period domain.BudgetPeriod) ([]domain.Budget, error) {
	if !period.IsValid() {
		return nil, apperrors.Validationf("unknown budget period %q", period)
	}
	budgets, err := s.budgetRepo.FindBudgetsByPeriod(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets by period", slog.String("period", string(period)))
		return nil, fmt.Errorf("failed to list budgets by period: %w", err)
	}
	return nonNil(budgets), nil
}

func (s *budgetService) GetActiveBudgets(ctx context.Context, day time.Time) ([]domain.Budget, error) {
	if day.IsZero() {
		day = s.Now()
	}
	budgets, err := s.budgetRepo.FindActiveBudgets(ctx, domain.TruncateDay(day))
	if err != nil {
		s.LogError(ctx, err, "Failed to list active budgets", slog.String("day", domain.FormatDate(day)))
		return nil, fmt.Errorf("failed to list active budgets: %w", err)
	}
	return nonNil(budgets), nil
}

// --- Derived status ---

func (s *budgetService) GetBudgetStatus(ctx context.Context, id int64) (*domain.BudgetStatus, error) {
	budget, err := s.GetBudgetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := s.statusOf(ctx, *budget)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *budgetService) statusOf(ctx context.Context, budget domain.Budget) (domain.BudgetStatus, error) {
	spent, err := s.transactionRepo.SumTransactions(ctx, domain.TransactionFilter{
		Type:       domain.Expense,
		CategoryID: budget.CategoryID,
		StartDate:  budget.StartDate,
		EndDate:    budget.EndDate,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to sum budget spending", slog.Int64("budget_id", budget.ID))
		return domain.BudgetStatus{}, fmt.Errorf("failed to compute status of budget %d: %w", budget.ID, err)
	}
	return domain.NewBudgetStatus(budget, spent), nil
}

func (s *budgetService) GetBudgetAlerts(ctx context.Context) ([]domain.BudgetStatus, error) {
	active, err := s.GetActiveBudgets(ctx, s.Now())
	if err != nil {
		return nil, err
	}
	alerts := []domain.BudgetStatus{}
	for _, budget := range active {
		status, err := s.statusOf(ctx, budget)
		if err != nil {
			return nil, err
		}
		if status.Percentage.GreaterThanOrEqual(s.alertThreshold) {
			alerts = append(alerts, status)
		}
	}
	return alerts, nil
}

func (s *budgetService) GetTotalBudgetAmount(ctx context.Context) (decimal.Decimal, error) {
	active, err := s.GetActiveBudgets(ctx, s.Now())
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, budget := range active {
		total = total.Add(budget.Amount)
	}
	return total, nil
}

func (s *budgetService) RecalculateBudgetStatus(ctx context.Context, id int64) (*domain.BudgetStatus, error) {
	status, err := s.GetBudgetStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	exceeded := status.IsExceeded()
	if exceeded == status.Budget.IsBudgetExceeded {
		return status, nil
	}

	if err := s.budgetRepo.SetBudgetExceeded(ctx, id, exceeded); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to persist budget exceeded flag", slog.Int64("budget_id", id))
		}
		return nil, err
	}
	status.Budget.IsBudgetExceeded = exceeded

	s.LogInfo(ctx, "Budget exceeded flag changed", slog.Int64("budget_id", id), slog.Bool("exceeded", exceeded))
	s.Publish(ctx, changed(events.BudgetChanged, id, "updated"))
	return status, nil
}

// --- Writes ---

func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	budget, err := req.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := budget.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkCategory(ctx, budget.CategoryID); err != nil {
		return nil, err
	}

	saved, err := s.budgetRepo.SaveBudget(ctx, budget)
	if err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("name", budget.Name))
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	s.LogInfo(ctx, "Budget created", slog.Int64("budget_id", saved.ID))

	saved = s.refreshExceeded(ctx, saved)
	s.Publish(ctx,
		events.New(events.BudgetCreated, events.BudgetPayload{Budget: *saved}),
		changed(events.BudgetChanged, saved.ID, "created"),
	)
	return saved, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, id int64, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	patch, err := req.ToPatch()
	if err != nil {
		return nil, err
	}
	current, err := s.GetBudgetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	// The month key follows the start date unless given explicitly.
	if patch.StartDate != nil && patch.Month == nil {
		month := patch.StartDate.Format(domain.MonthLayout)
		patch.Month = &month
	}

	next := patch.Apply(*current)
	if err := next.Validate(); err != nil {
		return nil, invalid(err)
	}
	if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.budgetRepo.UpdateBudget(ctx, id, patch)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update budget", slog.Int64("budget_id", id))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Budget updated", slog.Int64("budget_id", id))

	updated = s.refreshExceeded(ctx, updated)
	s.Publish(ctx,
		events.New(events.BudgetUpdated, events.BudgetPayload{Budget: *updated}),
		changed(events.BudgetChanged, id, "updated"),
	)
	return updated, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, id int64) error {
	budget, err := s.GetBudgetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, id); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete budget", slog.Int64("budget_id", id))
		}
		return err
	}

	s.LogInfo(ctx, "Budget deleted", slog.Int64("budget_id", id))
	s.Publish(ctx,
		events.New(events.BudgetDeleted, events.BudgetPayload{Budget: *budget}),
		changed(events.BudgetChanged, id, "deleted"),
	)
	return nil
}

func (s *budgetService) checkCategory(ctx context.Context, categoryID int64) error {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validationf("category %d not found", categoryID)
		}
		s.LogError(ctx, err, "Failed to load budget category", slog.Int64("category_id", categoryID))
		return fmt.Errorf("failed to load category: %w", err)
	}
	return nil
}

// refreshExceeded brings the stored exceeded flag in line after a budget write.
// The write already succeeded, so failures are logged and the saved row returned.
func (s *budgetService) refreshExceeded(ctx context.Context, budget *domain.Budget) *domain.Budget {
	status, err := s.statusOf(ctx, *budget)
	if err != nil {
		return budget
	}
	exceeded := status.IsExceeded()
	if exceeded == budget.IsBudgetExceeded {
		return budget
	}
	if err := s.budgetRepo.SetBudgetExceeded(ctx, budget.ID, exceeded); err != nil {
		s.LogError(ctx, err, "Failed to persist budget exceeded flag", slog.Int64("budget_id", budget.ID))
		return budget
	}
	refreshed := *budget
	refreshed.IsBudgetExceeded = exceeded
	return &refreshed
}

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

const defaultRecentLimit = 10

// transactionService implements the TransactionSvcFacade interface.
// Reads go through transactionRepo; writes run in a unit of work so the
// reference checks, the row change and the account balance move commit together.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	uow             portsrepo.UnitOfWork
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionEvents sets the publisher transaction changes are announced on.
func WithTransactionEvents(publisher events.Publisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.Events = publisher
	}
}

// WithTransactionClock overrides the clock used by the service.
func WithTransactionClock(clock func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, uow portsrepo.UnitOfWork, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		transactionRepo: repo,
		uow:             uow,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// --- Reads ---

func (s *transactionService) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return nonNil(txns), nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID", slog.Int64("transaction_id", id))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) GetTransactionsByMonth(ctx context.Context, year, month int) ([]domain.Transaction, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, invalid(err)
	}
	txns, err := s.transactionRepo.FindTransactionsByMonth(ctx, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by month", slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to list transactions by month: %w", err)
	}
	return nonNil(txns), nil
}

func (s *transactionService) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	txns, err := s.transactionRepo.FindTransactionsByDateRange(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by date range")
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	return nonNil(txns), nil
}

func (s *transactionService) GetTransactionsWithCategory(ctx context.Context) ([]domain.TransactionWithCategory, error) {
	txns, err := s.transactionRepo.ListTransactionsWithCategory(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions with category, returning empty list")
		return []domain.TransactionWithCategory{}, nil
	}
	return nonNil(txns), nil
}

func (s *transactionService) GetTransactionWithCategory(ctx context.Context, id int64) (*domain.TransactionWithCategory, error) {
	txn, err := s.transactionRepo.FindTransactionWithCategory(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction with category", slog.Int64("transaction_id", id))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) GetTransactionsByDateRangeWithCategory(ctx context.Context, start, end time.Time) ([]domain.TransactionWithCategory, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	txns, err := s.transactionRepo.FindTransactionsByDateRangeWithCategory(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions with category by date range")
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	return nonNil(txns), nil
}

func (s *transactionService) GetTransactionsByCategoryID(ctx context.Context, categoryID int64) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.FindTransactionsByCategory(ctx, categoryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by category", slog.Int64("category_id", categoryID))
		return nil, fmt.Errorf("failed to list transactions by category: %w", err)
	}
	return nonNil(txns), nil
}

func (s *transactionService) GetTransactionsByBudgetID(ctx context.Context, budgetID int64) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.FindTransactionsByBudget(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by budget", slog.Int64("budget_id", budgetID))
		return nil, fmt.Errorf("failed to list transactions by budget: %w", err)
	}
	return nonNil(txns), nil
}

func (s *transactionService) GetRecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	txns, err := s.transactionRepo.FindRecentTransactions(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent transactions", slog.Int("limit", limit))
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return nonNil(txns), nil
}

// --- Aggregates ---

func (s *transactionService) GetTransactionsSummaryByCategory(ctx context.Context, start, end time.Time) ([]domain.CategorySummary, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	summary, err := s.transactionRepo.SummarizeByCategory(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize transactions by category")
		return nil, fmt.Errorf("failed to summarize transactions by category: %w", err)
	}
	return nonNil(summary), nil
}

func (s *transactionService) GetTransactionsSummaryByBudget(ctx context.Context, start, end time.Time) ([]domain.BudgetSummary, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	summary, err := s.transactionRepo.SummarizeByBudget(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize transactions by budget")
		return nil, fmt.Errorf("failed to summarize transactions by budget: %w", err)
	}
	return nonNil(summary), nil
}

func (s *transactionService) GetTotalIncome(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	return s.sumByType(ctx, domain.Income, start, end)
}

func (s *transactionService) GetTotalExpense(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	return s.sumByType(ctx, domain.Expense, start, end)
}

func (s *transactionService) sumByType(ctx context.Context, txnType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	if !start.IsZero() && !end.IsZero() {
		if err := validateRange(start, end); err != nil {
			return decimal.Zero, err
		}
	}
	total, err := s.transactionRepo.SumTransactions(ctx, domain.TransactionFilter{
		Type:      txnType,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transactions", slog.String("type", string(txnType)))
		return decimal.Zero, fmt.Errorf("failed to sum %s: %w", txnType, err)
	}
	return total, nil
}

// --- Writes ---

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	txn, err := req.ToDomain()
	if err != nil {
		return nil, err
	}
	txn.Date = domain.TruncateDay(txn.Date)
	if err := txn.Validate(); err != nil {
		return nil, invalid(err)
	}

	var saved *domain.Transaction
	err = s.uow.Do(ctx, func(repos portsrepo.RepositoryProvider) error {
		if err := checkTransactionReferences(ctx, repos, txn); err != nil {
			return err
		}
		var err error
		saved, err = repos.TransactionRepo.SaveTransaction(ctx, txn)
		if err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		return moveAccountBalance(ctx, repos, saved.AccountID, saved.SignedAmount())
	})
	if err != nil {
		if !isClientError(err) {
			s.LogError(ctx, err, "Failed to create transaction", slog.String("name", txn.Name))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created", slog.Int64("transaction_id", saved.ID))
	s.Publish(ctx,
		events.New(events.TransactionCreated, events.TransactionPayload{Transaction: *saved}),
		changed(events.TransactionChanged, saved.ID, "created"),
	)
	return saved, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, id int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	patch, err := req.ToPatch()
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.GetTransactionByID(ctx, id)
	}

	var before, after *domain.Transaction
	err = s.uow.Do(ctx, func(repos portsrepo.RepositoryProvider) error {
		var err error
		before, err = repos.TransactionRepo.FindTransactionByID(ctx, id)
		if err != nil {
			return err
		}
		next := patch.Apply(*before)
		if err := next.Validate(); err != nil {
			return invalid(err)
		}
		if err := checkTransactionReferences(ctx, repos, next); err != nil {
			return err
		}
		after, err = repos.TransactionRepo.UpdateTransaction(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if err := moveAccountBalance(ctx, repos, before.AccountID, before.SignedAmount().Neg()); err != nil {
			return err
		}
		return moveAccountBalance(ctx, repos, after.AccountID, after.SignedAmount())
	})
	if err != nil {
		if !isClientError(err) {
			s.LogError(ctx, err, "Failed to update transaction", slog.Int64("transaction_id", id))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.Int64("transaction_id", id))
	s.Publish(ctx,
		events.New(events.TransactionUpdated, events.TransactionUpdatedPayload{
			Transaction:   *after,
			OldAmount:     before.Amount,
			OldType:       before.Type,
			OldCategoryID: before.CategoryID,
			OldDate:       before.Date,
		}),
		changed(events.TransactionChanged, id, "updated"),
	)
	return after, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, id int64) error {
	var removed *domain.Transaction
	err := s.uow.Do(ctx, func(repos portsrepo.RepositoryProvider) error {
		var err error
		removed, err = repos.TransactionRepo.FindTransactionByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return moveAccountBalance(ctx, repos, removed.AccountID, removed.SignedAmount().Neg())
	})
	if err != nil {
		if !isClientError(err) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.Int64("transaction_id", id))
		}
		return err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.Int64("transaction_id", id))
	s.Publish(ctx,
		events.New(events.TransactionDeleted, events.TransactionPayload{Transaction: *removed}),
		changed(events.TransactionChanged, id, "deleted"),
	)
	return nil
}

// checkTransactionReferences makes sure the category exists with the same type and
// that the optional budget and account exist.
func checkTransactionReferences(ctx context.Context, repos portsrepo.RepositoryProvider, txn domain.Transaction) error {
	category, err := repos.CategoryRepo.FindCategoryByID(ctx, txn.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validationf("category %d not found", txn.CategoryID)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	if category.Type != txn.Type {
		return apperrors.Validationf("transaction type %q does not match category %q of type %q",
			txn.Type, category.Name, category.Type)
	}
	if txn.BudgetID != nil {
		if _, err := repos.BudgetRepo.FindBudgetByID(ctx, *txn.BudgetID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.Validationf("budget %d not found", *txn.BudgetID)
			}
			return fmt.Errorf("failed to load budget: %w", err)
		}
	}
	if txn.AccountID != nil {
		if _, err := repos.AccountRepo.FindAccountByID(ctx, *txn.AccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.Validationf("account %d not found", *txn.AccountID)
			}
			return fmt.Errorf("failed to load account: %w", err)
		}
	}
	return nil
}

func moveAccountBalance(ctx context.Context, repos portsrepo.RepositoryProvider, accountID *int64, delta decimal.Decimal) error {
	if accountID == nil {
		return nil
	}
	if err := repos.AccountRepo.AdjustAccountBalance(ctx, *accountID, delta); err != nil {
		return fmt.Errorf("failed to adjust balance of account %d: %w", *accountID, err)
	}
	return nil
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.Validationf("start and end dates are required")
	}
	if end.Before(start) {
		return apperrors.Validationf("end date %s is before start date %s", domain.FormatDate(end), domain.FormatDate(start))
	}
	return nil
}

// isClientError reports errors caused by the request rather than the store.
func isClientError(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrConflict)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/shopspring/decimal"
)

type bankBalanceService struct {
	BaseService
	balanceRepo portsrepo.BankBalanceRepositoryFacade
	uow         portsrepo.UnitOfWork
}

// BankBalanceServiceOption is a functional option for configuring the bank balance service
type BankBalanceServiceOption func(*bankBalanceService)

// WithBankBalanceClock overrides the clock that picks the month InitializeYear targets.
func WithBankBalanceClock(clock func() time.Time) BankBalanceServiceOption {
	return func(s *bankBalanceService) {
		s.Clock = clock
	}
}

// NewBankBalanceService creates a new bank balance service with the provided options
func NewBankBalanceService(repo portsrepo.BankBalanceRepositoryFacade, uow portsrepo.UnitOfWork, options ...BankBalanceServiceOption) portssvc.BankBalanceSvcFacade {
	svc := &bankBalanceService{
		balanceRepo: repo,
		uow:         uow,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BankBalanceSvcFacade = (*bankBalanceService)(nil)

func (s *bankBalanceService) GetBankBalance(ctx context.Context, year, month int) (*domain.BankBalance, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, invalid(err)
	}
	balance, err := s.balanceRepo.FindBankBalance(ctx, year, month)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find bank balance", slog.Int("year", year), slog.Int("month", month))
		}
		return nil, err
	}
	return balance, nil
}

func (s *bankBalanceService) GetBankBalancesByYear(ctx context.Context, year int) ([]domain.BankBalance, error) {
	if year <= 0 {
		return nil, apperrors.Validationf("invalid year %d", year)
	}
	balances, err := s.balanceRepo.FindBankBalancesByYear(ctx, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank balances by year", slog.Int("year", year))
		return nil, fmt.Errorf("failed to list bank balances: %w", err)
	}
	return nonNil(balances), nil
}

func (s *bankBalanceService) UpdateBankBalance(ctx context.Context, year, month int, req dto.UpdateBankBalanceRequest) (*domain.BankBalance, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, invalid(err)
	}
	patch := req.ToPatch()
	if patch.OpeningBalance == nil && patch.ClosingBalance == nil {
		return s.GetBankBalance(ctx, year, month)
	}

	var updated *domain.BankBalance
	err := s.uow.Do(ctx, func(repos portsrepo.RepositoryProvider) error {
		if err := repos.BankBalanceRepo.UpdateBankBalance(ctx, year, month, patch); err != nil {
			return err
		}
		// Return what the store holds, not what the caller sent.
		var err error
		updated, err = repos.BankBalanceRepo.FindBankBalance(ctx, year, month)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update bank balance", slog.Int("year", year), slog.Int("month", month))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Bank balance updated", slog.Int("year", year), slog.Int("month", month))
	return updated, nil
}

func (s *bankBalanceService) InitializeYear(ctx context.Context, year int) (*domain.BankBalance, error) {
	return s.InitializeMonth(ctx, year, int(s.Now().Month()))
}

func (s *bankBalanceService) InitializeMonth(ctx context.Context, year, month int) (*domain.BankBalance, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, invalid(err)
	}

	var balance *domain.BankBalance
	err := s.uow.Do(ctx, func(repos portsrepo.RepositoryProvider) error {
		existing, err := repos.BankBalanceRepo.FindBankBalance(ctx, year, month)
		if err == nil {
			balance = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		opening := decimal.Zero
		prevYear, prevMonth := domain.PreviousMonth(year, month)
		previous, err := repos.BankBalanceRepo.FindBankBalance(ctx, prevYear, prevMonth)
		switch {
		case err == nil:
			opening = previous.ClosingBalance
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		balance, err = repos.BankBalanceRepo.SaveBankBalance(ctx, domain.BankBalance{
			Year:           year,
			Month:          month,
			OpeningBalance: opening,
			ClosingBalance: opening,
		})
		return err
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		// Another caller created the month first.
		return s.GetBankBalance(ctx, year, month)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to initialize bank balance", slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to initialize bank balance: %w", err)
	}

	s.LogDebug(ctx, "Bank balance initialized", slog.Int("year", year), slog.Int("month", month))
	return balance, nil
}

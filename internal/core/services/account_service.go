package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	uow         portsrepo.UnitOfWork
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade, uow portsrepo.UnitOfWork) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo, uow: uow}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	account := req.ToDomain()
	account.Name = strings.TrimSpace(account.Name)
	if err := account.Validate(); err != nil {
		return nil, invalid(err)
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("name", account.Name))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully in service", slog.Int64("account_id", saved.ID))
	return saved, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, id)
	if err != nil {
		// ErrNotFound is an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID in repository", slog.Int64("account_id", id))
		}
		return nil, err
	}
	s.LogDebug(ctx, "Account retrieved successfully from service", slog.Int64("account_id", id))
	return account, nil
}

func (s *accountService) GetAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, id int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	current, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := req.ToPatch()
	if patch.Name == nil && patch.Type == nil && patch.OpeningBalance == nil {
		return current, nil
	}

	next := *current
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
		next.Name = trimmed
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if err := next.Validate(); err != nil {
		return nil, invalid(err)
	}

	// A new opening balance shifts the running balance by the same amount.
	var updated *domain.Account
	err = s.uow.Do(ctx, func(repos portsrepo.RepositoryProvider) error {
		var err error
		updated, err = repos.AccountRepo.UpdateAccount(ctx, id, patch)
		if err != nil {
			return err
		}
		if patch.OpeningBalance == nil {
			return nil
		}
		delta := patch.OpeningBalance.Sub(current.OpeningBalance)
		if delta.IsZero() {
			return nil
		}
		if err := repos.AccountRepo.AdjustAccountBalance(ctx, id, delta); err != nil {
			return err
		}
		updated, err = repos.AccountRepo.FindAccountByID(ctx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update account in repository", slog.Int64("account_id", id))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully in service", slog.Int64("account_id", id))
	return updated, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.accountRepo.DeleteAccount(ctx, id); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete account in repository", slog.Int64("account_id", id))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted successfully in service", slog.Int64("account_id", id))
	return nil
}

package sqlrepo

import (
	"context"

	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository to exec. The provider's UnitOfWork
// opens transactions on the same executor.
func NewRepositoryProvider(exec portsrepo.QueryExecutor) portsrepo.RepositoryProvider {
	provider := newBoundProvider(exec)
	provider.UnitOfWork = &unitOfWork{exec: exec}
	return provider
}

func newBoundProvider(exec portsrepo.QueryExecutor) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CategoryRepo:    NewCategoryRepository(exec),
		TransactionRepo: NewTransactionRepository(exec),
		BudgetRepo:      NewBudgetRepository(exec),
		BankBalanceRepo: NewBankBalanceRepository(exec),
		AccountRepo:     NewAccountRepository(exec),
		ReportingRepo:   NewReportingRepository(exec),
	}
}

// unitOfWork hands fn a provider whose repositories share one transaction.
type unitOfWork struct {
	exec portsrepo.QueryExecutor
}

var _ portsrepo.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Do(ctx context.Context, fn func(repos portsrepo.RepositoryProvider) error) error {
	return u.exec.Transaction(ctx, func(tx portsrepo.QueryExecutor) error {
		repos := newBoundProvider(tx)
		repos.UnitOfWork = &unitOfWork{exec: tx}
		return fn(repos)
	})
}

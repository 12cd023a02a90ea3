package services

import (
	"github.com/SscSPs/finance_manager/internal/core/events"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The budget event handler is subscribed to bus, so transaction writes keep budget flags current.
// Database is left for the caller, which owns the lifecycle manager.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, bus *events.Bus) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	if bus == nil {
		bus = events.NewBus()
	}

	threshold := DefaultAlertThreshold
	if cfg != nil && cfg.BudgetAlertThreshold.IsPositive() {
		threshold = cfg.BudgetAlertThreshold
	}

	container.Category = NewCategoryService(repos.CategoryRepo, WithCategoryEvents(bus))
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.UnitOfWork, WithTransactionEvents(bus))
	container.Budget = NewBudgetService(
		repos.BudgetRepo,
		repos.TransactionRepo,
		repos.CategoryRepo,
		WithBudgetEvents(bus),
		WithAlertThreshold(threshold),
	)
	container.BankBalance = NewBankBalanceService(repos.BankBalanceRepo, repos.UnitOfWork)
	container.Account = NewAccountService(repos.AccountRepo, repos.UnitOfWork)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	NewBudgetEventHandler(container.Budget, bus, threshold).Register(bus)

	return container
}

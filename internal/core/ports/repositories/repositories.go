package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CategoryRepo    CategoryRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	BudgetRepo      BudgetRepositoryFacade
	BankBalanceRepo BankBalanceRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	ReportingRepo   ReportingRepository
	UnitOfWork      UnitOfWork
}

package services

import (
	"context"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Category    CategorySvcFacade
	Transaction TransactionSvcFacade
	Budget      BudgetSvcFacade
	BankBalance BankBalanceSvcFacade
	Account     AccountSvcFacade
	Reporting   ReportingService
	Database    DatabaseLifecycleSvc
}

// DatabaseLifecycleSvc defines schema bootstrap and reset operations.
type DatabaseLifecycleSvc interface {
	// Initialize creates missing tables and seeds default categories. Concurrent
	// callers share one run.
	Initialize(ctx context.Context) error

	// Reset drops, recreates and reseeds every table in one transaction.
	// Returns apperrors.ErrBusy while another reset is running.
	Reset(ctx context.Context) error

	IsInitialized() bool
}

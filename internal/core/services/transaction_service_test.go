package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/core/events"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/core/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	txnRepo      *MockTransactionRepository
	categoryRepo *MockCategoryRepository
	budgetRepo   *MockBudgetRepository
	accountRepo  *MockAccountRepository
	uow          *fakeUnitOfWork
	publisher    *recordingPublisher
	service      portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.txnRepo = new(MockTransactionRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.budgetRepo = new(MockBudgetRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.publisher = &recordingPublisher{}
	suite.uow = &fakeUnitOfWork{repos: portsrepo.RepositoryProvider{
		TransactionRepo: suite.txnRepo,
		CategoryRepo:    suite.categoryRepo,
		BudgetRepo:      suite.budgetRepo,
		AccountRepo:     suite.accountRepo,
	}}
	suite.service = services.NewTransactionService(suite.txnRepo, suite.uow,
		services.WithTransactionEvents(suite.publisher))
}

func (suite *TransactionServiceTestSuite) TearDownTest() {
	suite.txnRepo.AssertExpectations(suite.T())
	suite.categoryRepo.AssertExpectations(suite.T())
	suite.budgetRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

var food = &domain.Category{ID: 1, Name: "Food & Dining", Type: domain.Expense}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	req := dto.CreateTransactionRequest{
		Name:       "Lunch",
		Amount:     dec("25.50"),
		Type:       domain.Expense,
		CategoryID: 1,
		AccountID:  ptr(int64(3)),
		Date:       "2024-03-15",
	}
	saved := &domain.Transaction{ID: 10, Name: "Lunch", Amount: dec("25.50"), Type: domain.Expense,
		CategoryID: 1, AccountID: ptr(int64(3)), Date: day("2024-03-15")}

	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(1)).Return(food, nil).Once()
	suite.accountRepo.On("FindAccountByID", mock.Anything, int64(3)).Return(&domain.Account{ID: 3}, nil).Once()
	suite.txnRepo.On("SaveTransaction", mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(saved, nil).Once()
	suite.accountRepo.On("AdjustAccountBalance", mock.Anything, int64(3), decEq("-25.50")).Return(nil).Once()

	created, err := suite.service.CreateTransaction(suite.ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(10), created.ID)
	suite.Equal(1, suite.uow.calls)
	suite.Equal([]events.EventType{events.TransactionCreated, events.TransactionChanged}, suite.publisher.types())
	payload, ok := suite.publisher.events[0].Payload.(events.TransactionPayload)
	suite.Require().True(ok)
	suite.Equal(int64(10), payload.Transaction.ID)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TypeMismatch() {
	req := dto.CreateTransactionRequest{
		Name:       "Bonus",
		Amount:     dec("100"),
		Type:       domain.Income,
		CategoryID: 1,
		Date:       "2024-03-15",
	}
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(1)).Return(food, nil).Once()

	created, err := suite.service.CreateTransaction(suite.ctx, req)

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.types())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnknownCategory() {
	req := dto.CreateTransactionRequest{
		Name: "Lunch", Amount: dec("5"), Type: domain.Expense, CategoryID: 42, Date: "2024-03-15",
	}
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(42)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateTransaction(suite.ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "category 42 not found")
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnknownBudget() {
	req := dto.CreateTransactionRequest{
		Name: "Lunch", Amount: dec("5"), Type: domain.Expense, CategoryID: 1, BudgetID: ptr(int64(9)), Date: "2024-03-15",
	}
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(1)).Return(food, nil).Once()
	suite.budgetRepo.On("FindBudgetByID", mock.Anything, int64(9)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateTransaction(suite.ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NonPositiveAmount() {
	req := dto.CreateTransactionRequest{
		Name: "Nothing", Amount: decimal.Zero, Type: domain.Expense, CategoryID: 1, Date: "2024-03-15",
	}

	_, err := suite.service.CreateTransaction(suite.ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(0, suite.uow.calls)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_MovesAccountBalance() {
	before := &domain.Transaction{ID: 5, Name: "Groceries", Amount: dec("100"), Type: domain.Expense,
		CategoryID: 1, AccountID: ptr(int64(3)), Date: day("2024-03-01")}
	after := &domain.Transaction{ID: 5, Name: "Groceries", Amount: dec("150"), Type: domain.Expense,
		CategoryID: 1, AccountID: ptr(int64(3)), Date: day("2024-03-01")}
	req := dto.UpdateTransactionRequest{Amount: ptr(dec("150"))}

	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(5)).Return(before, nil).Once()
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(1)).Return(food, nil).Once()
	suite.accountRepo.On("FindAccountByID", mock.Anything, int64(3)).Return(&domain.Account{ID: 3}, nil).Once()
	suite.txnRepo.On("UpdateTransaction", mock.Anything, int64(5), mock.AnythingOfType("domain.TransactionPatch")).Return(after, nil).Once()
	suite.accountRepo.On("AdjustAccountBalance", mock.Anything, int64(3), decEq("100")).Return(nil).Once()
	suite.accountRepo.On("AdjustAccountBalance", mock.Anything, int64(3), decEq("-150")).Return(nil).Once()

	updated, err := suite.service.UpdateTransaction(suite.ctx, 5, req)

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(dec("150")))
	suite.Equal([]events.EventType{events.TransactionUpdated, events.TransactionChanged}, suite.publisher.types())
	payload := suite.publisher.events[0].Payload.(events.TransactionUpdatedPayload)
	suite.True(payload.OldAmount.Equal(dec("100")))
	suite.Equal(domain.Expense, payload.OldType)
	suite.Equal(int64(1), payload.OldCategoryID)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_EmptyPatchReturnsCurrent() {
	current := &domain.Transaction{ID: 5, Name: "Groceries"}
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(5)).Return(current, nil).Once()

	got, err := suite.service.UpdateTransaction(suite.ctx, 5, dto.UpdateTransactionRequest{})

	suite.Require().NoError(err)
	suite.Equal(current, got)
	suite.Equal(0, suite.uow.calls)
	suite.Empty(suite.publisher.types())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_NotFound() {
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(77)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateTransaction(suite.ctx, 77, dto.UpdateTransactionRequest{Name: ptr("x")})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReversesBalance() {
	removed := &domain.Transaction{ID: 8, Amount: dec("40"), Type: domain.Income, CategoryID: 4,
		AccountID: ptr(int64(2)), Date: day("2024-03-01")}
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(8)).Return(removed, nil).Once()
	suite.txnRepo.On("DeleteTransaction", mock.Anything, int64(8)).Return(nil).Once()
	suite.accountRepo.On("AdjustAccountBalance", mock.Anything, int64(2), decEq("-40")).Return(nil).Once()

	err := suite.service.DeleteTransaction(suite.ctx, 8)

	suite.Require().NoError(err)
	suite.Equal([]events.EventType{events.TransactionDeleted, events.TransactionChanged}, suite.publisher.types())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_BalanceFailurePropagates() {
	removed := &domain.Transaction{ID: 8, Amount: dec("40"), Type: domain.Expense, CategoryID: 1,
		AccountID: ptr(int64(2)), Date: day("2024-03-01")}
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(8)).Return(removed, nil).Once()
	suite.txnRepo.On("DeleteTransaction", mock.Anything, int64(8)).Return(nil).Once()
	suite.accountRepo.On("AdjustAccountBalance", mock.Anything, int64(2), decEq("40")).Return(errors.New("disk full")).Once()

	err := suite.service.DeleteTransaction(suite.ctx, 8)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "disk full")
	suite.Empty(suite.publisher.types())
}

func (suite *TransactionServiceTestSuite) TestGetTransactionsWithCategory_DegradesToEmpty() {
	suite.txnRepo.On("ListTransactionsWithCategory", mock.Anything).Return(nil, errors.New("no such table")).Once()

	txns, err := suite.service.GetTransactionsWithCategory(suite.ctx)

	suite.NoError(err)
	suite.NotNil(txns)
	suite.Empty(txns)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionsByMonth() {
	march := []domain.Transaction{{ID: 1, Date: day("2024-03-01")}, {ID: 2, Date: day("2024-03-31")}}
	suite.txnRepo.On("FindTransactionsByMonth", mock.Anything, 2024, 3).Return(march, nil).Once()

	txns, err := suite.service.GetTransactionsByMonth(suite.ctx, 2024, 3)

	suite.Require().NoError(err)
	suite.Len(txns, 2)

	_, err = suite.service.GetTransactionsByMonth(suite.ctx, 2024, 13)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionsByDateRange_RejectsInvertedRange() {
	_, err := suite.service.GetTransactionsByDateRange(suite.ctx, day("2024-03-10"), day("2024-03-01"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestGetTotals() {
	start, end := day("2024-01-01"), day("2024-01-31")
	suite.txnRepo.On("SumTransactions", mock.Anything, domain.TransactionFilter{Type: domain.Income, StartDate: start, EndDate: end}).
		Return(dec("3000"), nil).Once()
	suite.txnRepo.On("SumTransactions", mock.Anything, domain.TransactionFilter{Type: domain.Expense, StartDate: start, EndDate: end}).
		Return(dec("1200.75"), nil).Once()

	income, err := suite.service.GetTotalIncome(suite.ctx, start, end)
	suite.Require().NoError(err)
	expense, err := suite.service.GetTotalExpense(suite.ctx, start, end)
	suite.Require().NoError(err)

	suite.True(income.Equal(dec("3000")))
	suite.True(expense.Equal(dec("1200.75")))
}

func (suite *TransactionServiceTestSuite) TestGetRecentTransactions_DefaultsLimit() {
	suite.txnRepo.On("FindRecentTransactions", mock.Anything, 10).Return([]domain.Transaction{}, nil).Once()

	txns, err := suite.service.GetRecentTransactions(suite.ctx, 0)

	suite.Require().NoError(err)
	suite.Empty(txns)
}

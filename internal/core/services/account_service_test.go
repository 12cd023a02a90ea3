package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/core/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *MockAccountRepository
	uow     *fakeUnitOfWork
	service portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = new(MockAccountRepository)
	suite.uow = &fakeUnitOfWork{repos: portsrepo.RepositoryProvider{AccountRepo: suite.repo}}
	suite.service = services.NewAccountService(suite.repo, suite.uow)
}

func (suite *AccountServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_StartsAtOpeningBalance() {
	req := dto.CreateAccountRequest{Name: " Checking ", Type: domain.BankAccount, OpeningBalance: dec("1000")}
	saved := &domain.Account{ID: 1, Name: "Checking", Type: domain.BankAccount, OpeningBalance: dec("1000"), ClosingBalance: dec("1000")}

	suite.repo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Checking" && a.ClosingBalance.Equal(dec("1000"))
	})).Return(saved, nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(1), created.ID)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownType() {
	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: "Jar", Type: domain.AccountType("jar")})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_OpeningBalanceShiftsRunningBalance() {
	current := &domain.Account{ID: 1, Name: "Checking", Type: domain.BankAccount, OpeningBalance: dec("1000"), ClosingBalance: dec("750")}
	renamed := &domain.Account{ID: 1, Name: "Checking", Type: domain.BankAccount, OpeningBalance: dec("1200"), ClosingBalance: dec("750")}
	shifted := &domain.Account{ID: 1, Name: "Checking", Type: domain.BankAccount, OpeningBalance: dec("1200"), ClosingBalance: dec("950")}

	suite.repo.On("FindAccountByID", mock.Anything, int64(1)).Return(current, nil).Once()
	suite.repo.On("UpdateAccount", mock.Anything, int64(1), mock.Anything).Return(renamed, nil).Once()
	suite.repo.On("AdjustAccountBalance", mock.Anything, int64(1), decEq("200")).Return(nil).Once()
	suite.repo.On("FindAccountByID", mock.Anything, int64(1)).Return(shifted, nil).Once()

	got, err := suite.service.UpdateAccount(suite.ctx, 1, dto.UpdateAccountRequest{OpeningBalance: ptr(dec("1200"))})

	suite.Require().NoError(err)
	suite.True(got.ClosingBalance.Equal(dec("950")))
	suite.Equal(1, suite.uow.calls)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RenameDoesNotTouchBalance() {
	current := &domain.Account{ID: 1, Name: "Checking", Type: domain.BankAccount, OpeningBalance: dec("1000")}
	renamed := &domain.Account{ID: 1, Name: "Main", Type: domain.BankAccount, OpeningBalance: dec("1000")}

	suite.repo.On("FindAccountByID", mock.Anything, int64(1)).Return(current, nil).Once()
	suite.repo.On("UpdateAccount", mock.Anything, int64(1), mock.MatchedBy(func(p domain.AccountPatch) bool {
		return p.Name != nil && *p.Name == "Main"
	})).Return(renamed, nil).Once()

	got, err := suite.service.UpdateAccount(suite.ctx, 1, dto.UpdateAccountRequest{Name: ptr("Main ")})

	suite.Require().NoError(err)
	suite.Equal("Main", got.Name)
	suite.repo.AssertNotCalled(suite.T(), "AdjustAccountBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_BlankName() {
	current := &domain.Account{ID: 1, Name: "Checking", Type: domain.BankAccount}
	suite.repo.On("FindAccountByID", mock.Anything, int64(1)).Return(current, nil).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, 1, dto.UpdateAccountRequest{Name: ptr("  ")})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Zero(suite.uow.calls)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_NotFound() {
	suite.repo.On("DeleteAccount", mock.Anything, int64(3)).Return(apperrors.ErrNotFound).Once()

	suite.ErrorIs(suite.service.DeleteAccount(suite.ctx, 3), apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccounts_EmptyIsNotNil() {
	suite.repo.On("ListAccounts", mock.Anything).Return(nil, nil).Once()

	accounts, err := suite.service.GetAccounts(suite.ctx)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
}

package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/core/events"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/SscSPs/finance_manager/internal/core/services"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repo      *MockCategoryRepository
	publisher *recordingPublisher
	service   portssvc.CategorySvcFacade
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = new(MockCategoryRepository)
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewCategoryService(suite.repo, services.WithCategoryEvents(suite.publisher))
}

func (suite *CategoryServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_TrimsNameAndDefaultsActive() {
	req := dto.CreateCategoryRequest{Name: "  Rent  ", Type: domain.Expense, Color: "#112233"}
	saved := &domain.Category{ID: 6, Name: "Rent", Type: domain.Expense, Color: "#112233", IsActive: true}

	suite.repo.On("SaveCategory", mock.Anything, mock.MatchedBy(func(c domain.Category) bool {
		return c.Name == "Rent" && c.IsActive && !c.IsDefault
	})).Return(saved, nil).Once()

	created, err := suite.service.CreateCategory(suite.ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(6), created.ID)
	suite.Equal([]events.EventType{events.CategoryChanged}, suite.publisher.types())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_BlankName() {
	_, err := suite.service.CreateCategory(suite.ctx, dto.CreateCategoryRequest{Name: "   ", Type: domain.Income})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.repo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestGetCategoriesByType_RejectsUnknownType() {
	_, err := suite.service.GetCategoriesByType(suite.ctx, domain.TransactionType("transfer"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestGetCategories_EmptyIsNotNil() {
	suite.repo.On("ListCategories", mock.Anything).Return(nil, nil).Once()

	categories, err := suite.service.GetCategories(suite.ctx)

	suite.Require().NoError(err)
	suite.NotNil(categories)
	suite.Empty(categories)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_RenamePublishesEvents() {
	current := &domain.Category{ID: 1, Name: "Food", Type: domain.Expense}
	updated := &domain.Category{ID: 1, Name: "Groceries", Type: domain.Expense}

	suite.repo.On("FindCategoryByID", mock.Anything, int64(1)).Return(current, nil).Once()
	suite.repo.On("UpdateCategory", mock.Anything, int64(1), mock.MatchedBy(func(p domain.CategoryPatch) bool {
		return p.Name != nil && *p.Name == "Groceries" && p.Type == nil
	})).Return(updated, nil).Once()

	got, err := suite.service.UpdateCategory(suite.ctx, 1, dto.UpdateCategoryRequest{Name: ptr(" Groceries ")})

	suite.Require().NoError(err)
	suite.Equal("Groceries", got.Name)
	suite.Equal([]events.EventType{events.CategoryUpdated, events.CategoryChanged}, suite.publisher.types())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_TypeChangeBlockedWhileUsed() {
	current := &domain.Category{ID: 1, Name: "Food", Type: domain.Expense}
	suite.repo.On("FindCategoryByID", mock.Anything, int64(1)).Return(current, nil).Once()
	suite.repo.On("CountCategoryReferences", mock.Anything, int64(1)).Return(int64(3), int64(0), nil).Once()

	_, err := suite.service.UpdateCategory(suite.ctx, 1, dto.UpdateCategoryRequest{Type: ptr(domain.Income)})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.repo.AssertNotCalled(suite.T(), "UpdateCategory", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_TypeChangeAllowedWhenUnused() {
	current := &domain.Category{ID: 1, Name: "Food", Type: domain.Expense}
	updated := &domain.Category{ID: 1, Name: "Food", Type: domain.Income}
	suite.repo.On("FindCategoryByID", mock.Anything, int64(1)).Return(current, nil).Once()
	suite.repo.On("CountCategoryReferences", mock.Anything, int64(1)).Return(int64(0), int64(2), nil).Once()
	suite.repo.On("UpdateCategory", mock.Anything, int64(1), mock.Anything).Return(updated, nil).Once()

	got, err := suite.service.UpdateCategory(suite.ctx, 1, dto.UpdateCategoryRequest{Type: ptr(domain.Income)})

	suite.Require().NoError(err)
	suite.Equal(domain.Income, got.Type)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_EmptyPatchReturnsCurrent() {
	current := &domain.Category{ID: 1, Name: "Food", Type: domain.Expense}
	suite.repo.On("FindCategoryByID", mock.Anything, int64(1)).Return(current, nil).Once()

	got, err := suite.service.UpdateCategory(suite.ctx, 1, dto.UpdateCategoryRequest{})

	suite.Require().NoError(err)
	suite.Same(current, got)
	suite.Empty(suite.publisher.types())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_NotFound() {
	suite.repo.On("FindCategoryByID", mock.Anything, int64(77)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateCategory(suite.ctx, 77, dto.UpdateCategoryRequest{Name: ptr("x")})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_ReferencedIsConflict() {
	suite.repo.On("FindCategoryByID", mock.Anything, int64(1)).Return(&domain.Category{ID: 1}, nil).Once()
	suite.repo.On("CountCategoryReferences", mock.Anything, int64(1)).Return(int64(0), int64(1), nil).Once()

	err := suite.service.DeleteCategory(suite.ctx, 1)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.repo.AssertNotCalled(suite.T(), "DeleteCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_Unreferenced() {
	suite.repo.On("FindCategoryByID", mock.Anything, int64(5)).Return(&domain.Category{ID: 5}, nil).Once()
	suite.repo.On("CountCategoryReferences", mock.Anything, int64(5)).Return(int64(0), int64(0), nil).Once()
	suite.repo.On("DeleteCategory", mock.Anything, int64(5)).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteCategory(suite.ctx, 5))
	suite.Equal([]events.EventType{events.CategoryChanged}, suite.publisher.types())
}

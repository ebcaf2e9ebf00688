package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/core/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockAccountRepository
	mockSequence *MockSequenceRepository
	service      portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockSequence = new(MockSequenceRepository)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockSequence, stubAuditService{})
}

// --- Code generation ---

func (suite *AccountServiceTestSuite) TestCreateAccount_FirstExpenseRootGetsPrefixCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Salaries",
		AccountType: domain.Expense,
	}

	// No expense roots yet; the counter starts at the prefix block.
	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("repositories.AccountListFilter")).
		Return([]domain.Account{}, nil).Once()
	suite.mockSequence.On("Next", ctx, "account:root:5", int64(4999)).Return(int64(5000), nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Account).AccountID = 61
		}).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("5000", account.Code)
	suite.Equal(1, account.Level)
	suite.True(account.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SecondExpenseRootIncrements() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Marketing",
		AccountType: domain.Expense,
	}

	existing := []domain.Account{
		{AccountID: 61, Code: "5000", AccountType: domain.Expense},
	}
	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("repositories.AccountListFilter")).
		Return(existing, nil).Once()
	// The counter is seeded from the highest existing root code.
	suite.mockSequence.On("Next", ctx, "account:root:5", int64(5000)).Return(int64(5001), nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("5001", account.Code)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ChildInheritsTypeAndExtendsCode() {
	ctx := context.Background()
	parentID := int64(10)
	parent := &domain.Account{
		AccountID:   parentID,
		Code:        "1-001",
		Name:        "Cash",
		AccountType: domain.Asset,
		Level:       1,
		IsParent:    true,
		IsActive:    true,
	}

	req := dto.CreateAccountRequest{
		Name:            "Petty Cash",
		AccountType:     domain.Expense, // ignored, the parent's type wins
		ParentAccountID: &parentID,
	}

	siblings := []domain.Account{
		{AccountID: 11, Code: "1-001.1", AccountType: domain.Asset},
		{AccountID: 12, Code: "1-001.2", AccountType: domain.Asset},
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("ListChildren", ctx, parentID).Return(siblings, nil).Once()
	suite.mockSequence.On("Next", ctx, "account:child:10", int64(2)).Return(int64(3), nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("1-001.3", account.Code)
	suite.Equal(domain.Asset, account.AccountType)
	suite.Equal(2, account.Level)
	suite.Require().NotNil(account.ParentAccountID)
	suite.Equal(parentID, *account.ParentAccountID)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_FirstChildFlagsParent() {
	ctx := context.Background()
	parentID := int64(20)
	parent := &domain.Account{
		AccountID:   parentID,
		Code:        "2-001",
		AccountType: domain.Liability,
		Level:       1,
		IsParent:    false,
		IsActive:    true,
	}

	req := dto.CreateAccountRequest{
		Name:            "Supplier Payables",
		AccountType:     domain.Liability,
		ParentAccountID: &parentID,
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("ListChildren", ctx, parentID).Return([]domain.Account{}, nil).Once()
	suite.mockSequence.On("Next", ctx, "account:child:20", int64(0)).Return(int64(1), nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(saved domain.Account) bool {
		return saved.AccountID == parentID && saved.IsParent
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("2-001.1", account.Code)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ExplicitCodeMustBeFree() {
	ctx := context.Background()
	code := "1-001"
	req := dto.CreateAccountRequest{
		Name:        "Duplicate Cash",
		AccountType: domain.Asset,
		Code:        &code,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, code).
		Return(&domain.Account{AccountID: 10, Code: code}, nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Name:        "Bad",
		AccountType: domain.AccountType("Imaginary"),
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningBalanceSeedsCurrent() {
	ctx := context.Background()
	opening := decimal.NewFromInt(1000)
	req := dto.CreateAccountRequest{
		Name:           "Bank",
		AccountType:    domain.Asset,
		OpeningBalance: &opening,
	}

	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("repositories.AccountListFilter")).
		Return([]domain.Account{}, nil).Once()
	suite.mockSequence.On("Next", ctx, "account:root:1", int64(999)).Return(int64(1000), nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.True(account.OpeningBalance.Equal(opening))
	suite.True(account.CurrentBalance.Equal(opening))
}

// --- Tree ---

func (suite *AccountServiceTestSuite) TestGetAccountTree_NestsChildren() {
	ctx := context.Background()
	rootID := int64(1)
	childID := int64(2)
	accounts := []domain.Account{
		{AccountID: rootID, Code: "1000", Name: "Assets"},
		{AccountID: childID, Code: "1-001", Name: "Cash", ParentAccountID: &rootID},
		{AccountID: 3, Code: "1-001.1", Name: "Till", ParentAccountID: &childID},
		{AccountID: 4, Code: "2000", Name: "Liabilities"},
	}

	suite.mockRepo.On("ListAccounts", ctx, mock.AnythingOfType("repositories.AccountListFilter")).
		Return(accounts, nil).Once()

	tree, err := suite.service.GetAccountTree(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(tree, 2)
	suite.Equal("1000", tree[0].Code)
	suite.Require().Len(tree[0].Children, 1)
	suite.Equal("1-001", tree[0].Children[0].Code)
	suite.Require().Len(tree[0].Children[0].Children, 1)
	suite.Equal("1-001.1", tree[0].Children[0].Children[0].Code)
	suite.Empty(tree[1].Children)
}

// --- Deletion guards ---

func (suite *AccountServiceTestSuite) TestDeleteAccount_RejectsWhenChildrenExist() {
	ctx := context.Background()
	account := &domain.Account{AccountID: 10, Code: "1-001", IsParent: true}

	suite.mockRepo.On("FindAccountByID", ctx, int64(10)).Return(account, nil).Once()
	suite.mockRepo.On("CountChildren", ctx, int64(10)).Return(int64(2), nil).Once()

	err := suite.service.DeleteAccount(ctx, 10, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_RejectsWhenPosted() {
	ctx := context.Background()
	account := &domain.Account{AccountID: 11, Code: "4-001"}

	suite.mockRepo.On("FindAccountByID", ctx, int64(11)).Return(account, nil).Once()
	suite.mockRepo.On("CountChildren", ctx, int64(11)).Return(int64(0), nil).Once()
	suite.mockRepo.On("HasJournalLines", ctx, int64(11)).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, 11, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_LastChildUnflagsParent() {
	ctx := context.Background()
	parentID := int64(10)
	account := &domain.Account{AccountID: 12, Code: "1-001.1", ParentAccountID: &parentID}
	parent := &domain.Account{AccountID: parentID, Code: "1-001", IsParent: true}

	suite.mockRepo.On("FindAccountByID", ctx, int64(12)).Return(account, nil).Once()
	suite.mockRepo.On("CountChildren", ctx, int64(12)).Return(int64(0), nil).Once()
	suite.mockRepo.On("HasJournalLines", ctx, int64(12)).Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, int64(12)).Return(nil).Once()
	suite.mockRepo.On("CountChildren", ctx, parentID).Return(int64(0), nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(saved domain.Account) bool {
		return saved.AccountID == parentID && !saved.IsParent
	})).Return(nil).Once()

	suite.NoError(suite.service.DeleteAccount(ctx, 12, "user-1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Updates ---

func (suite *AccountServiceTestSuite) TestUpdateAccount_ChangesDescriptiveFieldsOnly() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:   13,
		Code:        "1-002",
		Name:        "Old Name",
		AccountType: domain.Asset,
		IsActive:    true,
	}

	name := "Receivables"
	active := false
	req := dto.UpdateAccountRequest{Name: &name, IsActive: &active}

	suite.mockRepo.On("FindAccountByID", ctx, int64(13)).Return(account, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(saved domain.Account) bool {
		return saved.Name == "Receivables" && !saved.IsActive && saved.Code == "1-002"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, 13, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("Receivables", updated.Name)
	suite.False(updated.IsActive)
	suite.WithinDuration(time.Now(), updated.LastUpdatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

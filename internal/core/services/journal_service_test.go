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
	"github.com/atlas-voyages/accounting-backend/internal/platform/config"
)

func testPostingAccounts() config.PostingAccounts {
	return config.PostingAccounts{
		Cash:               "1-001",
		Receivables:        "1-002",
		Payables:           "2-001",
		TaxPayable:         "2-003",
		SalesRevenue:       "4-001",
		ReservationRevenue: "4-002",
		TripRevenue:        "4-003",
		Purchases:          "5-001",
		FallbackRevenue:    "4-999",
		FallbackExpense:    "5-999",
	}
}

// testAccounts returns the accounts the posting mapping resolves to,
// keyed by code.
func testAccounts() map[string]*domain.Account {
	codes := map[string]struct {
		id  int64
		typ domain.AccountType
	}{
		"1-001": {101, domain.Asset},
		"1-002": {102, domain.Asset},
		"2-001": {201, domain.Liability},
		"2-003": {203, domain.Liability},
		"4-001": {401, domain.Revenue},
		"4-002": {402, domain.Revenue},
		"4-003": {403, domain.Revenue},
		"4-999": {499, domain.Revenue},
		"5-001": {501, domain.Expense},
		"5-999": {599, domain.Expense},
	}
	out := make(map[string]*domain.Account, len(codes))
	for code, c := range codes {
		out[code] = &domain.Account{
			AccountID:   c.id,
			Code:        code,
			AccountType: c.typ,
			IsActive:    true,
		}
	}
	return out
}

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockSequenceRepo *MockSequenceRepository
	service          portssvc.JournalSvcFacade
	accounts         map[string]*domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockSequenceRepo = new(MockSequenceRepository)
	suite.accounts = testAccounts()
	suite.service = services.NewJournalService(
		suite.mockJournalRepo,
		suite.mockAccountRepo,
		suite.mockSequenceRepo,
		stubAuditService{},
		testPostingAccounts(),
	)
}

func (suite *JournalServiceTestSuite) expectAccount(code string) {
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, code).Return(suite.accounts[code], nil)
}

func (suite *JournalServiceTestSuite) expectEntryNumber(n int64) {
	suite.mockSequenceRepo.On("Next", mock.Anything, "journal:entry", int64(0)).Return(n, nil).Once()
}

// --- Manual entries ---

func (suite *JournalServiceTestSuite) TestCreateManualEntry_Success() {
	ctx := context.Background()
	cash := suite.accounts["1-001"]
	revenue := suite.accounts["4-001"]

	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Opening sale",
		Lines: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.NewFromInt(150)},
			{AccountID: revenue.AccountID, CreditAmount: decimal.NewFromInt(150)},
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, cash.AccountID).Return(cash, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, revenue.AccountID).Return(revenue, nil).Once()
	suite.expectEntryNumber(1)
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.JournalEntry).JournalEntryID = 11
		}).Return(nil).Once()

	entry, err := suite.service.CreateManualEntry(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("JE-000001", entry.EntryNumber)
	suite.Equal(domain.Manual, entry.EntryType)
	suite.Empty(entry.ReferenceType)
	suite.True(entry.IsPosted)
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(1, entry.Lines[0].LineOrder)
	suite.Equal(2, entry.Lines[1].LineOrder)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(150)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(150)))

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateManualEntry_Unbalanced() {
	ctx := context.Background()
	cash := suite.accounts["1-001"]
	revenue := suite.accounts["4-001"]

	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Now(),
		Description: "Does not balance",
		Lines: []dto.JournalLineRequest{
			{AccountID: cash.AccountID, DebitAmount: decimal.NewFromInt(150)},
			{AccountID: revenue.AccountID, CreditAmount: decimal.NewFromInt(100)},
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, cash.AccountID).Return(cash, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, revenue.AccountID).Return(revenue, nil).Once()
	suite.expectEntryNumber(2)

	entry, err := suite.service.CreateManualEntry(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateManualEntry_LineWithBothSides() {
	ctx := context.Background()

	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Now(),
		Description: "Bad line",
		Lines: []dto.JournalLineRequest{
			{AccountID: 101, DebitAmount: decimal.NewFromInt(50), CreditAmount: decimal.NewFromInt(50)},
			{AccountID: 401, CreditAmount: decimal.NewFromInt(50)},
		},
	}

	entry, err := suite.service.CreateManualEntry(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrLineOneSided)
}

func (suite *JournalServiceTestSuite) TestCreateManualEntry_TooFewLines() {
	ctx := context.Background()

	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Now(),
		Description: "One leg",
		Lines: []dto.JournalLineRequest{
			{AccountID: 101, DebitAmount: decimal.NewFromInt(50)},
		},
	}

	entry, err := suite.service.CreateManualEntry(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrEntryMinLines)
}

// --- Posting rules ---

func (suite *JournalServiceTestSuite) TestPostSalesInvoice_WithTax() {
	ctx := context.Background()

	inv := domain.SalesInvoice{
		SalesInvoiceID: 77,
		InvoiceNumber:  "INV-2025-001",
		CustomerName:   "Nile Tours",
		InvoiceDate:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		SubTotal:       decimal.NewFromInt(1000),
		TaxAmount:      decimal.NewFromInt(140),
		TotalAmount:    decimal.NewFromInt(1140),
	}

	suite.expectAccount("1-002")
	suite.expectAccount("4-001")
	suite.expectAccount("2-003")
	suite.expectEntryNumber(5)

	var saved *domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.JournalEntry)
		}).Return(nil).Once()

	entry, err := suite.service.PostSalesInvoice(ctx, inv, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(saved, entry)
	suite.Equal(domain.Auto, entry.EntryType)
	suite.Equal(domain.RefSalesInvoice, entry.ReferenceType)
	suite.Require().NotNil(entry.ReferenceID)
	suite.Equal(int64(77), *entry.ReferenceID)

	suite.Require().Len(entry.Lines, 3)
	suite.Equal(suite.accounts["1-002"].AccountID, entry.Lines[0].AccountID)
	suite.True(entry.Lines[0].DebitAmount.Equal(decimal.NewFromInt(1140)))
	suite.Equal(suite.accounts["4-001"].AccountID, entry.Lines[1].AccountID)
	suite.True(entry.Lines[1].CreditAmount.Equal(decimal.NewFromInt(1000)))
	suite.Equal(suite.accounts["2-003"].AccountID, entry.Lines[2].AccountID)
	suite.True(entry.Lines[2].CreditAmount.Equal(decimal.NewFromInt(140)))

	suite.True(entry.TotalDebit.Equal(entry.TotalCredit))
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(1140)))
}

func (suite *JournalServiceTestSuite) TestPostPurchaseInvoice_NoTax() {
	ctx := context.Background()

	inv := domain.PurchaseInvoice{
		PurchaseInvoiceID: 31,
		InvoiceNumber:     "PUR-009",
		SupplierName:      "Desert Transport Co",
		InvoiceDate:       time.Now(),
		SubTotal:          decimal.NewFromInt(800),
		TaxAmount:         decimal.Zero,
		TotalAmount:       decimal.NewFromInt(800),
	}

	suite.expectAccount("5-001")
	suite.expectAccount("2-001")
	suite.expectEntryNumber(6)
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.PostPurchaseInvoice(ctx, inv, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(entry.Lines, 2)
	// Purchases hit the dedicated purchases account, not the catch-all expense.
	suite.Equal(suite.accounts["5-001"].AccountID, entry.Lines[0].AccountID)
	suite.True(entry.Lines[0].DebitAmount.Equal(decimal.NewFromInt(800)))
	suite.True(entry.Lines[1].CreditAmount.Equal(decimal.NewFromInt(800)))
	suite.True(entry.TotalDebit.Equal(entry.TotalCredit))
}

func (suite *JournalServiceTestSuite) TestPostCashTransaction_IncomeUsesCategoryAccount() {
	ctx := context.Background()

	visaRevenue := domain.Account{
		AccountID:   450,
		Code:        "4-010",
		Name:        "Visa",
		AccountType: domain.Revenue,
		IsActive:    true,
	}

	txn := domain.CashTransaction{
		TransactionID:   9,
		VoucherNumber:   "MAIN-000004",
		Type:            domain.TxnIncome,
		Amount:          decimal.NewFromInt(300),
		TransactionDate: time.Now(),
		Category:        "Visa",
		Description:     "Visa fee collected",
	}

	suite.expectAccount("1-001")
	suite.mockAccountRepo.On("ListAccounts", ctx, mock.AnythingOfType("repositories.AccountListFilter")).
		Return([]domain.Account{visaRevenue}, nil).Once()
	suite.expectEntryNumber(7)
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.PostCashTransaction(ctx, txn, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.RefCashTransaction, entry.ReferenceType)
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(suite.accounts["1-001"].AccountID, entry.Lines[0].AccountID)
	suite.True(entry.Lines[0].DebitAmount.Equal(decimal.NewFromInt(300)))
	suite.Equal(visaRevenue.AccountID, entry.Lines[1].AccountID)
	suite.True(entry.Lines[1].CreditAmount.Equal(decimal.NewFromInt(300)))
}

func (suite *JournalServiceTestSuite) TestPostCashTransaction_InstaPayExpenseCarriesCommission() {
	ctx := context.Background()

	commission := decimal.NewFromFloat(2.5)
	txn := domain.CashTransaction{
		TransactionID:      10,
		VoucherNumber:      "MAIN-000005",
		Type:               domain.TxnExpense,
		Amount:             decimal.NewFromInt(100),
		TransactionDate:    time.Now(),
		Category:           "Office",
		PaymentMethod:      domain.MethodInstaPay,
		InstaPayCommission: &commission,
	}

	suite.expectAccount("1-001")
	// No expense account named after the category; the catch-all takes it.
	suite.mockAccountRepo.On("ListAccounts", ctx, mock.AnythingOfType("repositories.AccountListFilter")).
		Return([]domain.Account{}, nil).Once()
	suite.expectAccount("5-999")
	suite.expectEntryNumber(8)
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.PostCashTransaction(ctx, txn, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(entry.Lines, 2)
	want := decimal.NewFromFloat(102.5)
	suite.Equal(suite.accounts["5-999"].AccountID, entry.Lines[0].AccountID)
	suite.True(entry.Lines[0].DebitAmount.Equal(want))
	suite.Equal(suite.accounts["1-001"].AccountID, entry.Lines[1].AccountID)
	suite.True(entry.Lines[1].CreditAmount.Equal(want))
	suite.True(entry.TotalDebit.Equal(entry.TotalCredit))
}

func (suite *JournalServiceTestSuite) TestPostReservation_BalancedRevenuePair() {
	ctx := context.Background()

	r := domain.Reservation{
		ReservationID:     21,
		ReservationNumber: "RES-000021",
		CustomerName:      "Mona Adel",
		ReservationDate:   time.Now(),
		SellingPrice:      decimal.NewFromInt(4500),
	}

	suite.expectAccount("1-001")
	suite.expectAccount("4-002")
	suite.expectEntryNumber(9)
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.PostReservation(ctx, r, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.RefReservation, entry.ReferenceType)
	suite.Require().Len(entry.Lines, 2)
	suite.True(entry.Lines[0].DebitAmount.Equal(decimal.NewFromInt(4500)))
	suite.True(entry.Lines[1].CreditAmount.Equal(decimal.NewFromInt(4500)))
}

func (suite *JournalServiceTestSuite) TestPostSalesInvoice_MissingPostingAccount() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, "1-002").
		Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.PostSalesInvoice(ctx, domain.SalesInvoice{
		SalesInvoiceID: 1,
		InvoiceNumber:  "INV-X",
		SubTotal:       decimal.NewFromInt(10),
		TotalAmount:    decimal.NewFromInt(10),
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
}

func (suite *JournalServiceTestSuite) TestValidateMappings_InactiveAccount() {
	ctx := context.Background()

	inactive := *suite.accounts["2-003"]
	inactive.IsActive = false

	for code, acc := range suite.accounts {
		if code == "2-003" {
			suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, code).Return(&inactive, nil)
			continue
		}
		suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, code).Return(acc, nil)
	}

	err := suite.service.ValidateMappings(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
	suite.Contains(err.Error(), "2-003")
}

func (suite *JournalServiceTestSuite) TestValidateMappings_AllResolve() {
	ctx := context.Background()

	for code, acc := range suite.accounts {
		suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, code).Return(acc, nil)
	}

	suite.NoError(suite.service.ValidateMappings(ctx))
}

func (suite *JournalServiceTestSuite) TestGetEntryByNumber() {
	ctx := context.Background()

	entry := &domain.JournalEntry{JournalEntryID: 42, EntryNumber: "JE-000042"}
	suite.mockJournalRepo.On("FindEntryByNumber", ctx, "JE-000042").Return(entry, nil).Once()

	found, err := suite.service.GetEntryByNumber(ctx, "JE-000042")

	suite.Require().NoError(err)
	suite.Equal(int64(42), found.JournalEntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_Success() {
	ctx := context.Background()

	entry := &domain.JournalEntry{JournalEntryID: 42, EntryNumber: "JE-000042"}
	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(42)).Return(entry, nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", ctx, int64(42)).Return(nil).Once()

	suite.NoError(suite.service.DeleteEntry(ctx, 42, "user-1"))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_NotFound() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(404)).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteEntry(ctx, 404, "user-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

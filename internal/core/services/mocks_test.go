package services_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountListFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListChildren(ctx context.Context, parentID int64) ([]domain.Account, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountChildren(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) HasJournalLines(ctx context.Context, accountID int64) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, journalEntryID int64) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, filter portsrepo.JournalListFilter) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccount(ctx context.Context, accountID int64, limit, offset int) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, journalEntryID int64) error {
	args := m.Called(ctx, journalEntryID)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntriesByReference(ctx context.Context, referenceType string, referenceID int64) error {
	args := m.Called(ctx, referenceType, referenceID)
	return args.Error(0)
}

// --- Mock CashBoxRepository ---

type MockCashBoxRepository struct {
	mock.Mock
}

var _ portsrepo.CashBoxRepositoryFacade = (*MockCashBoxRepository)(nil)

func (m *MockCashBoxRepository) FindCashBoxByID(ctx context.Context, cashBoxID int64) (*domain.CashBox, error) {
	args := m.Called(ctx, cashBoxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBox), args.Error(1)
}

func (m *MockCashBoxRepository) FindCashBoxByCode(ctx context.Context, code string) (*domain.CashBox, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBox), args.Error(1)
}

func (m *MockCashBoxRepository) ListCashBoxes(ctx context.Context, activeOnly bool) ([]domain.CashBox, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashBox), args.Error(1)
}

func (m *MockCashBoxRepository) SaveCashBox(ctx context.Context, box *domain.CashBox) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func (m *MockCashBoxRepository) UpdateCashBox(ctx context.Context, box domain.CashBox) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func (m *MockCashBoxRepository) DeleteCashBox(ctx context.Context, cashBoxID int64) error {
	args := m.Called(ctx, cashBoxID)
	return args.Error(0)
}

func (m *MockCashBoxRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.CashTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashTransaction), args.Error(1)
}

func (m *MockCashBoxRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter) ([]domain.CashTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashTransaction), args.Error(1)
}

func (m *MockCashBoxRepository) SaveTransactionWithBalance(ctx context.Context, txn *domain.CashTransaction, newBalance decimal.Decimal, expectedVersion int64) error {
	args := m.Called(ctx, txn, newBalance, expectedVersion)
	return args.Error(0)
}

func (m *MockCashBoxRepository) UpdateTransactionWithBalance(ctx context.Context, txn domain.CashTransaction, newBalance decimal.Decimal, expectedVersion int64) error {
	args := m.Called(ctx, txn, newBalance, expectedVersion)
	return args.Error(0)
}

func (m *MockCashBoxRepository) SoftDeleteTransactionWithBalance(ctx context.Context, transactionID, cashBoxID int64, newBalance decimal.Decimal, expectedVersion int64, deletedBy string) error {
	args := m.Called(ctx, transactionID, cashBoxID, newBalance, expectedVersion, deletedBy)
	return args.Error(0)
}

func (m *MockCashBoxRepository) UpdatePostingStatus(ctx context.Context, transactionID int64, status domain.PostingStatus) error {
	args := m.Called(ctx, transactionID, status)
	return args.Error(0)
}

// --- Mock ReservationRepository ---

type MockReservationRepository struct {
	mock.Mock
}

var _ portsrepo.ReservationRepositoryFacade = (*MockReservationRepository)(nil)

func (m *MockReservationRepository) SaveReservation(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) FindReservationByID(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListReservations(ctx context.Context, filter portsrepo.BookingListFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteReservation(ctx context.Context, reservationID int64) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

// --- Mock TripBookingRepository ---

type MockTripBookingRepository struct {
	mock.Mock
}

var _ portsrepo.TripBookingRepositoryFacade = (*MockTripBookingRepository)(nil)

func (m *MockTripBookingRepository) SaveTripBooking(ctx context.Context, b *domain.TripBooking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockTripBookingRepository) FindTripBookingByID(ctx context.Context, tripBookingID int64) (*domain.TripBooking, error) {
	args := m.Called(ctx, tripBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripBooking), args.Error(1)
}

func (m *MockTripBookingRepository) ListTripBookings(ctx context.Context, filter portsrepo.BookingListFilter) ([]domain.TripBooking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripBooking), args.Error(1)
}

func (m *MockTripBookingRepository) UpdateTripBooking(ctx context.Context, b domain.TripBooking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockTripBookingRepository) DeleteTripBooking(ctx context.Context, tripBookingID int64) error {
	args := m.Called(ctx, tripBookingID)
	return args.Error(0)
}

// --- Mock SequenceRepository ---

type MockSequenceRepository struct {
	mock.Mock
}

var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) Next(ctx context.Context, scope string, seed int64) (int64, error) {
	args := m.Called(ctx, scope, seed)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock JournalPoster ---

type MockJournalPoster struct {
	mock.Mock
}

var _ portssvc.JournalPosterSvc = (*MockJournalPoster)(nil)

func (m *MockJournalPoster) PostCashTransaction(ctx context.Context, txn domain.CashTransaction, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, txn, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalPoster) PostSalesInvoice(ctx context.Context, inv domain.SalesInvoice, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, inv, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalPoster) PostPurchaseInvoice(ctx context.Context, inv domain.PurchaseInvoice, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, inv, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalPoster) PostReservation(ctx context.Context, r domain.Reservation, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, r, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalPoster) PostTripBooking(ctx context.Context, b domain.TripBooking, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, b, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalPoster) UnpostReference(ctx context.Context, referenceType string, referenceID int64) error {
	args := m.Called(ctx, referenceType, referenceID)
	return args.Error(0)
}

func (m *MockJournalPoster) ValidateMappings(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Mock CashBoxService (used by the booking orchestrators) ---

type MockCashBoxService struct {
	mock.Mock
}

var _ portssvc.CashBoxSvcFacade = (*MockCashBoxService)(nil)

func (m *MockCashBoxService) GetCashBoxByID(ctx context.Context, cashBoxID int64) (*domain.CashBox, error) {
	args := m.Called(ctx, cashBoxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBox), args.Error(1)
}

func (m *MockCashBoxService) ListCashBoxes(ctx context.Context, activeOnly bool) ([]domain.CashBox, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashBox), args.Error(1)
}

func (m *MockCashBoxService) GetTransactionByID(ctx context.Context, transactionID int64) (*domain.CashTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashTransaction), args.Error(1)
}

func (m *MockCashBoxService) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter) ([]domain.CashTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashTransaction), args.Error(1)
}

func (m *MockCashBoxService) MonthlyReport(ctx context.Context, cashBoxID int64, month, year int) (*domain.MonthlyReport, error) {
	args := m.Called(ctx, cashBoxID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyReport), args.Error(1)
}

func (m *MockCashBoxService) CreateCashBox(ctx context.Context, req dto.CreateCashBoxRequest, userID string) (*domain.CashBox, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBox), args.Error(1)
}

func (m *MockCashBoxService) UpdateCashBox(ctx context.Context, cashBoxID int64, req dto.UpdateCashBoxRequest, userID string) (*domain.CashBox, error) {
	args := m.Called(ctx, cashBoxID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBox), args.Error(1)
}

func (m *MockCashBoxService) DeleteCashBox(ctx context.Context, cashBoxID int64, userID string) error {
	args := m.Called(ctx, cashBoxID, userID)
	return args.Error(0)
}

func (m *MockCashBoxService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.CashTransaction, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashTransaction), args.Error(1)
}

func (m *MockCashBoxService) UpdateTransaction(ctx context.Context, transactionID int64, req dto.UpdateTransactionRequest, userID string) (*domain.CashTransaction, error) {
	args := m.Called(ctx, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashTransaction), args.Error(1)
}

func (m *MockCashBoxService) DeleteTransaction(ctx context.Context, transactionID int64, userID string) error {
	args := m.Called(ctx, transactionID, userID)
	return args.Error(0)
}

func (m *MockCashBoxService) RetryPosting(ctx context.Context, transactionID int64) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock TaskEnqueuer ---

type MockTaskEnqueuer struct {
	mock.Mock
}

var _ portssvc.TaskEnqueuer = (*MockTaskEnqueuer)(nil)

func (m *MockTaskEnqueuer) EnqueuePostCashTransaction(ctx context.Context, transactionID int64) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// stubAuditService swallows audit writes. Record is fire-and-forget in the
// services, so the tests do not assert on it.
type stubAuditService struct{}

var _ portssvc.AuditSvcFacade = (*stubAuditService)(nil)

func (stubAuditService) Record(ctx context.Context, userID, action, entityType string, entityID int64, details string) {
}

func (stubAuditService) ListByEntity(ctx context.Context, entityType string, entityID int64, limit, offset int) ([]domain.AuditLog, error) {
	return nil, nil
}

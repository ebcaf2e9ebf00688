package services

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its lines.
	GetEntryByID(ctx context.Context, journalEntryID int64) (*domain.JournalEntry, error)

	// GetEntryByNumber retrieves a journal entry by its entry number, e.g. "JE-000042".
	GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries retrieves journal entries matching the filter, newest first.
	ListEntries(ctx context.Context, filter repositories.JournalListFilter) ([]domain.JournalEntry, error)

	// ListAccountLedger retrieves the journal lines posted against an account, newest first.
	ListAccountLedger(ctx context.Context, accountID int64, limit, offset int) ([]domain.JournalEntryLine, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateManualEntry validates and persists a balanced manual journal entry.
	CreateManualEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes an entry and its lines.
	DeleteEntry(ctx context.Context, journalEntryID int64, userID string) error
}

// JournalPosterSvc generates journal entries from business documents.
// Each method builds a balanced entry from the configured posting account
// mapping and persists it atomically.
type JournalPosterSvc interface {
	// PostCashTransaction posts a cash income or expense to the general ledger.
	PostCashTransaction(ctx context.Context, txn domain.CashTransaction, userID string) (*domain.JournalEntry, error)

	// PostSalesInvoice posts a sales invoice: receivables against revenue and tax payable.
	PostSalesInvoice(ctx context.Context, inv domain.SalesInvoice, userID string) (*domain.JournalEntry, error)

	// PostPurchaseInvoice posts a purchase invoice: expense and tax against payables.
	PostPurchaseInvoice(ctx context.Context, inv domain.PurchaseInvoice, userID string) (*domain.JournalEntry, error)

	// PostReservation posts reservation revenue recognition on confirmation.
	PostReservation(ctx context.Context, r domain.Reservation, userID string) (*domain.JournalEntry, error)

	// PostTripBooking posts trip booking revenue recognition on confirmation.
	PostTripBooking(ctx context.Context, b domain.TripBooking, userID string) (*domain.JournalEntry, error)

	// UnpostReference deletes the entries generated for a source document.
	UnpostReference(ctx context.Context, referenceType string, referenceID int64) error

	// ValidateMappings checks that every configured posting account exists
	// and is active. Called at startup.
	ValidateMappings(ctx context.Context) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalPosterSvc
}

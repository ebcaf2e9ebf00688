package repositories

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionListFilter narrows ListTransactions results. Nil fields mean "no filter".
type TransactionListFilter struct {
	CashBoxID *int64
	Type      *domain.TransactionType
	Category  *string
	Month     *int
	Year      *int
	Limit     int
	Offset    int
}

// CashBoxReader defines read operations for cash boxes
type CashBoxReader interface {
	// FindCashBoxByID retrieves a cash box by its unique identifier.
	FindCashBoxByID(ctx context.Context, cashBoxID int64) (*domain.CashBox, error)

	// FindCashBoxByCode retrieves a cash box by its unique code.
	FindCashBoxByCode(ctx context.Context, code string) (*domain.CashBox, error)

	// ListCashBoxes retrieves all non-deleted cash boxes, ordered by code.
	ListCashBoxes(ctx context.Context, activeOnly bool) ([]domain.CashBox, error)
}

// CashBoxWriter defines write operations for cash boxes
type CashBoxWriter interface {
	// SaveCashBox persists a new cash box and fills in its generated ID.
	SaveCashBox(ctx context.Context, box *domain.CashBox) error

	// UpdateCashBox updates a cash box's descriptive fields. Balance and
	// version are never touched here.
	UpdateCashBox(ctx context.Context, box domain.CashBox) error

	// DeleteCashBox removes a cash box and its transactions permanently.
	DeleteCashBox(ctx context.Context, cashBoxID int64) error
}

// CashTransactionReader defines read operations for cash transactions
type CashTransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier.
	// Soft-deleted transactions are not returned.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.CashTransaction, error)

	// ListTransactions retrieves non-deleted transactions matching the filter, newest first.
	ListTransactions(ctx context.Context, filter TransactionListFilter) ([]domain.CashTransaction, error)
}

// CashTransactionWriter defines write operations for cash transactions.
// Every write that moves a balance is guarded by the cash box version:
// the update matches the expected version and increments it, and the
// implementation returns apperrors.ErrConcurrencyConflict when no row
// matched.
type CashTransactionWriter interface {
	// SaveTransactionWithBalance persists a transaction and moves the cash box
	// balance to newBalance in one database transaction.
	SaveTransactionWithBalance(ctx context.Context, txn *domain.CashTransaction, newBalance decimal.Decimal, expectedVersion int64) error

	// UpdateTransactionWithBalance rewrites a transaction's stored fields and
	// moves the cash box balance to newBalance in one database transaction.
	UpdateTransactionWithBalance(ctx context.Context, txn domain.CashTransaction, newBalance decimal.Decimal, expectedVersion int64) error

	// SoftDeleteTransactionWithBalance marks a transaction deleted and moves
	// the cash box balance to newBalance in one database transaction.
	SoftDeleteTransactionWithBalance(ctx context.Context, transactionID, cashBoxID int64, newBalance decimal.Decimal, expectedVersion int64, deletedBy string) error

	// UpdatePostingStatus records the journal posting outcome of a transaction.
	UpdatePostingStatus(ctx context.Context, transactionID int64, status domain.PostingStatus) error
}

// CashBoxRepositoryFacade combines all cash box repository interfaces
type CashBoxRepositoryFacade interface {
	CashBoxReader
	CashBoxWriter
	CashTransactionReader
	CashTransactionWriter
}

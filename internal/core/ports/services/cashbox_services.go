package services

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

// CashBoxReaderSvc defines read operations for cash boxes and their transactions
type CashBoxReaderSvc interface {
	// GetCashBoxByID retrieves a cash box by its unique identifier.
	GetCashBoxByID(ctx context.Context, cashBoxID int64) (*domain.CashBox, error)

	// ListCashBoxes retrieves all non-deleted cash boxes.
	ListCashBoxes(ctx context.Context, activeOnly bool) ([]domain.CashBox, error)

	// GetTransactionByID retrieves a non-deleted cash transaction.
	GetTransactionByID(ctx context.Context, transactionID int64) (*domain.CashTransaction, error)

	// ListTransactions retrieves non-deleted transactions matching the filter, newest first.
	ListTransactions(ctx context.Context, filter repositories.TransactionListFilter) ([]domain.CashTransaction, error)

	// MonthlyReport aggregates a cash box's activity for one calendar month.
	MonthlyReport(ctx context.Context, cashBoxID int64, month, year int) (*domain.MonthlyReport, error)
}

// CashBoxWriterSvc defines write operations for cash boxes and their transactions
type CashBoxWriterSvc interface {
	// CreateCashBox persists a new cash box with its opening balance.
	CreateCashBox(ctx context.Context, req dto.CreateCashBoxRequest, userID string) (*domain.CashBox, error)

	// UpdateCashBox updates a cash box's descriptive fields.
	UpdateCashBox(ctx context.Context, cashBoxID int64, req dto.UpdateCashBoxRequest, userID string) (*domain.CashBox, error)

	// DeleteCashBox removes a cash box and all its transactions.
	DeleteCashBox(ctx context.Context, cashBoxID int64, userID string) error

	// CreateTransaction records a cash movement, updating the box balance
	// and best-effort posting it to the general ledger.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.CashTransaction, error)

	// UpdateTransaction rewrites a transaction by reversing its old balance
	// effect and applying the new one.
	UpdateTransaction(ctx context.Context, transactionID int64, req dto.UpdateTransactionRequest, userID string) (*domain.CashTransaction, error)

	// DeleteTransaction soft-deletes a transaction and reverses its balance effect.
	DeleteTransaction(ctx context.Context, transactionID int64, userID string) error

	// RetryPosting re-attempts the ledger posting of a pending or failed
	// transaction. Used by the background worker.
	RetryPosting(ctx context.Context, transactionID int64) error
}

// CashBoxSvcFacade combines all cash box service interfaces
type CashBoxSvcFacade interface {
	CashBoxReaderSvc
	CashBoxWriterSvc
}

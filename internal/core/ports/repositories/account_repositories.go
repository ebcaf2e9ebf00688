package repositories

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
)

// AccountListFilter narrows ListAccounts results. Zero values mean "no filter".
type AccountListFilter struct {
	AccountType *domain.AccountType
	ParentID    *int64
	ActiveOnly  bool
	Search      string
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique account code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts matching the filter, ordered by code.
	ListAccounts(ctx context.Context, filter AccountListFilter) ([]domain.Account, error)

	// ListChildren retrieves the direct children of an account, ordered by code.
	ListChildren(ctx context.Context, parentID int64) ([]domain.Account, error)

	// CountChildren returns the number of direct children of an account.
	CountChildren(ctx context.Context, accountID int64) (int64, error)

	// HasJournalLines reports whether any journal entry line references the account.
	HasJournalLines(ctx context.Context, accountID int64) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and fills in its generated ID.
	SaveAccount(ctx context.Context, account *domain.Account) error

	// UpdateAccount updates an existing account's mutable fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account permanently.
	DeleteAccount(ctx context.Context, accountID int64) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

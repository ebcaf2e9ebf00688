package services

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its account code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts matching the request filters, ordered by code.
	ListAccounts(ctx context.Context, req dto.ListAccountsRequest) ([]domain.Account, error)

	// GetAccountTree returns the chart of accounts as a tree rooted at the
	// five top-level accounts.
	GetAccountTree(ctx context.Context) ([]domain.AccountNode, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account, generating its code from the
	// account type and parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details. Code, type and
	// parent are immutable.
	UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account that has no children and no postings.
	DeleteAccount(ctx context.Context, accountID int64, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

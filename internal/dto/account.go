package dto

import (
	"time"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// The account code is generated server-side from the type and parent.
type CreateAccountRequest struct {
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=Asset Liability Equity Revenue Expense"`
	Code            *string            `json:"code"`            // Optional, generated when omitted
	ParentAccountID *int64             `json:"parentAccountID"` // Optional, use pointer for nullability
	OpeningBalance  *decimal.Decimal   `json:"openingBalance"`  // Optional, defaults to zero
	Notes           string             `json:"notes"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType string `form:"type"`
	ParentID    *int64 `form:"parentID"`
	RootsOnly   bool   `form:"rootsOnly"`
	ActiveOnly  bool   `form:"activeOnly"`
	Search      string `form:"search"`
}

// ListAccountsRequest is the service-level listing request.
type ListAccountsRequest struct {
	AccountType *domain.AccountType
	ParentID    *int64
	RootsOnly   bool
	ActiveOnly  bool
	Search      string
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID       int64              `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID *int64             `json:"parentAccountID"`
	Level           int                `json:"level"`
	IsParent        bool               `json:"isParent"`
	IsActive        bool               `json:"isActive"`
	Notes           string             `json:"notes"`
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
	CurrentBalance  decimal.Decimal    `json:"currentBalance"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// AccountNodeResponse is an account with its children, for the tree view.
type AccountNodeResponse struct {
	AccountResponse
	Children []AccountNodeResponse `json:"children"`
}

// AccountBalanceResponse defines the data returned for a balance query.
type AccountBalanceResponse struct {
	AccountID int64           `json:"accountID"`
	Code      string          `json:"code"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Level:           acc.Level,
		IsParent:        acc.IsParent,
		IsActive:        acc.IsActive,
		Notes:           acc.Notes,
		OpeningBalance:  acc.OpeningBalance,
		CurrentBalance:  acc.CurrentBalance,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ToAccountNodeResponse converts a domain tree node recursively.
func ToAccountNodeResponse(node domain.AccountNode) AccountNodeResponse {
	res := AccountNodeResponse{
		AccountResponse: ToAccountResponse(&node.Account),
		Children:        make([]AccountNodeResponse, len(node.Children)),
	}
	for i, child := range node.Children {
		res.Children[i] = ToAccountNodeResponse(child)
	}
	return res
}

// ToAccountTreeResponse converts the root nodes of the chart of accounts.
func ToAccountTreeResponse(nodes []domain.AccountNode) []AccountNodeResponse {
	res := make([]AccountNodeResponse, len(nodes))
	for i, node := range nodes {
		res[i] = ToAccountNodeResponse(node)
	}
	return res
}

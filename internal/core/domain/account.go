package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "Asset"
	Liability AccountType = "Liability"
	Equity    AccountType = "Equity"
	Revenue   AccountType = "Revenue"
	Expense   AccountType = "Expense"
)

// IsValid reports whether the type is one of the five known types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// CodePrefix returns the single-digit root-code prefix for the type
// (Asset=1, Liability=2, Equity=3, Revenue=4, Expense=5, anything else=9).
func (t AccountType) CodePrefix() int {
	switch t {
	case Asset:
		return 1
	case Liability:
		return 2
	case Equity:
		return 3
	case Revenue:
		return 4
	case Expense:
		return 5
	default:
		return 9
	}
}

// Account is a node in the chart-of-accounts tree.
// Type, code and tree position are immutable after creation; only
// descriptive fields (name, notes, active flag) may change.
type Account struct {
	AccountID       int64           `json:"accountID"`
	Code            string          `json:"code"` // dot-segmented for children, e.g. "1-001.1"
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID *int64          `json:"parentAccountID"` // nil for root accounts
	Level           int             `json:"level"`           // 1 for roots, parent.Level+1 otherwise
	IsParent        bool            `json:"isParent"`        // true iff the account has children
	IsActive        bool            `json:"isActive"`
	Notes           string          `json:"notes"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"` // display cache, not authoritative for cash boxes
	AuditFields
}

// AccountNode is an account together with its children, used when the
// chart of accounts is rendered as a tree.
type AccountNode struct {
	Account
	Children []AccountNode `json:"children"`
}

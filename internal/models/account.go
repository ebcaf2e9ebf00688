package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for storage.
type AccountType string

// Account is the accounts table row.
type Account struct {
	AccountID       int64           `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	ParentAccountID *int64          `db:"parent_account_id"` // NULL for roots
	Level           int             `db:"level"`
	IsParent        bool            `db:"is_parent"`
	IsActive        bool            `db:"is_active"`
	Notes           string          `db:"notes"`
	OpeningBalance  decimal.Decimal `db:"opening_balance"`
	CurrentBalance  decimal.Decimal `db:"current_balance"`
	AuditFields
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashBox is the cash_boxes table row. Version is the optimistic
// concurrency token compared on every balance write.
type CashBox struct {
	CashBoxID      int64           `db:"cash_box_id"`
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	BoxType        string          `db:"box_type"`
	Currency       string          `db:"currency"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	IsDeleted      bool            `db:"is_deleted"`
	Version        int64           `db:"version"`
	Notes          string          `db:"notes"`
	AuditFields
}

// CashTransaction is the cash_transactions table row.
type CashTransaction struct {
	TransactionID      int64            `db:"transaction_id"`
	VoucherNumber      string           `db:"voucher_number"`
	CashBoxID          int64            `db:"cash_box_id"`
	Type               string           `db:"type"`
	Amount             decimal.Decimal  `db:"amount"`
	Currency           string           `db:"currency"`
	ExchangeRate       *decimal.Decimal `db:"exchange_rate"`
	OriginalAmount     *decimal.Decimal `db:"original_amount"`
	TransactionDate    time.Time        `db:"transaction_date"`
	Month              int              `db:"month"`
	Year               int              `db:"year"`
	Category           string           `db:"category"`
	Description        string           `db:"description"`
	PartyName          string           `db:"party_name"`
	PaymentMethod      string           `db:"payment_method"`
	InstaPayCommission *decimal.Decimal `db:"instapay_commission"`
	ReferenceNumber    string           `db:"reference_number"`
	Notes              string           `db:"notes"`
	BalanceBefore      decimal.Decimal  `db:"balance_before"`
	BalanceAfter       decimal.Decimal  `db:"balance_after"`
	IsDeleted          bool             `db:"is_deleted"`
	ReservationID      *int64           `db:"reservation_id"`
	PostingStatus      string           `db:"posting_status"`
	AuditFields
}

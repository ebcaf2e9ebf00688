package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashBoxType distinguishes a physical till from a bank-like account.
type CashBoxType string

const (
	BoxCash CashBoxType = "CashBox"
	BoxBank CashBoxType = "BankAccount"
)

// CashBox owns an authoritative running balance. The balance is only ever
// mutated through the cash ledger operations, guarded by the Version token.
type CashBox struct {
	CashBoxID      int64           `json:"cashBoxID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	BoxType        CashBoxType     `json:"boxType"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	IsDeleted      bool            `json:"isDeleted"`
	Version        int64           `json:"version"` // optimistic concurrency token
	Notes          string          `json:"notes"`
	AuditFields
}

// TransactionType indicates the direction of a cash movement.
type TransactionType string

const (
	TxnIncome  TransactionType = "Income"
	TxnExpense TransactionType = "Expense"
)

// PaymentMethod is how the money moved.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodCheque       PaymentMethod = "Cheque"
	MethodBankTransfer PaymentMethod = "BankTransfer"
	MethodCreditCard   PaymentMethod = "CreditCard"
	MethodInstaPay     PaymentMethod = "InstaPay"
	MethodOther        PaymentMethod = "Other"
)

// PostingStatus tracks whether the mirroring journal entry has been written.
// Pending/Failed transactions are retried by the posting worker.
type PostingStatus string

const (
	PostingPosted  PostingStatus = "Posted"
	PostingPending PostingStatus = "Pending"
	PostingFailed  PostingStatus = "Failed"
)

// CashTransaction is one money movement against exactly one CashBox.
type CashTransaction struct {
	TransactionID      int64            `json:"transactionID"`
	VoucherNumber      string           `json:"voucherNumber"`
	CashBoxID          int64            `json:"cashBoxID"`
	Type               TransactionType  `json:"type"`
	Amount             decimal.Decimal  `json:"amount"`
	Currency           string           `json:"currency"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate"`   // rate used at transaction time, if foreign
	OriginalAmount     *decimal.Decimal `json:"originalAmount"` // amount in the foreign currency, if any
	TransactionDate    time.Time        `json:"transactionDate"`
	Month              int              `json:"month"` // derived from TransactionDate
	Year               int              `json:"year"`
	Category           string           `json:"category"`
	Description        string           `json:"description"`
	PartyName          string           `json:"partyName"`
	PaymentMethod      PaymentMethod    `json:"paymentMethod"`
	InstaPayCommission *decimal.Decimal `json:"instaPayCommission"`
	ReferenceNumber    string           `json:"referenceNumber"`
	Notes              string           `json:"notes"`
	BalanceBefore      decimal.Decimal  `json:"balanceBefore"`
	BalanceAfter       decimal.Decimal  `json:"balanceAfter"`
	IsDeleted          bool             `json:"isDeleted"`
	ReservationID      *int64           `json:"reservationID"`
	PostingStatus      PostingStatus    `json:"postingStatus"`
	AuditFields
}

// EffectiveAmount is the amount the transaction actually moves on the box:
// an InstaPay expense deducts the commission on top of the face amount.
func (t CashTransaction) EffectiveAmount() decimal.Decimal {
	if t.Type == TxnExpense && t.PaymentMethod == MethodInstaPay && t.InstaPayCommission != nil {
		return t.Amount.Add(*t.InstaPayCommission)
	}
	return t.Amount
}

// SignedEffect is EffectiveAmount with the sign the transaction applies to
// the box balance: positive for income, negative for expense.
func (t CashTransaction) SignedEffect() decimal.Decimal {
	if t.Type == TxnIncome {
		return t.Amount
	}
	return t.EffectiveAmount().Neg()
}

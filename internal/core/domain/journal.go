package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates how a journal entry came to exist.
type EntryType string

const (
	Manual EntryType = "Manual"
	Auto   EntryType = "Auto"
)

// Reference types used by the automatic posting rules.
const (
	RefSalesInvoice    = "SalesInvoice"
	RefPurchaseInvoice = "PurchaseInvoice"
	RefCashTransaction = "CashTransaction"
	RefReservation     = "Reservation"
	RefTripBooking     = "TripBooking"
)

// JournalEntry is one atomic, balanced accounting event. The entry and its
// lines are always written in the same database transaction, so a partial
// entry is never observable.
type JournalEntry struct {
	JournalEntryID int64           `json:"journalEntryID"`
	EntryNumber    string          `json:"entryNumber"` // sequential, "JE-NNNNNN"
	EntryDate      time.Time       `json:"entryDate"`
	EntryType      EntryType       `json:"entryType"`
	ReferenceType  string          `json:"referenceType"` // empty for manual entries
	ReferenceID    *int64          `json:"referenceID"`
	Description    string          `json:"description"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	IsPosted       bool            `json:"isPosted"`
	PostedAt       *time.Time      `json:"postedAt"`
	Lines          []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine affects exactly one account; exactly one of DebitAmount
// and CreditAmount is non-zero.
type JournalEntryLine struct {
	LineID         int64           `json:"lineID"`
	JournalEntryID int64           `json:"journalEntryID"`
	AccountID      int64           `json:"accountID"`
	Description    string          `json:"description"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	LineOrder      int             `json:"lineOrder"`
}

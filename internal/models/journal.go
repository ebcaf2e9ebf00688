package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType mirrors domain.EntryType for storage.
type EntryType string

// JournalEntry is the journal_entries table row. Lines live in
// journal_entry_lines and are always written in the same transaction.
type JournalEntry struct {
	JournalEntryID int64           `db:"journal_entry_id"`
	EntryNumber    string          `db:"entry_number"`
	EntryDate      time.Time       `db:"entry_date"`
	EntryType      EntryType       `db:"entry_type"`
	ReferenceType  string          `db:"reference_type"`
	ReferenceID    *int64          `db:"reference_id"`
	Description    string          `db:"description"`
	TotalDebit     decimal.Decimal `db:"total_debit"`
	TotalCredit    decimal.Decimal `db:"total_credit"`
	IsPosted       bool            `db:"is_posted"`
	PostedAt       *time.Time      `db:"posted_at"`
	AuditFields
}

// JournalEntryLine is the journal_entry_lines table row.
type JournalEntryLine struct {
	LineID         int64           `db:"line_id"`
	JournalEntryID int64           `db:"journal_entry_id"`
	AccountID      int64           `db:"account_id"`
	Description    string          `db:"description"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	LineOrder      int             `db:"line_order"`
}

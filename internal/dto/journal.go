package dto

import (
	"time"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a manual journal entry. Exactly one
// of debitAmount and creditAmount must be positive, the other zero.
type JournalLineRequest struct {
	AccountID    int64           `json:"accountID" binding:"required"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// CreateJournalEntryRequest defines the data needed for a manual journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	ReferenceType string     `form:"referenceType"`
	ReferenceID   *int64     `form:"referenceID"`
	EntryType     string     `form:"entryType"`
	DateFrom      *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Limit         int        `form:"limit,default=50"`
	Offset        int        `form:"offset,default=0"`
}

// SalesInvoiceRequest carries an externally managed sales invoice into the
// posting rules.
type SalesInvoiceRequest struct {
	SalesInvoiceID int64           `json:"salesInvoiceID" binding:"required"`
	InvoiceNumber  string          `json:"invoiceNumber" binding:"required"`
	CustomerName   string          `json:"customerName" binding:"required"`
	InvoiceDate    time.Time       `json:"invoiceDate" binding:"required"`
	SubTotal       decimal.Decimal `json:"subTotal" binding:"required"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount" binding:"required"`
}

// PurchaseInvoiceRequest carries an externally managed purchase invoice
// into the posting rules.
type PurchaseInvoiceRequest struct {
	PurchaseInvoiceID int64           `json:"purchaseInvoiceID" binding:"required"`
	InvoiceNumber     string          `json:"invoiceNumber" binding:"required"`
	SupplierName      string          `json:"supplierName" binding:"required"`
	InvoiceDate       time.Time       `json:"invoiceDate" binding:"required"`
	SubTotal          decimal.Decimal `json:"subTotal" binding:"required"`
	TaxAmount         decimal.Decimal `json:"taxAmount"`
	TotalAmount       decimal.Decimal `json:"totalAmount" binding:"required"`
}

// JournalLineResponse defines the data returned for one entry line.
type JournalLineResponse struct {
	LineID       int64           `json:"lineID"`
	AccountID    int64           `json:"accountID"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineOrder    int             `json:"lineOrder"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalEntryID int64                 `json:"journalEntryID"`
	EntryNumber    string                `json:"entryNumber"`
	EntryDate      time.Time             `json:"entryDate"`
	EntryType      domain.EntryType      `json:"entryType"`
	ReferenceType  string                `json:"referenceType,omitempty"`
	ReferenceID    *int64                `json:"referenceID,omitempty"`
	Description    string                `json:"description"`
	TotalDebit     decimal.Decimal       `json:"totalDebit"`
	TotalCredit    decimal.Decimal       `json:"totalCredit"`
	IsPosted       bool                  `json:"isPosted"`
	PostedAt       *time.Time            `json:"postedAt,omitempty"`
	Lines          []JournalLineResponse `json:"lines"`
	CreatedAt      time.Time             `json:"createdAt"`
	CreatedBy      string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			LineOrder:    l.LineOrder,
		}
	}
	return JournalEntryResponse{
		JournalEntryID: e.JournalEntryID,
		EntryNumber:    e.EntryNumber,
		EntryDate:      e.EntryDate,
		EntryType:      e.EntryType,
		ReferenceType:  e.ReferenceType,
		ReferenceID:    e.ReferenceID,
		Description:    e.Description,
		TotalDebit:     e.TotalDebit,
		TotalCredit:    e.TotalCredit,
		IsPosted:       e.IsPosted,
		PostedAt:       e.PostedAt,
		Lines:          lines,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// ToListJournalEntryResponse converts a slice of entries.
func ToListJournalEntryResponse(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}

// ToSalesInvoice converts the request into its domain form.
func (r SalesInvoiceRequest) ToSalesInvoice() domain.SalesInvoice {
	return domain.SalesInvoice{
		SalesInvoiceID: r.SalesInvoiceID,
		InvoiceNumber:  r.InvoiceNumber,
		CustomerName:   r.CustomerName,
		InvoiceDate:    r.InvoiceDate,
		SubTotal:       r.SubTotal,
		TaxAmount:      r.TaxAmount,
		TotalAmount:    r.TotalAmount,
	}
}

// ToPurchaseInvoice converts the request into its domain form.
func (r PurchaseInvoiceRequest) ToPurchaseInvoice() domain.PurchaseInvoice {
	return domain.PurchaseInvoice{
		PurchaseInvoiceID: r.PurchaseInvoiceID,
		InvoiceNumber:     r.InvoiceNumber,
		SupplierName:      r.SupplierName,
		InvoiceDate:       r.InvoiceDate,
		SubTotal:          r.SubTotal,
		TaxAmount:         r.TaxAmount,
		TotalAmount:       r.TotalAmount,
	}
}

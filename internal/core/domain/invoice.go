package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesInvoice carries the fields the posting rules need from a sales
// invoice. Invoice CRUD lives outside this core; callers hand the posting
// engine a snapshot.
type SalesInvoice struct {
	SalesInvoiceID int64           `json:"salesInvoiceID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	CustomerName   string          `json:"customerName"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	SubTotal       decimal.Decimal `json:"subTotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// PurchaseInvoice is the supplier-side mirror of SalesInvoice.
type PurchaseInvoice struct {
	PurchaseInvoiceID int64           `json:"purchaseInvoiceID"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	SupplierName      string          `json:"supplierName"`
	InvoiceDate       time.Time       `json:"invoiceDate"`
	SubTotal          decimal.Decimal `json:"subTotal"`
	TaxAmount         decimal.Decimal `json:"taxAmount"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
}

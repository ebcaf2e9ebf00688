package dto

import (
	"time"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashBoxRequest defines the data needed to create a new cash box.
type CreateCashBoxRequest struct {
	Code           string             `json:"code" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	BoxType        domain.CashBoxType `json:"boxType" binding:"required,oneof=CashBox BankAccount"`
	Currency       string             `json:"currency" binding:"required,len=3"`
	OpeningBalance *decimal.Decimal   `json:"openingBalance"`
	Notes          string             `json:"notes"`
}

// UpdateCashBoxRequest defines the fields a cash box allows changing.
// Balance moves only through transactions.
type UpdateCashBoxRequest struct {
	Name     *string `json:"name"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateTransactionRequest defines the data needed to record a cash movement.
type CreateTransactionRequest struct {
	CashBoxID          int64                  `json:"cashBoxID" binding:"required"`
	Type               domain.TransactionType `json:"type" binding:"required,oneof=Income Expense"`
	Amount             decimal.Decimal        `json:"amount" binding:"required"`
	Currency           string                 `json:"currency"`
	ExchangeRate       *decimal.Decimal       `json:"exchangeRate"`
	OriginalAmount     *decimal.Decimal       `json:"originalAmount"`
	TransactionDate    time.Time              `json:"transactionDate" binding:"required"`
	Category           string                 `json:"category" binding:"required"`
	Description        string                 `json:"description"`
	PartyName          string                 `json:"partyName"`
	PaymentMethod      domain.PaymentMethod   `json:"paymentMethod" binding:"required,oneof=Cash Cheque BankTransfer CreditCard InstaPay Other"`
	InstaPayCommission *decimal.Decimal       `json:"instaPayCommission"`
	ReferenceNumber    string                 `json:"referenceNumber"`
	Notes              string                 `json:"notes"`
	ReservationID      *int64                 `json:"reservationID"`
}

// UpdateTransactionRequest rewrites a transaction's stored fields. The
// cash box itself cannot change; delete and re-create for that.
type UpdateTransactionRequest struct {
	Type               domain.TransactionType `json:"type" binding:"required,oneof=Income Expense"`
	Amount             decimal.Decimal        `json:"amount" binding:"required"`
	Currency           string                 `json:"currency"`
	ExchangeRate       *decimal.Decimal       `json:"exchangeRate"`
	OriginalAmount     *decimal.Decimal       `json:"originalAmount"`
	TransactionDate    time.Time              `json:"transactionDate" binding:"required"`
	Category           string                 `json:"category" binding:"required"`
	Description        string                 `json:"description"`
	PartyName          string                 `json:"partyName"`
	PaymentMethod      domain.PaymentMethod   `json:"paymentMethod" binding:"required,oneof=Cash Cheque BankTransfer CreditCard InstaPay Other"`
	InstaPayCommission *decimal.Decimal       `json:"instaPayCommission"`
	ReferenceNumber    string                 `json:"referenceNumber"`
	Notes              string                 `json:"notes"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Type     string `form:"type"`
	Category string `form:"category"`
	Month    *int   `form:"month"`
	Year     *int   `form:"year"`
	Limit    int    `form:"limit,default=50"`
	Offset   int    `form:"offset,default=0"`
}

// CashBoxResponse defines the data returned for a cash box.
type CashBoxResponse struct {
	CashBoxID      int64              `json:"cashBoxID"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	BoxType        domain.CashBoxType `json:"boxType"`
	Currency       string             `json:"currency"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	CurrentBalance decimal.Decimal    `json:"currentBalance"`
	IsActive       bool               `json:"isActive"`
	Notes          string             `json:"notes"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// CashBoxBalanceResponse defines the data returned for a balance query.
type CashBoxBalanceResponse struct {
	CashBoxID int64           `json:"cashBoxID"`
	Code      string          `json:"code"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// TransactionResponse defines the data returned for a cash transaction.
type TransactionResponse struct {
	TransactionID      int64                  `json:"transactionID"`
	VoucherNumber      string                 `json:"voucherNumber"`
	CashBoxID          int64                  `json:"cashBoxID"`
	Type               domain.TransactionType `json:"type"`
	Amount             decimal.Decimal        `json:"amount"`
	Currency           string                 `json:"currency"`
	ExchangeRate       *decimal.Decimal       `json:"exchangeRate,omitempty"`
	OriginalAmount     *decimal.Decimal       `json:"originalAmount,omitempty"`
	TransactionDate    time.Time              `json:"transactionDate"`
	Category           string                 `json:"category"`
	Description        string                 `json:"description"`
	PartyName          string                 `json:"partyName"`
	PaymentMethod      domain.PaymentMethod   `json:"paymentMethod"`
	InstaPayCommission *decimal.Decimal       `json:"instaPayCommission,omitempty"`
	ReferenceNumber    string                 `json:"referenceNumber"`
	Notes              string                 `json:"notes"`
	BalanceBefore      decimal.Decimal        `json:"balanceBefore"`
	BalanceAfter       decimal.Decimal        `json:"balanceAfter"`
	ReservationID      *int64                 `json:"reservationID,omitempty"`
	PostingStatus      domain.PostingStatus   `json:"postingStatus"`
	CreatedAt          time.Time              `json:"createdAt"`
	CreatedBy          string                 `json:"createdBy"`
}

// CategorySummaryResponse is one category slice of a monthly report.
type CategorySummaryResponse struct {
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transactionCount"`
	Percentage       decimal.Decimal `json:"percentage"`
}

// MonthlyReportResponse defines the data returned for a monthly report.
type MonthlyReportResponse struct {
	CashBoxID         int64                     `json:"cashBoxID"`
	Month             int                       `json:"month"`
	Year              int                       `json:"year"`
	MonthName         string                    `json:"monthName"`
	TotalIncome       decimal.Decimal           `json:"totalIncome"`
	TotalExpense      decimal.Decimal           `json:"totalExpense"`
	NetProfit         decimal.Decimal           `json:"netProfit"`
	IncomeCount       int                       `json:"incomeCount"`
	ExpenseCount      int                       `json:"expenseCount"`
	IncomeByCategory  []CategorySummaryResponse `json:"incomeByCategory"`
	ExpenseByCategory []CategorySummaryResponse `json:"expenseByCategory"`
	Transactions      []TransactionResponse     `json:"transactions"`
}

// ToCashBoxResponse converts a domain.CashBox to its DTO.
func ToCashBoxResponse(b *domain.CashBox) CashBoxResponse {
	return CashBoxResponse{
		CashBoxID:      b.CashBoxID,
		Code:           b.Code,
		Name:           b.Name,
		BoxType:        b.BoxType,
		Currency:       b.Currency,
		OpeningBalance: b.OpeningBalance,
		CurrentBalance: b.CurrentBalance,
		IsActive:       b.IsActive,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		CreatedBy:      b.CreatedBy,
		LastUpdatedAt:  b.LastUpdatedAt,
		LastUpdatedBy:  b.LastUpdatedBy,
	}
}

// ToListCashBoxResponse converts a slice of cash boxes.
func ToListCashBoxResponse(boxes []domain.CashBox) []CashBoxResponse {
	res := make([]CashBoxResponse, len(boxes))
	for i := range boxes {
		res[i] = ToCashBoxResponse(&boxes[i])
	}
	return res
}

// ToTransactionResponse converts a domain.CashTransaction to its DTO.
func ToTransactionResponse(t *domain.CashTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:      t.TransactionID,
		VoucherNumber:      t.VoucherNumber,
		CashBoxID:          t.CashBoxID,
		Type:               t.Type,
		Amount:             t.Amount,
		Currency:           t.Currency,
		ExchangeRate:       t.ExchangeRate,
		OriginalAmount:     t.OriginalAmount,
		TransactionDate:    t.TransactionDate,
		Category:           t.Category,
		Description:        t.Description,
		PartyName:          t.PartyName,
		PaymentMethod:      t.PaymentMethod,
		InstaPayCommission: t.InstaPayCommission,
		ReferenceNumber:    t.ReferenceNumber,
		Notes:              t.Notes,
		BalanceBefore:      t.BalanceBefore,
		BalanceAfter:       t.BalanceAfter,
		ReservationID:      t.ReservationID,
		PostingStatus:      t.PostingStatus,
		CreatedAt:          t.CreatedAt,
		CreatedBy:          t.CreatedBy,
	}
}

// ToListTransactionResponse converts a slice of transactions.
func ToListTransactionResponse(txns []domain.CashTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ToMonthlyReportResponse converts a domain.MonthlyReport to its DTO.
func ToMonthlyReportResponse(r *domain.MonthlyReport) MonthlyReportResponse {
	return MonthlyReportResponse{
		CashBoxID:         r.CashBoxID,
		Month:             r.Month,
		Year:              r.Year,
		MonthName:         r.MonthName,
		TotalIncome:       r.TotalIncome,
		TotalExpense:      r.TotalExpense,
		NetProfit:         r.NetProfit,
		IncomeCount:       r.IncomeTransactionCount,
		ExpenseCount:      r.ExpenseTransactionCount,
		IncomeByCategory:  toCategorySummaries(r.IncomeByCategory),
		ExpenseByCategory: toCategorySummaries(r.ExpenseByCategory),
		Transactions:      ToListTransactionResponse(r.Transactions),
	}
}

func toCategorySummaries(in []domain.CategorySummary) []CategorySummaryResponse {
	res := make([]CategorySummaryResponse, len(in))
	for i, c := range in {
		res[i] = CategorySummaryResponse{
			Category:         c.Category,
			Amount:           c.Amount,
			TransactionCount: c.TransactionCount,
			Percentage:       c.Percentage,
		}
	}
	return res
}

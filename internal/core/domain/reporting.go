package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySummary aggregates one category of a monthly cash-box report.
// Amount covers home-currency transactions only; foreign-currency sums are
// appended to Category as display annotations.
type CategorySummary struct {
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transactionCount"`
	Percentage       decimal.Decimal `json:"percentage"`
}

// MonthlyReport summarizes one cash box over one calendar month. Totals are
// restricted to the box's home currency; no conversion is performed.
type MonthlyReport struct {
	CashBoxID               int64             `json:"cashBoxID"`
	Month                   int               `json:"month"`
	Year                    int               `json:"year"`
	MonthName               string            `json:"monthName"`
	TotalIncome             decimal.Decimal   `json:"totalIncome"`
	TotalExpense            decimal.Decimal   `json:"totalExpense"`
	NetProfit               decimal.Decimal   `json:"netProfit"`
	IncomeTransactionCount  int               `json:"incomeTransactionCount"`
	ExpenseTransactionCount int               `json:"expenseTransactionCount"`
	IncomeByCategory        []CategorySummary `json:"incomeByCategory"`
	ExpenseByCategory       []CategorySummary `json:"expenseByCategory"`
	Transactions            []CashTransaction `json:"transactions"`
}

// AuditLog is one best-effort audit record for a state-changing operation.
type AuditLog struct {
	AuditLogID int64     `json:"auditLogID"`
	UserID     string    `json:"userID"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   int64     `json:"entityID"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}

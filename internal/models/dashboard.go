package models

import "github.com/shopspring/decimal"

// CategorySpending is one row of the per-category expense breakdown.
type CategorySpending struct {
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DashboardSummary is derived from a user's transactions on every request.
type DashboardSummary struct {
	TotalIncome        decimal.Decimal    `json:"total_income"`
	TotalExpenses      decimal.Decimal    `json:"total_expenses"`
	Balance            decimal.Decimal    `json:"balance"`
	TotalTransactions  int64              `json:"total_transactions"`
	CategorySpending   []CategorySpending `json:"category_spending"`
	RecentTransactions []Transaction      `json:"recent_transactions"`
}

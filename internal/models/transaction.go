package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	}
	return false
}

// Transaction represents a financial transaction in the system.
// Amount is always positive; Type carries the direction.
type Transaction struct {
	Base
	Type          TransactionType `gorm:"size:10;not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	Notes         string          `gorm:"size:500" json:"notes,omitempty"`
	TransactionAt time.Time       `gorm:"not null;index" json:"transaction_at"`
	OwnerID       string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	CategoryID    string          `gorm:"type:uuid;not null;index" json:"category_id"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

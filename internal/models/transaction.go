package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionCategory string

const (
	CategoryRent         TransactionCategory = "rent"
	CategoryIncome       TransactionCategory = "income"
	CategoryUtility      TransactionCategory = "utility"
	CategoryBankTransfer TransactionCategory = "bank_transfer"
	CategoryGroceries    TransactionCategory = "groceries"
	CategoryOther        TransactionCategory = "other"
)

// ParseCategory maps an extractor-provided category to the closed set,
// defaulting to "other".
func ParseCategory(label string) TransactionCategory {
	switch TransactionCategory(label) {
	case CategoryRent, CategoryIncome, CategoryUtility, CategoryBankTransfer, CategoryGroceries, CategoryOther:
		return TransactionCategory(label)
	default:
		return CategoryOther
	}
}

// ExtractedTransaction is a single transaction pulled out of a processed
// document. Amount sign convention: positive is an inflow (credit), negative
// an outflow (debit). Records are immutable once created.
type ExtractedTransaction struct {
	ID              uuid.UUID           `db:"id"`
	DocumentID      uuid.UUID           `db:"document_id"`
	UserID          uuid.UUID           `db:"user_id"`
	Category        TransactionCategory `db:"category"`
	Amount          float64             `db:"amount"`
	Currency        string              `db:"currency"`
	TransactionDate *time.Time          `db:"transaction_date"`
	Payee           string              `db:"payee"`
	Description     string              `db:"description"`
	IsOnTime        *bool               `db:"is_on_time"`
	Confidence      float64             `db:"confidence"`
	CreatedAt       time.Time           `db:"created_at"`
}

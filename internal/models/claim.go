package models

import (
	"time"

	"github.com/google/uuid"
)

type ClaimType string

const (
	ClaimRentHistory     ClaimType = "rent_history"
	ClaimIncomeStability ClaimType = "income_stability"
	ClaimUtilityPayment  ClaimType = "utility_payment"
	ClaimBankHealth      ClaimType = "bank_health"
)

// VerifiableClaim is a derived summary of one aspect of a user's financial
// behavior. The full claim set for a user is regenerated atomically from the
// user's transactions; individual claims are never updated in place.
type VerifiableClaim struct {
	ID          uuid.UUID      `db:"id"`
	UserID      uuid.UUID      `db:"user_id"`
	ClaimType   ClaimType      `db:"claim_type"`
	ClaimText   string         `db:"claim_text"`
	ClaimData   map[string]any `db:"claim_data"`
	Confidence  float64        `db:"confidence"`
	PeriodStart *time.Time     `db:"period_start"`
	PeriodEnd   *time.Time     `db:"period_end"`
	CreatedAt   time.Time      `db:"created_at"`
}

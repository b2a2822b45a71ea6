package service

import (
	"fmt"
	"math"
	"time"

	"trustbridge/internal/models"

	"github.com/google/uuid"
)

// BuildClaims derives the user's full claim set from the full transaction
// set. It is deterministic: the same transactions always yield the same
// claim data and confidence, only the generated identities differ. An empty
// transaction set yields no claims; an empty category group yields no claim
// for that type.
func BuildClaims(userID uuid.UUID, transactions []*models.ExtractedTransaction) []*models.VerifiableClaim {
	if len(transactions) == 0 {
		return nil
	}

	var rent, income, utility []*models.ExtractedTransaction
	for _, tx := range transactions {
		switch tx.Category {
		case models.CategoryRent:
			rent = append(rent, tx)
		case models.CategoryIncome:
			income = append(income, tx)
		case models.CategoryUtility:
			utility = append(utility, tx)
		}
	}

	now := time.Now().UTC()
	var claims []*models.VerifiableClaim

	if len(rent) > 0 {
		onTime := countOnTime(rent)
		total := len(rent)
		avg := sumAbs(rent) / float64(total)
		start, end := dateRange(rent)
		claims = append(claims, &models.VerifiableClaim{
			ID:        uuid.New(),
			UserID:    userID,
			ClaimType: models.ClaimRentHistory,
			ClaimText: fmt.Sprintf("Paid rent on time %d/%d payments, avg $%.0f/mo", onTime, total, avg),
			ClaimData: map[string]any{
				"total_payments":   total,
				"on_time_payments": onTime,
				"on_time_rate":     round2(float64(onTime) / float64(total)),
				"average_amount":   round2(avg),
				"currency":         "USD",
			},
			Confidence:  math.Min(0.95, 0.6+float64(total)*0.03),
			PeriodStart: start,
			PeriodEnd:   end,
			CreatedAt:   now,
		})
	}

	if len(income) > 0 {
		count := len(income)
		totalIncome := sumAbs(income)
		avg := totalIncome / float64(count)
		start, end := dateRange(income)
		claims = append(claims, &models.VerifiableClaim{
			ID:        uuid.New(),
			UserID:    userID,
			ClaimType: models.ClaimIncomeStability,
			ClaimText: fmt.Sprintf("Regular income of avg $%.0f across %d deposits", avg, count),
			ClaimData: map[string]any{
				"total_deposits":  count,
				"total_income":    round2(totalIncome),
				"average_deposit": round2(avg),
				"currency":        "USD",
			},
			Confidence:  math.Min(0.95, 0.5+float64(count)*0.04),
			PeriodStart: start,
			PeriodEnd:   end,
			CreatedAt:   now,
		})
	}

	if len(utility) > 0 {
		onTime := countOnTime(utility)
		total := len(utility)
		start, end := dateRange(utility)
		claims = append(claims, &models.VerifiableClaim{
			ID:        uuid.New(),
			UserID:    userID,
			ClaimType: models.ClaimUtilityPayment,
			ClaimText: fmt.Sprintf("Utility payments: %d/%d on time", onTime, total),
			ClaimData: map[string]any{
				"total_payments":   total,
				"on_time_payments": onTime,
				"on_time_rate":     round2(float64(onTime) / float64(total)),
			},
			Confidence:  math.Min(0.90, 0.5+float64(total)*0.03),
			PeriodStart: start,
			PeriodEnd:   end,
			CreatedAt:   now,
		})
	}

	// Bank health covers every transaction regardless of category. No
	// period: it summarizes the whole history.
	var totalIn, totalOut float64
	for _, tx := range transactions {
		if tx.Amount > 0 {
			totalIn += tx.Amount
		} else {
			totalOut += math.Abs(tx.Amount)
		}
	}
	net := totalIn - totalOut
	claims = append(claims, &models.VerifiableClaim{
		ID:        uuid.New(),
		UserID:    userID,
		ClaimType: models.ClaimBankHealth,
		ClaimText: fmt.Sprintf("Net cash flow: $%+.0f (%d transactions analyzed)", net, len(transactions)),
		ClaimData: map[string]any{
			"total_inflow":      round2(totalIn),
			"total_outflow":     round2(totalOut),
			"net_flow":          round2(net),
			"transaction_count": len(transactions),
		},
		Confidence: math.Min(0.90, 0.5+float64(len(transactions))*0.02),
		CreatedAt:  now,
	})

	return claims
}

func countOnTime(transactions []*models.ExtractedTransaction) int {
	count := 0
	for _, tx := range transactions {
		if tx.IsOnTime != nil && *tx.IsOnTime {
			count++
		}
	}
	return count
}

func sumAbs(transactions []*models.ExtractedTransaction) float64 {
	var sum float64
	for _, tx := range transactions {
		sum += math.Abs(tx.Amount)
	}
	return sum
}

// dateRange returns the min and max transaction dates of the group, or nil
// when no transaction in the group is dated.
func dateRange(transactions []*models.ExtractedTransaction) (*time.Time, *time.Time) {
	var start, end *time.Time
	for _, tx := range transactions {
		if tx.TransactionDate == nil {
			continue
		}
		d := *tx.TransactionDate
		if start == nil || d.Before(*start) {
			start = &d
		}
		if end == nil || d.After(*end) {
			end = &d
		}
	}
	return start, end
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

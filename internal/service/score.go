package service

import (
	"math"

	"trustbridge/internal/dto"
	"trustbridge/internal/models"
)

// claimWeights are fixed per claim type and deliberately not renormalized
// over the types present: a user with a single strong claim type cannot
// reach 100, because breadth of verified behavior is itself part of trust.
var claimWeights = map[models.ClaimType]float64{
	models.ClaimRentHistory:     0.30,
	models.ClaimIncomeStability: 0.30,
	models.ClaimUtilityPayment:  0.20,
	models.ClaimBankHealth:      0.20,
}

const (
	defaultWeight   = 0.10
	defaultRawScore = 50
)

// ComputeTrustScore turns a claim set into a 0-100 score with a per-type
// breakdown. It is a pure function: no I/O, same claims in, same score out.
func ComputeTrustScore(claims []*models.VerifiableClaim) *dto.TrustScore {
	if len(claims) == 0 {
		return &dto.TrustScore{
			Score:     0,
			Level:     "No Data",
			Breakdown: map[string]dto.ScoreBreakdown{},
		}
	}

	breakdown := make(map[string]dto.ScoreBreakdown, len(claims))
	var score float64
	for _, claim := range claims {
		weight, ok := claimWeights[claim.ClaimType]
		if !ok {
			weight = defaultWeight
		}

		raw := rawSubScore(claim)
		weighted := round1(raw * weight)
		breakdown[string(claim.ClaimType)] = dto.ScoreBreakdown{
			RawScore: round1(raw),
			Weight:   weight,
			Weighted: weighted,
		}
		score += weighted
	}

	score = round1(math.Min(100, math.Max(0, score)))

	return &dto.TrustScore{
		Score:     score,
		Level:     levelFor(score),
		Breakdown: breakdown,
	}
}

func rawSubScore(claim *models.VerifiableClaim) float64 {
	data := claim.ClaimData

	switch claim.ClaimType {
	case models.ClaimRentHistory:
		rate := dataNumber(data, "on_time_rate")
		countBonus := math.Min(1.0, dataNumber(data, "total_payments")/12)
		return (rate*0.7 + countBonus*0.3) * 100
	case models.ClaimIncomeStability:
		return math.Min(1.0, dataNumber(data, "total_deposits")/12) * 100
	case models.ClaimUtilityPayment:
		return dataNumber(data, "on_time_rate") * 100
	case models.ClaimBankHealth:
		net := dataNumber(data, "net_flow")
		return math.Min(100, math.Max(0, 50+net/100))
	default:
		return defaultRawScore
	}
}

// dataNumber reads a numeric claim_data field. Counts are stored as ints at
// build time but come back as float64 after a JSON round-trip through the
// store, so both are accepted.
func dataNumber(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func levelFor(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	case score >= 20:
		return "Building"
	default:
		return "New"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

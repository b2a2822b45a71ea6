package dto

// ScoreBreakdown is the per-claim-type contribution to the overall score.
type ScoreBreakdown struct {
	RawScore float64 `json:"raw_score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// TrustScore is the transient result of scoring a claim set. It is computed
// on demand and never persisted.
type TrustScore struct {
	Score     float64                   `json:"score"`
	Level     string                    `json:"level"`
	Breakdown map[string]ScoreBreakdown `json:"breakdown"`
}

type ClaimResponse struct {
	ID          string         `json:"id"`
	ClaimType   string         `json:"claim_type"`
	ClaimText   string         `json:"claim_text"`
	ClaimData   map[string]any `json:"claim_data"`
	Confidence  float64        `json:"confidence"`
	PeriodStart *string        `json:"period_start,omitempty"`
	PeriodEnd   *string        `json:"period_end,omitempty"`
}

type ReputationProfileResponse struct {
	Score     float64                   `json:"score"`
	Level     string                    `json:"level"`
	Breakdown map[string]ScoreBreakdown `json:"breakdown"`
	Claims    []ClaimResponse           `json:"claims"`
}

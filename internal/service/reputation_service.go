package service

import (
	"context"
	"fmt"
	"time"

	"trustbridge/internal/dto"
	"trustbridge/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReputationService struct {
	claims ClaimStore
	txns   TransactionStore
	logger *zap.Logger
}

func NewReputationService(claims ClaimStore, txns TransactionStore, logger *zap.Logger) *ReputationService {
	return &ReputationService{
		claims: claims,
		txns:   txns,
		logger: logger,
	}
}

// Recalculate rebuilds the user's claim set from scratch: the old set is
// deleted and the new one inserted as a single atomic unit, so readers never
// observe a partial set. Calling it twice without transaction changes yields
// identical claim data.
func (s *ReputationService) Recalculate(ctx context.Context, userID uuid.UUID) ([]*models.VerifiableClaim, error) {
	transactions, err := s.txns.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	claims := BuildClaims(userID, transactions)
	if err := s.claims.ReplaceForUser(ctx, userID, claims); err != nil {
		return nil, fmt.Errorf("failed to replace claims: %w", err)
	}

	s.logger.Info("Recalculated claims",
		zap.String("user_id", userID.String()),
		zap.Int("transactions", len(transactions)),
		zap.Int("claims", len(claims)),
	)
	return claims, nil
}

// Profile scores the user's current claim set without recomputing it.
func (s *ReputationService) Profile(ctx context.Context, userID uuid.UUID) (*dto.ReputationProfileResponse, error) {
	claims, err := s.claims.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}
	return buildProfile(claims), nil
}

// Recompute forces a full claim recalculation and returns the fresh profile.
func (s *ReputationService) Recompute(ctx context.Context, userID uuid.UUID) (*dto.ReputationProfileResponse, error) {
	claims, err := s.Recalculate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildProfile(claims), nil
}

// Claims returns the user's current claims without scoring them.
func (s *ReputationService) Claims(ctx context.Context, userID uuid.UUID) ([]dto.ClaimResponse, error) {
	claims, err := s.claims.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	responses := make([]dto.ClaimResponse, len(claims))
	for i, claim := range claims {
		responses[i] = toClaimResponse(claim)
	}
	return responses, nil
}

func buildProfile(claims []*models.VerifiableClaim) *dto.ReputationProfileResponse {
	score := ComputeTrustScore(claims)

	resp := &dto.ReputationProfileResponse{
		Score:     score.Score,
		Level:     score.Level,
		Breakdown: score.Breakdown,
		Claims:    make([]dto.ClaimResponse, len(claims)),
	}
	for i, claim := range claims {
		resp.Claims[i] = toClaimResponse(claim)
	}
	return resp
}

func toClaimResponse(claim *models.VerifiableClaim) dto.ClaimResponse {
	resp := dto.ClaimResponse{
		ID:         claim.ID.String(),
		ClaimType:  string(claim.ClaimType),
		ClaimText:  claim.ClaimText,
		ClaimData:  claim.ClaimData,
		Confidence: claim.Confidence,
	}
	if claim.PeriodStart != nil {
		start := claim.PeriodStart.Format(time.RFC3339)
		resp.PeriodStart = &start
	}
	if claim.PeriodEnd != nil {
		end := claim.PeriodEnd.Format(time.RFC3339)
		resp.PeriodEnd = &end
	}
	return resp
}

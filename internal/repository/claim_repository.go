package repository

import (
	"context"
	"encoding/json"

	"trustbridge/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var claimColumns = []string{
	"id", "user_id", "claim_type", "claim_text", "claim_data", "confidence",
	"period_start", "period_end", "created_at",
}

type ClaimRepository struct {
	db     DB
	logger *zap.Logger
}

func NewClaimRepository(db DB, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ClaimRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.VerifiableClaim, error) {
	query := squirrel.Select(claimColumns...).
		From("verifiable_claims").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("claim_type").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*models.VerifiableClaim
	for rows.Next() {
		var claim models.VerifiableClaim
		var data []byte
		if err := rows.Scan(
			&claim.ID, &claim.UserID, &claim.ClaimType, &claim.ClaimText, &data, &claim.Confidence,
			&claim.PeriodStart, &claim.PeriodEnd, &claim.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &claim.ClaimData); err != nil {
			return nil, err
		}
		claims = append(claims, &claim)
	}

	return claims, rows.Err()
}

// ReplaceForUser swaps the user's entire claim set inside one transaction.
// A concurrent reader sees either the old set or the new one, never a
// partial mix.
func (r *ClaimRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, claims []*models.VerifiableClaim) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleteSQL, deleteArgs, err := squirrel.Delete("verifiable_claims").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
		return err
	}

	if len(claims) > 0 {
		builder := squirrel.Insert("verifiable_claims").
			Columns(claimColumns...).
			PlaceholderFormat(squirrel.Dollar)

		for _, claim := range claims {
			data, err := json.Marshal(claim.ClaimData)
			if err != nil {
				return err
			}
			builder = builder.Values(claim.ID, claim.UserID, claim.ClaimType, claim.ClaimText, data, claim.Confidence,
				claim.PeriodStart, claim.PeriodEnd, claim.CreatedAt)
		}

		insertSQL, insertArgs, err := builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

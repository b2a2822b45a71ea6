package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"trustbridge/internal/models"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClaim(userID uuid.UUID) *models.VerifiableClaim {
	return &models.VerifiableClaim{
		ID:        uuid.New(),
		UserID:    userID,
		ClaimType: models.ClaimRentHistory,
		ClaimText: "Paid rent on time 6/6 payments, avg $1450/mo",
		ClaimData: map[string]any{
			"total_payments": 6,
			"on_time_rate":   1.0,
		},
		Confidence: 0.78,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestClaimRepository_ReplaceForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	claims := []*models.VerifiableClaim{testClaim(userID), testClaim(userID)}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM verifiable_claims").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("INSERT INTO verifiable_claims").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	repo := NewClaimRepository(mock, zap.NewNop())
	require.NoError(t, repo.ReplaceForUser(context.Background(), userID, claims))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRepository_ReplaceForUser_EmptySetOnlyDeletes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM verifiable_claims").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectCommit()

	repo := NewClaimRepository(mock, zap.NewNop())
	require.NoError(t, repo.ReplaceForUser(context.Background(), userID, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRepository_ReplaceForUser_InsertErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM verifiable_claims").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO verifiable_claims").
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	repo := NewClaimRepository(mock, zap.NewNop())
	err = repo.ReplaceForUser(context.Background(), userID, []*models.VerifiableClaim{testClaim(userID)})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRepository_ListByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	claim := testClaim(userID)
	data, err := json.Marshal(claim.ClaimData)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM verifiable_claims").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(claimColumns).
			AddRow(claim.ID, claim.UserID, claim.ClaimType, claim.ClaimText, data, claim.Confidence,
				claim.PeriodStart, claim.PeriodEnd, claim.CreatedAt))

	repo := NewClaimRepository(mock, zap.NewNop())
	claims, err := repo.ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, claims, 1)

	got := claims[0]
	assert.Equal(t, claim.ID, got.ID)
	assert.Equal(t, models.ClaimRentHistory, got.ClaimType)
	// Counts come back as float64 after the JSONB round-trip.
	assert.Equal(t, float64(6), got.ClaimData["total_payments"])
	assert.Equal(t, 1.0, got.ClaimData["on_time_rate"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRepository_ListByUserID_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	mock.ExpectQuery("SELECT .* FROM verifiable_claims").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(claimColumns))

	repo := NewClaimRepository(mock, zap.NewNop())
	claims, err := repo.ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, claims)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"testing"
	"time"

	"trustbridge/internal/models"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransactionRepository_CreateBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	docID := uuid.New()
	userID := uuid.New()
	transactions := []*models.ExtractedTransaction{
		{ID: uuid.New(), DocumentID: docID, UserID: userID, Category: models.CategoryRent, Amount: -1450, Currency: "USD", Confidence: 0.85, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), DocumentID: docID, UserID: userID, Category: models.CategoryIncome, Amount: 4200, Currency: "USD", Confidence: 0.85, CreatedAt: time.Now().UTC()},
	}

	mock.ExpectExec("INSERT INTO extracted_transactions").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	repo := NewTransactionRepository(mock, zap.NewNop())
	require.NoError(t, repo.CreateBatch(context.Background(), transactions))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_CreateBatch_EmptyIsNoop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepository(mock, zap.NewNop())
	require.NoError(t, repo.CreateBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_ListByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	txID := uuid.New()
	docID := uuid.New()
	txDate := time.Now().UTC()
	onTime := true

	mock.ExpectQuery("SELECT .* FROM extracted_transactions").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow(txID, docID, userID, models.TransactionCategory("rent"), -1450.0, "USD",
				&txDate, "Oak Apartments", "March rent", &onTime, 0.85,
				time.Now().UTC()))

	repo := NewTransactionRepository(mock, zap.NewNop())
	transactions, err := repo.ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)

	tx := transactions[0]
	assert.Equal(t, txID, tx.ID)
	assert.Equal(t, models.CategoryRent, tx.Category)
	assert.Equal(t, -1450.0, tx.Amount)
	require.NotNil(t, tx.IsOnTime)
	assert.True(t, *tx.IsOnTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_GetByDocumentID_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	docID := uuid.New()
	mock.ExpectQuery("SELECT .* FROM extracted_transactions").
		WithArgs(docID).
		WillReturnRows(pgxmock.NewRows(transactionColumns))

	repo := NewTransactionRepository(mock, zap.NewNop())
	transactions, err := repo.GetByDocumentID(context.Background(), docID)
	require.NoError(t, err)
	assert.Empty(t, transactions)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"

	"trustbridge/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "document_id", "user_id", "category", "amount", "currency",
	"transaction_date", "payee", "description", "is_on_time", "confidence",
	"created_at",
}

type TransactionRepository struct {
	db     DB
	logger *zap.Logger
}

func NewTransactionRepository(db DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.ExtractedTransaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("extracted_transactions").
		Columns(transactionColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.DocumentID, tx.UserID, tx.Category, tx.Amount, tx.Currency,
			tx.TransactionDate, tx.Payee, tx.Description, tx.IsOnTime, tx.Confidence,
			tx.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.ExtractedTransaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("extracted_transactions").
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("transaction_date").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryTransactions(ctx, query)
}

// ListByUserID returns every transaction the user owns, ordered by date.
// The claims aggregation reads through this so a recomputation always sees
// the full set.
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ExtractedTransaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("extracted_transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("transaction_date").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryTransactions(ctx, query)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query squirrel.SelectBuilder) ([]*models.ExtractedTransaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.ExtractedTransaction
	for rows.Next() {
		var tx models.ExtractedTransaction
		if err := rows.Scan(
			&tx.ID, &tx.DocumentID, &tx.UserID, &tx.Category, &tx.Amount, &tx.Currency,
			&tx.TransactionDate, &tx.Payee, &tx.Description, &tx.IsOnTime, &tx.Confidence,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

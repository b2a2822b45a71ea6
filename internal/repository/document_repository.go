package repository

import (
	"context"
	"time"

	"trustbridge/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var documentColumns = []string{
	"id", "user_id", "filename", "content_type", "file_size", "storage_key",
	"status", "raw_extracted_text", "document_type", "error_message",
	"created_at", "processed_at",
}

type DocumentRepository struct {
	db     DB
	logger *zap.Logger
}

func NewDocumentRepository(db DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := squirrel.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.UserID, doc.Filename, doc.ContentType, doc.FileSize, doc.StorageKey,
			doc.Status, doc.RawExtractedText, doc.DocumentType, doc.ErrorMessage,
			doc.CreatedAt, doc.ProcessedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.UserID, &doc.Filename, &doc.ContentType, &doc.FileSize, &doc.StorageKey,
		&doc.Status, &doc.RawExtractedText, &doc.DocumentType, &doc.ErrorMessage,
		&doc.CreatedAt, &doc.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *DocumentRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Document, error) {
	query := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
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

	var documents []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.UserID, &doc.Filename, &doc.ContentType, &doc.FileSize, &doc.StorageKey,
			&doc.Status, &doc.RawExtractedText, &doc.DocumentType, &doc.ErrorMessage,
			&doc.CreatedAt, &doc.ProcessedAt,
		); err != nil {
			return nil, err
		}
		documents = append(documents, &doc)
	}

	return documents, rows.Err()
}

// UpdateStatus persists a pipeline state transition. Every transition is
// written before the next pipeline step runs, so a concurrent status query
// never observes a state older than one store round-trip.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) error {
	query := squirrel.Update("documents").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) SetExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	query := squirrel.Update("documents").
		Set("raw_extracted_text", text).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) SetDocumentType(ctx context.Context, id uuid.UUID, docType models.DocumentType) error {
	query := squirrel.Update("documents").
		Set("document_type", docType).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	query := squirrel.Update("documents").
		Set("status", models.StatusCompleted).
		Set("processed_at", processedAt).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := squirrel.Update("documents").
		Set("status", models.StatusFailed).
		Set("error_message", errorMessage).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

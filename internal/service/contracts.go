package service

import (
	"context"
	"time"

	"trustbridge/internal/models"
	"trustbridge/internal/watsonx"

	"github.com/google/uuid"
)

// Store and provider contracts consumed by the services. The repository and
// watsonx packages provide the production implementations; tests substitute
// fakes.

type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) error
	SetExtractedText(ctx context.Context, id uuid.UUID, text string) error
	SetDocumentType(ctx context.Context, id uuid.UUID, docType models.DocumentType) error
	MarkCompleted(ctx context.Context, id uuid.UUID, processedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}

type TransactionStore interface {
	CreateBatch(ctx context.Context, transactions []*models.ExtractedTransaction) error
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.ExtractedTransaction, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ExtractedTransaction, error)
}

type ClaimStore interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.VerifiableClaim, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, claims []*models.VerifiableClaim) error
}

// TextExtractor runs the remote OCR job end to end (submit, poll, fetch).
type TextExtractor interface {
	ExtractText(ctx context.Context, documentRef string) (string, error)
}

// TransactionExtractor drives the LLM: one classification call, one
// extraction call.
type TransactionExtractor interface {
	Classify(ctx context.Context, text string) (string, error)
	ExtractTransactions(ctx context.Context, text, docType string) ([]watsonx.TransactionCandidate, error)
}

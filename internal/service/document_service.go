package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trustbridge/internal/dto"
	"trustbridge/internal/models"
	"trustbridge/internal/storage"
	"trustbridge/internal/watsonx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrDocumentNotFound = errors.New("document not found")

const (
	// extractionConfidence is a fixed placeholder: the provider does not
	// report per-transaction confidence, so every extracted transaction
	// carries the same value.
	extractionConfidence = 0.85

	// errorMessageLimit caps the failure detail stored on a document. The
	// stored message is the only error detail surfaced to users.
	errorMessageLimit = 500
)

// dateFormats are tried in order; the first parse wins. ISO dates take
// priority over the two locale-ambiguous slash formats.
var dateFormats = []string{"2006-01-02", "01/02/2006", "02/01/2006"}

type DocumentService struct {
	docs      DocumentStore
	txns      TransactionStore
	store     storage.ObjectStore
	extractor TextExtractor
	llm       TransactionExtractor
	logger    *zap.Logger
}

func NewDocumentService(
	docs DocumentStore,
	txns TransactionStore,
	store storage.ObjectStore,
	extractor TextExtractor,
	llm TransactionExtractor,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docs:      docs,
		txns:      txns,
		store:     store,
		extractor: extractor,
		llm:       llm,
		logger:    logger,
	}
}

// Upload stores the file bytes and creates the document record in the
// "uploaded" state. Processing is scheduled separately by the caller.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, content []byte) (*models.Document, error) {
	key, err := s.store.Put(ctx, content, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	doc := &models.Document{
		ID:          uuid.New(),
		UserID:      userID,
		Filename:    filename,
		ContentType: contentType,
		FileSize:    int64(len(content)),
		StorageKey:  key,
		Status:      models.StatusUploaded,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	return doc, nil
}

// Run executes one end-to-end processing attempt for the document. It always
// leaves the document in a terminal state: any error at any step marks the
// document failed with a truncated message. There is no retry inside a run;
// re-invoking Run on a failed document starts over from extraction.
func (s *DocumentService) Run(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		s.logger.Error("Document not found for processing",
			zap.String("document_id", documentID.String()),
			zap.Error(err),
		)
		return ErrDocumentNotFound
	}

	count, err := s.process(ctx, doc)
	if err != nil {
		if markErr := s.docs.MarkFailed(ctx, doc.ID, truncateError(err)); markErr != nil {
			s.logger.Error("Failed to mark document failed",
				zap.String("document_id", doc.ID.String()),
				zap.Error(markErr),
			)
		}
		s.logger.Error("Document processing failed",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Document processed",
		zap.String("document_id", doc.ID.String()),
		zap.Int("transactions", count),
	)
	return nil
}

func (s *DocumentService) process(ctx context.Context, doc *models.Document) (int, error) {
	// Phase 1: text extraction. The transition is persisted before the
	// provider call so status queries see "extracting" immediately.
	if err := s.docs.UpdateStatus(ctx, doc.ID, models.StatusExtracting); err != nil {
		return 0, fmt.Errorf("failed to update status: %w", err)
	}

	rawText, err := s.extractor.ExtractText(ctx, s.store.URIFor(doc.StorageKey))
	if err != nil {
		return 0, fmt.Errorf("text extraction: %w", err)
	}
	if err := s.docs.SetExtractedText(ctx, doc.ID, rawText); err != nil {
		return 0, fmt.Errorf("failed to store extracted text: %w", err)
	}

	// Phase 2: classification and transaction extraction.
	if err := s.docs.UpdateStatus(ctx, doc.ID, models.StatusAnalyzing); err != nil {
		return 0, fmt.Errorf("failed to update status: %w", err)
	}

	label, err := s.llm.Classify(ctx, rawText)
	if err != nil {
		return 0, fmt.Errorf("document classification: %w", err)
	}
	docType := models.ParseDocumentType(label)
	if err := s.docs.SetDocumentType(ctx, doc.ID, docType); err != nil {
		return 0, fmt.Errorf("failed to store document type: %w", err)
	}

	candidates, err := s.llm.ExtractTransactions(ctx, rawText, string(docType))
	if err != nil {
		return 0, fmt.Errorf("transaction extraction: %w", err)
	}

	// Phase 3: persist transactions, applying the defaulting rules for the
	// loosely-typed candidates in one place.
	transactions := make([]*models.ExtractedTransaction, 0, len(candidates))
	now := time.Now().UTC()
	for _, candidate := range candidates {
		transactions = append(transactions, buildTransaction(doc, candidate, now))
	}
	if err := s.txns.CreateBatch(ctx, transactions); err != nil {
		return 0, fmt.Errorf("failed to save transactions: %w", err)
	}

	// Phase 4: terminal success state.
	if err := s.docs.MarkCompleted(ctx, doc.ID, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("failed to mark document completed: %w", err)
	}

	return len(transactions), nil
}

// buildTransaction converts a provider candidate into a transaction record.
// Unknown categories become "other", unparseable amounts 0, unparseable
// dates nil; none of these abort the pipeline.
func buildTransaction(doc *models.Document, c watsonx.TransactionCandidate, now time.Time) *models.ExtractedTransaction {
	currency := strings.TrimSpace(c.Currency)
	if currency == "" {
		currency = "USD"
	}

	return &models.ExtractedTransaction{
		ID:              uuid.New(),
		DocumentID:      doc.ID,
		UserID:          doc.UserID,
		Category:        models.ParseCategory(c.Category),
		Amount:          parseAmount(c.Amount),
		Currency:        currency,
		TransactionDate: parseDate(c.Date),
		Payee:           c.Payee,
		Description:     c.Description,
		IsOnTime:        c.IsOnTime,
		Confidence:      extractionConfidence,
		CreatedAt:       now,
	}
}

func parseAmount(v any) float64 {
	switch amount := v.(type) {
	case float64:
		return amount
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(amount), ",", "")
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f
		}
	}
	return 0
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}
	return nil
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > errorMessageLimit {
		msg = msg[:errorMessageLimit]
	}
	return msg
}

// List returns the user's documents, newest first.
func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]dto.DocumentResponse, error) {
	docs, err := s.docs.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = toDocumentResponse(doc)
	}
	return responses, nil
}

// Get returns a document with its extracted transactions.
func (s *DocumentService) Get(ctx context.Context, userID, documentID uuid.UUID) (*dto.DocumentDetailResponse, error) {
	doc, err := s.getOwned(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txns.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DocumentDetailResponse{
		DocumentResponse: toDocumentResponse(doc),
		Transactions:     make([]dto.TransactionResponse, len(transactions)),
	}
	for i, tx := range transactions {
		resp.Transactions[i] = toTransactionResponse(tx)
	}
	return resp, nil
}

// Status is the lightweight poll target for upload progress.
func (s *DocumentService) Status(ctx context.Context, userID, documentID uuid.UUID) (*dto.DocumentStatusResponse, error) {
	doc, err := s.getOwned(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	return &dto.DocumentStatusResponse{
		ID:           doc.ID.String(),
		Status:       string(doc.Status),
		DocumentType: string(doc.DocumentType),
		ErrorMessage: doc.ErrorMessage,
	}, nil
}

func (s *DocumentService) getOwned(ctx context.Context, userID, documentID uuid.UUID) (*models.Document, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	if doc.UserID != userID {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func toDocumentResponse(doc *models.Document) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		ContentType:  doc.ContentType,
		FileSize:     doc.FileSize,
		Status:       string(doc.Status),
		DocumentType: string(doc.DocumentType),
		ErrorMessage: doc.ErrorMessage,
		CreatedAt:    doc.CreatedAt.Format(time.RFC3339),
	}
	if doc.ProcessedAt != nil {
		processed := doc.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &processed
	}
	return resp
}

func toTransactionResponse(tx *models.ExtractedTransaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:          tx.ID.String(),
		Category:    string(tx.Category),
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Payee:       tx.Payee,
		Description: tx.Description,
		IsOnTime:    tx.IsOnTime,
		Confidence:  tx.Confidence,
	}
	if tx.TransactionDate != nil {
		date := tx.TransactionDate.Format(time.RFC3339)
		resp.TransactionDate = &date
	}
	return resp
}

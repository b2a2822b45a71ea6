package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusExtracting DocumentStatus = "extracting"
	StatusAnalyzing  DocumentStatus = "analyzing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

type DocumentType string

const (
	DocTypeBankStatement DocumentType = "bank_statement"
	DocTypeRentReceipt   DocumentType = "rent_receipt"
	DocTypeUtilityBill   DocumentType = "utility_bill"
	DocTypePayStub       DocumentType = "pay_stub"
	DocTypeOther         DocumentType = "other"
)

// ParseDocumentType maps a classifier label to a known document type.
// Anything outside the closed set falls back to "other".
func ParseDocumentType(label string) DocumentType {
	switch DocumentType(label) {
	case DocTypeBankStatement, DocTypeRentReceipt, DocTypeUtilityBill, DocTypePayStub, DocTypeOther:
		return DocumentType(label)
	default:
		return DocTypeOther
	}
}

type Document struct {
	ID               uuid.UUID      `db:"id"`
	UserID           uuid.UUID      `db:"user_id"`
	Filename         string         `db:"filename"`
	ContentType      string         `db:"content_type"`
	FileSize         int64          `db:"file_size"`
	StorageKey       string         `db:"storage_key"`
	Status           DocumentStatus `db:"status"`
	RawExtractedText string         `db:"raw_extracted_text"`
	DocumentType     DocumentType   `db:"document_type"`
	ErrorMessage     string         `db:"error_message"`
	CreatedAt        time.Time      `db:"created_at"`
	ProcessedAt      *time.Time     `db:"processed_at"`
}

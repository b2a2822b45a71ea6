package dto

type DocumentResponse struct {
	ID           string  `json:"id"`
	Filename     string  `json:"filename"`
	ContentType  string  `json:"content_type"`
	FileSize     int64   `json:"file_size"`
	Status       string  `json:"status"`
	DocumentType string  `json:"document_type,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
}

type DocumentStatusResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	DocumentType string `json:"document_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type TransactionResponse struct {
	ID              string  `json:"id"`
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	TransactionDate *string `json:"transaction_date,omitempty"`
	Payee           string  `json:"payee,omitempty"`
	Description     string  `json:"description,omitempty"`
	IsOnTime        *bool   `json:"is_on_time,omitempty"`
	Confidence      float64 `json:"confidence"`
}

type DocumentDetailResponse struct {
	DocumentResponse
	Transactions []TransactionResponse `json:"transactions"`
}

package watsonx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Prompt windows bound how much document text is sent to the model per call.
const (
	classifyWindow = 2000
	extractWindow  = 8000
)

const classificationPrompt = `Classify this financial document into exactly one category.
Categories: bank_statement, rent_receipt, utility_bill, pay_stub, other

Document text (first %d chars):
%s

Respond with ONLY the category name, nothing else.`

const extractionPrompt = `Extract financial transactions from this %s document.
Return a JSON array of transactions. Each transaction must have:
- "amount": number (positive for income/credit, negative for debits/expenses)
- "date": string in YYYY-MM-DD format (or null if unclear)
- "payee": string (who was paid or who paid)
- "description": brief description
- "category": one of [rent, income, utility, bank_transfer, groceries, other]
- "is_on_time": boolean (true if payment was on time, null if unknown)

Document text:
%s

Return ONLY valid JSON array. No explanation.`

// TransactionCandidate is a loosely-typed transaction as returned by the
// model. Amount stays untyped because the model occasionally emits strings;
// the pipeline owns the defaulting rules.
type TransactionCandidate struct {
	Amount      any    `json:"amount"`
	Date        string `json:"date"`
	Payee       string `json:"payee"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Currency    string `json:"currency"`
	IsOnTime    *bool  `json:"is_on_time"`
}

type generationRequest struct {
	ModelID    string         `json:"model_id"`
	ProjectID  string         `json:"project_id"`
	Input      string         `json:"input"`
	Parameters map[string]any `json:"parameters"`
}

type generationResponse struct {
	Results []struct {
		GeneratedText string `json:"generated_text"`
	} `json:"results"`
}

// Generate runs a single text generation call and returns the raw output.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/ml/v1/text/generation?version=%s", c.baseURL, apiVersion)
	body := generationRequest{
		ModelID:   c.modelID,
		ProjectID: c.projectID,
		Input:     prompt,
		Parameters: map[string]any{
			"max_new_tokens":     4096,
			"temperature":        0.1,
			"repetition_penalty": 1.05,
		},
	}

	var resp generationResponse
	if err := c.doJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", fmt.Errorf("text generation returned no results")
	}

	return resp.Results[0].GeneratedText, nil
}

// Classify asks the model for a document type label. The label is free-form;
// callers validate it against the closed document type set.
func (c *Client) Classify(ctx context.Context, text string) (string, error) {
	window := truncate(text, classifyWindow)
	prompt := fmt.Sprintf(classificationPrompt, classifyWindow, window)

	result, err := c.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.ToLower(strings.TrimSpace(result)), nil
}

// ExtractTransactions asks the model for the document's transactions. A
// response that contains no parseable JSON array yields an empty list, not
// an error: a document with garbled model output still completes with zero
// transactions.
func (c *Client) ExtractTransactions(ctx context.Context, text, docType string) ([]TransactionCandidate, error) {
	prompt := fmt.Sprintf(extractionPrompt, docType, truncate(text, extractWindow))

	result, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	candidates, ok := parseCandidateArray(result)
	if !ok {
		c.logger.Error("Failed to parse LLM extraction result",
			zap.String("response", truncate(result, 500)),
		)
		return []TransactionCandidate{}, nil
	}

	return candidates, nil
}

// parseCandidateArray pulls the first JSON array out of a model response
// that may be wrapped in prose or markdown fences.
func parseCandidateArray(content string) ([]TransactionCandidate, bool) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}

	jsonStr := strings.TrimSpace(content[start : end+1])
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")

	var candidates []TransactionCandidate
	if err := json.Unmarshal([]byte(jsonStr), &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

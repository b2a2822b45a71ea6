// Package watsonx wraps the two watsonx.ai services the pipeline depends on:
// the async Text Extraction jobs API (OCR + table extraction) and Granite
// text generation for classification and transaction extraction.
package watsonx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultIAMURL = "https://iam.cloud.ibm.com/identity/token"

// TokenSource caches an IBM Cloud IAM bearer token and refreshes it lazily
// once it is within a minute of expiry. It is injected into the client
// rather than held as package-level state so its lifecycle is explicit.
type TokenSource struct {
	authURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenSource(apiKey string, httpClient *http.Client, logger *zap.Logger) *TokenSource {
	return &TokenSource{
		authURL:    defaultIAMURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Token returns a cached bearer token, fetching a fresh one when the cached
// token is missing or about to expire.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiry.Add(-time.Minute)) {
		return s.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	form.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create IAM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request IAM token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("IAM token request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(body)),
		)
		return "", fmt.Errorf("IAM token request failed with status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode IAM token response: %w", err)
	}

	s.token = tokenResp.AccessToken
	s.expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return s.token, nil
}

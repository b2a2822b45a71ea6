package watsonx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trustbridge/pkg/config"

	"go.uber.org/zap"
)

const apiVersion = "2024-10-18"

type Client struct {
	baseURL    string
	projectID  string
	modelID    string
	resultsRef string
	httpClient *http.Client
	tokens     *TokenSource
	logger     *zap.Logger

	pollInterval time.Duration
	maxPolls     int
}

func NewClient(cfg *config.WatsonxConfig, pipe *config.PipelineConfig, resultsBucket string, tokens *TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      cfg.URL,
		projectID:    cfg.ProjectID,
		modelID:      cfg.ModelID,
		resultsRef:   fmt.Sprintf("cos://%s/extraction-results/", resultsBucket),
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		tokens:       tokens,
		logger:       logger,
		pollInterval: pipe.PollInterval,
		maxPolls:     pipe.MaxPolls,
	}
}

// doJSON performs an authenticated JSON request against the watsonx API and
// decodes the response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("watsonx request failed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(respBody)),
		)
		return fmt.Errorf("watsonx request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package watsonx

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobError     JobState = "error"
)

type extractionDetails struct {
	Metadata struct {
		ID string `json:"id"`
	} `json:"metadata"`
	Entity struct {
		Status struct {
			State string `json:"state"`
		} `json:"status"`
		Results []struct {
			Content string `json:"content"`
		} `json:"results"`
	} `json:"entity"`
}

// StartExtraction submits an async text extraction job for the referenced
// document and returns the job ID.
func (c *Client) StartExtraction(ctx context.Context, documentRef string) (string, error) {
	url := fmt.Sprintf("%s/ml/v1/text/extractions?version=%s", c.baseURL, apiVersion)
	body := map[string]any{
		"project_id":         c.projectID,
		"document_reference": documentRef,
		"results_reference":  c.resultsRef,
		"steps": map[string]any{
			"ocr":               map[string]any{"languages_list": []string{"en"}},
			"tables_processing": map[string]any{"enabled": true},
		},
	}

	var details extractionDetails
	if err := c.doJSON(ctx, http.MethodPost, url, body, &details); err != nil {
		return "", fmt.Errorf("failed to start text extraction: %w", err)
	}

	c.logger.Info("Started text extraction job", zap.String("job_id", details.Metadata.ID))
	return details.Metadata.ID, nil
}

// ExtractionStatus checks the state of a running extraction job.
func (c *Client) ExtractionStatus(ctx context.Context, jobID string) (JobState, error) {
	details, err := c.extractionDetails(ctx, jobID)
	if err != nil {
		return "", err
	}
	return JobState(details.Entity.Status.State), nil
}

// ExtractionText fetches the concatenated text of a completed extraction job.
func (c *Client) ExtractionText(ctx context.Context, jobID string) (string, error) {
	details, err := c.extractionDetails(ctx, jobID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, r := range details.Entity.Results {
		sb.WriteString(r.Content)
	}
	return sb.String(), nil
}

func (c *Client) extractionDetails(ctx context.Context, jobID string) (*extractionDetails, error) {
	url := fmt.Sprintf("%s/ml/v1/text/extractions/%s?version=%s&project_id=%s", c.baseURL, jobID, apiVersion, c.projectID)

	var details extractionDetails
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch extraction job %s: %w", jobID, err)
	}
	return &details, nil
}

// ExtractText runs a full extraction: submit the job, poll on a fixed
// interval up to the configured ceiling, then fetch the result. Exceeding
// the ceiling is a timeout, distinct from a provider-reported failure.
func (c *Client) ExtractText(ctx context.Context, documentRef string) (string, error) {
	jobID, err := c.StartExtraction(ctx, documentRef)
	if err != nil {
		return "", err
	}

	for i := 0; i < c.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		state, err := c.ExtractionStatus(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch state {
		case JobCompleted:
			return c.ExtractionText(ctx, jobID)
		case JobFailed, JobError:
			return "", fmt.Errorf("text extraction failed for job %s", jobID)
		}
	}

	return "", fmt.Errorf("text extraction timed out for job %s", jobID)
}

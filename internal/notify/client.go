// Package notify posts completed drive reports to an optional webhook so
// the surrounding platform can refresh its dashboards without polling.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sentrylabs/veritas/internal/models"
)

// Client delivers report notifications over HTTP.
type Client struct {
	webhookURL string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a webhook client. An empty webhookURL disables
// delivery; NotifyReport becomes a no-op.
func NewClient(webhookURL, apiKey string) *Client {
	return &Client{
		webhookURL: webhookURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

// NotifyReport posts the completed drive report to the configured webhook.
func (c *Client) NotifyReport(ctx context.Context, report *models.TestReport) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(payload))
	}

	log.Debug().
		Str("driveId", report.DriveID).
		Str("risk", report.Risk).
		Msg("Report delivered to webhook")
	return nil
}

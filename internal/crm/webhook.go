package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/salinmesh/lead-intake/internal/leads"
	"github.com/salinmesh/lead-intake/pkg/logging"
)

// WebhookClient posts validated leads to an external CRM endpoint. The
// endpoint only needs to acknowledge with a 2xx status; no response body is
// consumed.
type WebhookClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
	now        func() time.Time
}

// webhookPayload augments the submission with a source tag and a
// server-generated timestamp, matching what the CRM expects from the website.
type webhookPayload struct {
	leads.LeadSubmission
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// NewWebhookClient creates a CRM client, or nil when no endpoint is
// configured so callers can skip the channel entirely.
func NewWebhookClient(endpoint string, timeout time.Duration, logger *logging.Logger) *WebhookClient {
	if strings.TrimSpace(endpoint) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// Send posts the lead to the CRM. Errors are returned for the caller to
// record; whether they are fatal is the caller's policy, not this client's.
func (c *WebhookClient) Send(ctx context.Context, lead *leads.LeadSubmission) error {
	payload := webhookPayload{
		LeadSubmission: *lead,
		Source:         "website",
		Timestamp:      c.now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("crm: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm: post lead: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("crm: webhook returned status %d", resp.StatusCode)
	}

	c.logger.Info("lead forwarded to CRM", "lead_id", lead.ID, "status", resp.StatusCode)
	return nil
}

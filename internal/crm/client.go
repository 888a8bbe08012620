package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

const (
	defaultTimeout = 20 * time.Second

	// Source tag the CRM uses to attribute contacts to the public form.
	ContactSource = "website_contact_form"
)

// Contact is the normalized payload the CRM accepts.
type Contact struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	City   string   `json:"city,omitempty"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

type pushRequest struct {
	Contact Contact `json:"contact"`
}

type pushResponse struct {
	ID string `json:"id"`
}

// Client is a lightweight HTTP client for the external CRM.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a CRM client. Empty credentials produce a client whose
// Configured method reports false; callers short-circuit instead of failing.
func NewClient(endpoint, apiKey string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Configured reports whether both endpoint and key are present.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// PushContact creates the contact in the CRM and returns the external id,
// when the CRM includes one. Any non-2xx response is an error.
func (c *Client) PushContact(ctx context.Context, contact Contact) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("crm: not configured")
	}

	contact.Source = ContactSource
	if len(contact.Tags) == 0 {
		contact.Tags = []string{"lead"}
	}

	payload, err := json.Marshal(pushRequest{Contact: contact})
	if err != nil {
		return "", fmt.Errorf("crm: marshal contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("crm: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("crm returned error status", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("crm: status %d: %s", resp.StatusCode, string(body))
	}

	var out pushResponse
	if err := json.Unmarshal(body, &out); err != nil {
		// A 2xx with a non-JSON body still counts as a successful sync.
		c.logger.Warn("crm response body not parseable", "error", err)
		return "", nil
	}
	return out.ID, nil
}

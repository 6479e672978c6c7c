// Package mailer sends contact-form notifications through the Resend
// transactional email API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/models"
)

// Email is one outgoing message.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Sender is the send-email capability the contact handler depends on.
type Sender interface {
	// Configured reports whether credentials are present. An unconfigured
	// sender must not be asked to send.
	Configured() bool

	// Send delivers e and returns the provider's message id.
	Send(ctx context.Context, e *Email) (string, error)
}

// Resend is a minimal Resend API client over net/http.
type Resend struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Sender = (*Resend)(nil)

// NewResend creates a client from the contact configuration.
// Pass a nil httpClient to use one with cfg.SendTimeout.
func NewResend(cfg config.ContactConfig, httpClient *http.Client) *Resend {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.SendTimeout}
	}
	return &Resend{
		apiKey:     cfg.ResendAPIKey,
		baseURL:    strings.TrimRight(cfg.ResendBaseURL, "/"),
		httpClient: httpClient,
	}
}

func (r *Resend) Configured() bool {
	return r.apiKey != ""
}

// sendResponse is the success body of POST /emails.
type sendResponse struct {
	ID string `json:"id"`
}

// errorResponse is the error body returned by the Resend API.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (r *Resend) Send(ctx context.Context, e *Email) (string, error) {
	if !r.Configured() {
		return "", models.NewSnapError(models.ErrCodeMailerNotConfigured, "RESEND_API_KEY is not configured", nil)
	}

	body, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("mailer: marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("mailer: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", models.NewSnapError(models.ErrCodeMailerSend, "email API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", models.NewSnapError(models.ErrCodeMailerSend, "failed to read email API response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return "", models.NewSnapError(models.ErrCodeMailerSend,
				fmt.Sprintf("email API error (HTTP %d, %s): %s", resp.StatusCode, apiErr.Name, apiErr.Message), nil)
		}
		return "", models.NewSnapError(models.ErrCodeMailerSend,
			fmt.Sprintf("email API returned HTTP %d", resp.StatusCode), nil)
	}

	var out sendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", models.NewSnapError(models.ErrCodeMailerSend, "malformed email API response", err)
	}
	return out.ID, nil
}

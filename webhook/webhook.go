// Package webhook notifies an HTTP endpoint when a snapshot run ends.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/startech-innovation/sitekit/models"
)

// Event types.
const (
	EventCompleted = "snapshot.completed"
	EventFailed    = "snapshot.failed"
)

// SignatureHeader carries "sha256=<hex>" when a secret is configured.
const SignatureHeader = "X-Sitekit-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string             `json:"type"`
	RunID     string             `json:"run_id"`
	Timestamp int64              `json:"timestamp"`
	Data      *models.RunSummary `json:"data"`
}

// NewEvent builds the event for a finished run: snapshot.failed when
// summary carries an error, snapshot.completed otherwise.
func NewEvent(runID string, summary *models.RunSummary) *Event {
	typ := EventCompleted
	if summary.Error != nil {
		typ = EventFailed
	}
	return &Event{
		Type:      typ,
		RunID:     runID,
		Timestamp: time.Now().Unix(),
		Data:      summary,
	}
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Notifier delivers events to one endpoint.
type Notifier struct {
	URL    string
	Secret string

	// Delays lists the wait before each attempt; the first is usually 0.
	Delays []time.Duration

	client *http.Client
}

// NewNotifier creates a Notifier with three attempts (immediately, after
// 1s, after 5s) and a 10s timeout per attempt.
func NewNotifier(url, secret string) *Notifier {
	return &Notifier{
		URL:    url,
		Secret: secret,
		Delays: []time.Duration{0, 1 * time.Second, 5 * time.Second},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver sends event once.
// The request body is signed with HMAC-SHA256 if the secret is non-empty.
func (n *Notifier) Deliver(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Sitekit-Webhook/1.0")
	if n.Secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+Sign(n.Secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Notify delivers event, retrying per Delays. It blocks until delivery
// succeeds, attempts run out or ctx ends, so a CLI can call it right
// before exiting.
func (n *Notifier) Notify(ctx context.Context, event *Event) error {
	var err error
	for attempt, delay := range n.Delays {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("webhook: %w (last error: %v)", ctx.Err(), err)
			case <-timer.C:
			}
		}

		err = n.Deliver(ctx, event)
		if err == nil {
			slog.Info("webhook delivered",
				"url", n.URL,
				"event", event.Type,
				"run_id", event.RunID,
				"attempt", attempt+1,
			)
			return nil
		}
		slog.Warn("webhook delivery failed",
			"url", n.URL,
			"event", event.Type,
			"run_id", event.RunID,
			"attempt", attempt+1,
			"error", err,
		)
	}
	return fmt.Errorf("webhook: all %d attempts failed: %w", len(n.Delays), err)
}

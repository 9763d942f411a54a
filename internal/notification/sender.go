// Package notification posts generation outcome events to a webhook.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/CodexForgeBR/storyboard-artist/internal/logging"
)

// SendTimeout bounds a single webhook delivery.
const SendTimeout = 10 * time.Second

// Payload is the JSON body posted to the webhook.
type Payload struct {
	ID      string    `json:"id"`
	Event   string    `json:"event"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Sender delivers events to one webhook URL. A nil Sender or one with an
// empty URL is a no-op.
type Sender struct {
	webhook string
	client  *http.Client
	now     func() time.Time
}

// NewSender returns a Sender for webhook. client may be nil.
func NewSender(webhook string, client *http.Client) *Sender {
	if client == nil {
		client = &http.Client{Timeout: SendTimeout}
	}
	return &Sender{webhook: webhook, client: client, now: time.Now}
}

// Enabled reports whether Send will deliver anything.
func (s *Sender) Enabled() bool {
	return s != nil && s.webhook != ""
}

// Send posts one event. Fire-and-forget: it never returns an error, and a
// failed delivery is only logged at debug level. The delivery is detached
// from ctx cancellation so an interrupt can still be reported.
func (s *Sender) Send(ctx context.Context, event, message string) {
	if !s.Enabled() {
		return
	}
	if err := s.post(context.WithoutCancel(ctx), event, message); err != nil {
		logging.Debug(fmt.Sprintf("Notification %s not delivered: %v", event, err))
	}
}

func (s *Sender) post(ctx context.Context, event, message string) error {
	ctx, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()

	body, err := json.Marshal(Payload{
		ID:      uuid.NewString(),
		Event:   event,
		Message: message,
		Time:    s.now().UTC(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhook, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}

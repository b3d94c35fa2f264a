package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// Notifier delivers operational alerts to the site owner.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
}

type resendEmailResponse struct {
	ID string `json:"id"`
}

type resendErrorResponse struct {
	Message string `json:"message"`
}

// ResendNotifier emails alerts through the Resend API.
type ResendNotifier struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	from       string
	recipients []string
	logger     zerolog.Logger
}

// NewResendNotifierFromConfig reads RESEND_API_KEY, RESEND_FROM_EMAIL and ALERT_EMAILS.
// It returns nil when any of them is unset.
func NewResendNotifierFromConfig(cfg map[string]string) *ResendNotifier {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	recipients := config.GetList(cfg, "ALERT_EMAILS")
	if apiKey == "" || from == "" || len(recipients) == 0 {
		return nil
	}
	return NewResendNotifier(&http.Client{Timeout: 10 * time.Second}, resendEndpoint, apiKey, from, recipients)
}

func NewResendNotifier(client *http.Client, endpoint, apiKey, from string, recipients []string) *ResendNotifier {
	return &ResendNotifier{
		client:     client,
		endpoint:   endpoint,
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		logger:     log.With().Str("component", "resendNotifier").Logger(),
	}
}

// Notify sends one plain-text email to every configured recipient.
func (n *ResendNotifier) Notify(ctx context.Context, subject, body string) error {
	payload, err := json.Marshal(resendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp resendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse resendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Msg("Sent alert email")
	}
	return nil
}

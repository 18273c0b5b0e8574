// Package call places outbound consultation calls through the carrier API
// and drives the simulated call-status stream shown while a call runs.
package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fairvio/backend/internal/config"
)

const twilioAPIBase = "https://api.twilio.com"

// ErrMissingCredentials means the carrier configuration was never injected.
var ErrMissingCredentials = errors.New("call: missing Twilio configuration")

// PlacementResult is the outcome of a call placement, in the shape the
// initiate-call function relays to the client.
type PlacementResult struct {
	Success bool   `json:"success"`
	CallSID string `json:"callSid,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TwilioClient places calls through the Twilio REST API. Placement retries
// a small fixed number of attempts with a fixed backoff; nothing else in
// the system retries automatically.
type TwilioClient struct {
	accountSID string
	authToken  string
	fromNumber string
	webhookURL string
	defaultTo  string

	baseURL  string
	attempts int
	backoff  time.Duration
	http     *http.Client
	log      zerolog.Logger
}

func NewTwilioClient(cfg config.Config, log zerolog.Logger) *TwilioClient {
	return &TwilioClient{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		fromNumber: cfg.TwilioFromNumber,
		webhookURL: cfg.TwilioWebhookURL,
		defaultTo:  cfg.DefaultToNumber,
		baseURL:    twilioAPIBase,
		attempts:   config.CallPlacementAttempts,
		backoff:    config.CallPlacementBackoff,
		http:       &http.Client{Timeout: cfg.HTTPTimeout},
		log:        log,
	}
}

// PlaceCall dials toNumber (or the configured default) from the configured
// number, pointing the call at the voice webhook.
func (c *TwilioClient) PlaceCall(ctx context.Context, toNumber string) (*PlacementResult, error) {
	if c.accountSID == "" || c.authToken == "" || c.fromNumber == "" {
		return nil, ErrMissingCredentials
	}
	if toNumber == "" {
		toNumber = c.defaultTo
	}
	if toNumber == "" {
		return nil, errors.New("call: no destination number")
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		sid, err := c.placeOnce(ctx, toNumber)
		if err == nil {
			c.log.Info().Str("call_sid", sid).Str("to", toNumber).Msg("call initiated")
			return &PlacementResult{Success: true, CallSID: sid, Message: "Call initiated successfully"}, nil
		}
		lastErr = err
		c.log.Warn().Err(err).Int("attempt", attempt).Msg("call placement failed")

		if attempt < c.attempts {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *TwilioClient) placeOnce(ctx context.Context, toNumber string) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	form := url.Values{
		"To":   {toNumber},
		"From": {c.fromNumber},
		"Url":  {c.webhookURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("call: carrier status=%d body=%s", resp.StatusCode, string(body))
	}

	var out struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.SID, nil
}

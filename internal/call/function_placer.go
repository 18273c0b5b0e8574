package call

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// FunctionPlacer places calls by invoking the initiate-call function, the
// same entry point the call screen uses, instead of talking to the carrier
// directly. The function chain ends at the TwilioClient, which owns the
// capped retry.
type FunctionPlacer struct {
	functionURL string
	source      string
	http        *http.Client
	log         zerolog.Logger
}

func NewFunctionPlacer(functionURL, source string, timeout time.Duration, log zerolog.Logger) *FunctionPlacer {
	return &FunctionPlacer{
		functionURL: functionURL,
		source:      source,
		http:        &http.Client{Timeout: timeout},
		log:         log,
	}
}

// PlaceCall forwards {phoneNumber, source, timestamp} to the function and
// relays its {success, callSid, message} answer.
func (p *FunctionPlacer) PlaceCall(ctx context.Context, toNumber string) (*PlacementResult, error) {
	payload := map[string]string{
		"source":    p.source,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if toNumber != "" {
		payload["phoneNumber"] = toNumber
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.functionURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result PlacementResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 || !result.Success {
		if result.Error == "" {
			result.Error = fmt.Sprintf("initiate-call status=%d", resp.StatusCode)
		}
		return &result, fmt.Errorf("call: %s", result.Error)
	}
	return &result, nil
}

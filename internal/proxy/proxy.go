// Package proxy hosts the serverless-style functions: stateless forwarders
// that relay a request to another backend and pass the answer through,
// adding only CORS headers and error propagation.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fairvio/backend/internal/call"
	"fairvio/backend/internal/config"
)

// Placer is satisfied by the TwilioClient; the twilio-call function is the
// one place the carrier API is actually reached.
type Placer interface {
	PlaceCall(ctx context.Context, toNumber string) (*call.PlacementResult, error)
}

// Handler carries the upstream endpoints the functions forward to.
type Handler struct {
	llmAPIURL         string
	twilioFunctionURL string
	twilio            Placer
	http              *http.Client
	log               zerolog.Logger
}

func NewHandler(cfg config.Config, twilio Placer, log zerolog.Logger) *Handler {
	return &Handler{
		llmAPIURL:         cfg.LLMAPIURL,
		twilioFunctionURL: cfg.TwilioFunctionURL,
		twilio:            twilio,
		http:              &http.Client{Timeout: cfg.HTTPTimeout},
		log:               log,
	}
}

// CORS applies the permissive function headers and answers preflights.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ChatLLM forwards {message, conversationHistory, isSummaryRequest} to the
// LLM API, which expects snake_case, and relays the answer verbatim.
func (h *Handler) ChatLLM(c *gin.Context) {
	var in struct {
		Message             string          `json:"message"`
		ConversationHistory json.RawMessage `json:"conversationHistory"`
		IsSummaryRequest    bool            `json:"isSummaryRequest"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upstream := map[string]any{
		"message":              in.Message,
		"conversation_history": in.ConversationHistory,
	}
	if in.IsSummaryRequest {
		upstream["is_summary_request"] = true
	}
	body, _ := json.Marshal(upstream)

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.llmAPIURL, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		h.log.Error().Err(err).Msg("chat-llm upstream unreachable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		h.log.Error().Int("status", resp.StatusCode).Msg("chat-llm upstream error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response from LLM: " + string(payload)})
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

// InitiateCall stamps a timestamp onto the request and forwards it to the
// twilio-call function.
func (h *Handler) InitiateCall(c *gin.Context) {
	var in map[string]any
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	in["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	body, _ := json.Marshal(in)

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.twilioFunctionURL, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		h.log.Error().Err(err).Msg("twilio-call function unreachable")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to initiate call: " + string(payload)})
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// TwilioCall places the outbound call through the carrier.
func (h *Handler) TwilioCall(c *gin.Context) {
	var in struct {
		PhoneNumber string `json:"phoneNumber"`
		Source      string `json:"source"`
		Timestamp   string `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.log.Info().Str("source", in.Source).Msg("placing outbound call")

	result, err := h.twilio.PlaceCall(c.Request.Context(), in.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, call.PlacementResult{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

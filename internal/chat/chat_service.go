// Package chat forwards conversations to the chat-llm function. The
// conversation itself lives with the caller; this service is stateless.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// WelcomeMessage opens every new conversation.
const WelcomeMessage = "Hello! I'm your AI legal assistant. How can I help you today?"

// HandoffPrefix introduces a call summary carried into the chat screen.
const HandoffPrefix = "Based on our recent call, here's what I understand about your situation: "

// HistoryEntry is one prior turn, oldest first.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Message             string         `json:"message"`
	ConversationHistory []HistoryEntry `json:"conversationHistory"`
	IsSummaryRequest    bool           `json:"isSummaryRequest,omitempty"`
}

type response struct {
	Response string `json:"response"`
	Summary  string `json:"summary"`
	Error    string `json:"error"`
}

// Client talks to the chat-llm function.
type Client struct {
	functionURL string
	http        *http.Client
	log         zerolog.Logger
}

func NewClient(functionURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		functionURL: functionURL,
		http:        &http.Client{Timeout: timeout},
		log:         log,
	}
}

// Send forwards the full history plus the new message and returns the
// assistant's reply. On failure the caller keeps its conversation unchanged
// and the failed user message stays visible.
func (c *Client) Send(ctx context.Context, message string, history []HistoryEntry) (string, error) {
	out, err := c.invoke(ctx, request{Message: message, ConversationHistory: history})
	if err != nil {
		return "", err
	}
	if out.Response == "" {
		return "", errors.New("chat: empty response from function")
	}
	return out.Response, nil
}

// Summarize asks the same endpoint for a conversation summary, flagged as a
// summary request. Some deployments answer in the response field instead.
func (c *Client) Summarize(ctx context.Context, history []HistoryEntry) (string, error) {
	out, err := c.invoke(ctx, request{
		Message:             "Please summarize our conversation.",
		ConversationHistory: history,
		IsSummaryRequest:    true,
	})
	if err != nil {
		return "", err
	}
	if out.Summary != "" {
		return out.Summary, nil
	}
	if out.Response != "" {
		return out.Response, nil
	}
	return "", errors.New("chat: empty summary from function")
}

func (c *Client) invoke(ctx context.Context, in request) (*response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.functionURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.log.Error().Int("status", resp.StatusCode).Msg("chat function call failed")
		return nil, fmt.Errorf("chat: function status=%d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("chat: %s", out.Error)
	}
	return &out, nil
}

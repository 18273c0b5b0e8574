package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairvio/backend/internal/chat"
)

type chatRequest struct {
	Message             string              `json:"message" binding:"required"`
	ConversationHistory []chat.HistoryEntry `json:"conversationHistory"`
}

// SendChat forwards the conversation to the chat function and returns the
// assistant's reply. On failure the client keeps its message list untouched
// and may retry manually.
func (h *Handler) SendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.Chat.Send(c.Request.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		h.Log.Error().Err(err).Msg("chat request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get a response. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

type summaryRequest struct {
	ConversationHistory []chat.HistoryEntry `json:"conversationHistory" binding:"required"`
}

// ChatSummary ends a conversation: asks the chat function for a summary and
// parks it in the hand-off slot so the report flow can pick it up.
func (h *Handler) ChatSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.Chat.Summarize(c.Request.Context(), req.ConversationHistory)
	if err != nil {
		h.Log.Error().Err(err).Msg("chat summary failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Couldn't generate your summary. Try again?"})
		return
	}

	if err := h.Handoff.Put(h.visitorID(c), summary); err != nil {
		h.Log.Error().Err(err).Msg("could not store summary hand-off")
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary, "reportRedirect": "/report-issue"})
}

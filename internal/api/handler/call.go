package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairvio/backend/internal/call"
)

type placeCallRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// PlaceCall triggers the outbound consultation call through the
// initiate-call function. The displayed call lifecycle is driven separately
// over the websocket and does not wait for this to succeed.
func (h *Handler) PlaceCall(c *gin.Context) {
	var req placeCallRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.Placer.PlaceCall(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		h.Log.Error().Err(err).Msg("call initiation failed")
		c.JSON(http.StatusBadGateway, call.PlacementResult{Success: false, Error: "Couldn't start the call. Try again?"})
		return
	}
	c.JSON(http.StatusOK, result)
}

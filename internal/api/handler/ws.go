package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fairvio/backend/internal/call"
	"fairvio/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The call page is served from this origin; tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeCallWS upgrades the connection and streams the simulated call
// lifecycle to the call screen. Closing the socket cancels the session and
// stops its timers.
func (h *Handler) ServeCallWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	session := call.NewSession(call.DefaultTimings(), h.Placer, h.Chat, h.Handoff, h.Log)
	h.runCallSocket(c, conn, session)
}

func (h *Handler) runCallSocket(c *gin.Context, conn *websocket.Conn, session *call.Session) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go session.Run(ctx, h.visitorID(c), c.Query("phoneNumber"))

	go h.callReadPump(conn, session, cancel)
	h.callWritePump(conn, session)
}

// callReadPump consumes caller commands; only {action:"end"} matters.
func (h *Handler) callReadPump(conn *websocket.Conn, session *call.Session, cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug().Err(err).Msg("call socket closed")
			}
			return
		}

		var cmd models.CallCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			h.Log.Warn().Err(err).Msg("bad call command frame")
			continue
		}
		if cmd.Action == "end" {
			session.End(cmd)
		}
	}
}

// callWritePump relays status updates to the socket and keeps it alive with
// pings; it returns when the session closes its update stream.
func (h *Handler) callWritePump(conn *websocket.Conn, session *call.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case update, ok := <-session.Updates():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

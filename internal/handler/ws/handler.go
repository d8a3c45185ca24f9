package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatHandler "github.com/guru-ai/coursechat/backend/internal/handler/chat"
	"github.com/guru-ai/coursechat/backend/internal/logger"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler serves the live widget channel over WebSocket.
type Handler struct {
	widgets  *chatService.Registry
	upgrader websocket.Upgrader
}

// New creates the WebSocket handler. checkOrigin may be nil to accept any
// origin.
func New(widgets *chatService.Registry, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		widgets: widgets,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the socket under a {profileID} route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	widget, ok := chatHandler.Widget(w, r, h.widgets)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}
	defer conn.Close()

	state, events, unsubscribe := widget.Watch()
	defer unsubscribe()

	out := make(chan outgoingMessage, 16)
	out <- outgoingMessage{Type: "snapshot", Data: state}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go writePump(ctx, conn, events, out)

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warn("ws_read_failed", zap.String("session", widget.SessionID()), zap.Error(err))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendNonBlocking(out, outgoingMessage{Type: "error", Data: "invalid message"})
			continue
		}

		switch msg.Type {
		case "send":
			// Replies arrive as widget events; the read loop stays free so
			// the visitor can keep typing.
			go widget.Submit(ctx, msg.Text)
		case "reset":
			if err := widget.Reset(ctx); err != nil {
				logger.Log.Error("widget_reset_failed", zap.String("session", widget.SessionID()), zap.Error(err))
				sendNonBlocking(out, outgoingMessage{Type: "error", Data: "reset failed"})
			}
		default:
			sendNonBlocking(out, outgoingMessage{Type: "error", Data: "unknown message type"})
		}
	}
}

func writePump(ctx context.Context, conn *websocket.Conn, events <-chan chatService.Event, out <-chan outgoingMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(v interface{}) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v) == nil
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-out:
			if !write(msg) {
				return
			}
		case ev, open := <-events:
			if !open {
				return
			}
			if !write(outgoingMessage{Type: string(ev.Type), Data: ev}) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func sendNonBlocking(out chan<- outgoingMessage, msg outgoingMessage) {
	select {
	case out <- msg:
	default:
	}
}

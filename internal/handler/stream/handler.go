package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatHandler "github.com/guru-ai/coursechat/backend/internal/handler/chat"
	"github.com/guru-ai/coursechat/backend/internal/logger"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
	"github.com/guru-ai/coursechat/backend/pkg/utils"
)

const heartbeatInterval = 15 * time.Second

// Handler pushes widget changes to the page via Server-Sent Events.
type Handler struct {
	widgets   *chatService.Registry
	heartbeat time.Duration
}

// New creates a new stream handler
func New(widgets *chatService.Registry) *Handler {
	return &Handler{widgets: widgets, heartbeat: heartbeatInterval}
}

// RegisterRoutes mounts the stream under a {profileID} route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	widget, ok := chatHandler.Widget(w, r, h.widgets)
	if !ok {
		return
	}

	// The snapshot goes first so the page can render without a separate
	// fetch; events on the channel all come after it.
	state, events, unsubscribe := widget.Watch()
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if err := utils.SendSSEEvent(w, flusher, "snapshot", state); err != nil {
		return
	}

	ctx := r.Context()
	logger.Log.Debug("sse_stream_opened", zap.String("session", widget.SessionID()))
	defer logger.Log.Debug("sse_stream_closed", zap.String("session", widget.SessionID()))

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, string(ev.Type), ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		}
	}
}

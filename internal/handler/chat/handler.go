package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/logger"
	"github.com/guru-ai/coursechat/backend/internal/model/chat"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
	"github.com/guru-ai/coursechat/backend/pkg/utils"
)

// Handler serves the widget HTTP API
type Handler struct {
	widgets *chatService.Registry
}

// New creates a chat handler
func New(widgets *chatService.Registry) *Handler {
	return &Handler{widgets: widgets}
}

// RegisterRoutes mounts the chat routes under a {profileID} route
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.handleGetSession)
	r.Get("/messages", h.handleListMessages)
	r.Post("/messages", h.handleSendMessage)
	r.Delete("/messages", h.handleReset)
}

type transcriptResponse struct {
	SessionID string            `json:"sessionId"`
	Messages  chat.Conversation `json:"messages"`
	Typing    bool              `json:"typing"`
}

// Widget resolves the widget addressed by the {profileID} URL parameter and
// writes the error response itself when it cannot.
func Widget(w http.ResponseWriter, r *http.Request, widgets *chatService.Registry) (*chatService.Widget, bool) {
	widget, err := widgets.Get(r.Context(), chi.URLParam(r, "profileID"))
	if errors.Is(err, chatService.ErrInvalidProfile) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err != nil {
		logger.Log.Error("widget_restore_failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "storage unavailable")
		return nil, false
	}
	return widget, true
}

// handleGetSession returns the session identifier
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	widget, ok := Widget(w, r, h.widgets)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"sessionId": widget.SessionID()})
}

// handleListMessages returns the whole conversation
func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	widget, ok := Widget(w, r, h.widgets)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcriptResponse{
		SessionID: widget.SessionID(),
		Messages:  widget.Messages(),
		Typing:    widget.Typing(),
	})
}

// handleSendMessage submits a user message and waits for the bot reply
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	widget, ok := Widget(w, r, h.widgets)
	if !ok {
		return
	}

	reply, submitted := widget.Submit(r.Context(), payload.Text)
	if !submitted {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]chat.Message{"reply": reply})
}

// handleReset clears the conversation and greets again
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	widget, ok := Widget(w, r, h.widgets)
	if !ok {
		return
	}
	if err := widget.Reset(r.Context()); err != nil {
		logger.Log.Error("widget_reset_failed", zap.String("session", widget.SessionID()), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcriptResponse{
		SessionID: widget.SessionID(),
		Messages:  widget.Messages(),
	})
}

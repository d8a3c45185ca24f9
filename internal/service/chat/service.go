package chat

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/logger"
	"github.com/guru-ai/coursechat/backend/internal/model/chat"
	"github.com/guru-ai/coursechat/backend/internal/service/session"
	"github.com/guru-ai/coursechat/backend/internal/service/transcript"
	"github.com/guru-ai/coursechat/backend/internal/storage"
)

// Replier produces the bot answer for one user message. It is called at
// most once per submission; an error becomes the connection-error message.
type Replier interface {
	Reply(ctx context.Context, req chat.ReplyRequest) (string, error)
}

// Options tunes a widget.
type Options struct {
	// Greeting replaces the default opening bot message.
	Greeting string
}

// Widget holds one visitor's conversation and talks to the replier.
type Widget struct {
	sessionID  string
	transcript *transcript.Store
	replier    Replier
	greeting   string

	// slot admits one outbound request at a time so replies land in
	// submission order.
	slot chan struct{}

	mu      sync.RWMutex
	conv    chat.Conversation
	pending int
	// generation increments on every Reset; a reply requested under an
	// older generation is not recorded.
	generation uint64
	subs       map[int]chan Event
	nextSub    int
}

// NewWidget restores the widget state kept in kv: the session identifier and
// the transcript, falling back to a fresh greeting.
func NewWidget(ctx context.Context, kv storage.Store, replier Replier, opts Options) (*Widget, error) {
	sessionID, err := session.NewProvider(kv).GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	w := &Widget{
		sessionID:  sessionID,
		transcript: transcript.New(kv),
		replier:    replier,
		greeting:   opts.Greeting,
		slot:       make(chan struct{}, 1),
		subs:       make(map[int]chan Event),
	}

	conv, ok, err := w.transcript.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		conv = chat.NewConversation(w.greeting)
		if err := w.transcript.Save(ctx, conv); err != nil {
			return nil, err
		}
	}
	w.conv = conv
	return w, nil
}

// SessionID returns the identifier attached to every outbound request.
func (w *Widget) SessionID() string {
	return w.sessionID
}

// Messages returns a snapshot of the conversation, oldest first.
func (w *Widget) Messages() chat.Conversation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.conv.Clone()
}

// Typing reports whether a reply is outstanding.
func (w *Widget) Typing() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pending > 0
}

// Submit sends one user message. Blank input is ignored and reported with
// ok=false. Otherwise the user message is appended right away, exactly one
// request goes out, and the bot reply (or the connection-error text) is
// appended and returned. Cancelling ctx does not abort an issued request.
// A reply that arrives after a Reset is returned but not recorded.
func (w *Widget) Submit(ctx context.Context, text string) (reply chat.Message, ok bool) {
	if chat.IsBlank(text) {
		return chat.Message{}, false
	}
	ctx = context.WithoutCancel(ctx)

	w.mu.Lock()
	history := w.appendLocked(ctx, chat.UserMessage(text))
	generation := w.generation
	w.pending++
	if w.pending == 1 {
		w.broadcastLocked(Event{Type: EventTyping, Typing: true})
	}
	w.mu.Unlock()

	w.slot <- struct{}{}
	answer, err := w.replier.Reply(ctx, chat.ReplyRequest{
		Text:      text,
		SessionID: w.sessionID,
		History:   history,
	})
	<-w.slot

	if err != nil {
		logger.Log.Error("reply_failed", zap.String("session", w.sessionID), zap.Error(err))
		reply = chat.BotMessage(chat.ConnectionErrorText)
	} else {
		reply = chat.BotMessage(answer)
	}

	w.mu.Lock()
	if w.generation == generation {
		w.appendLocked(ctx, reply)
	} else {
		logger.Log.Debug("reply_dropped_after_reset", zap.String("session", w.sessionID))
	}
	w.pending--
	if w.pending == 0 {
		w.broadcastLocked(Event{Type: EventTyping, Typing: false})
	}
	w.mu.Unlock()

	return reply, true
}

// Reset drops the stored transcript and starts over from the greeting. The
// session identifier is kept.
func (w *Widget) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.transcript.Clear(ctx); err != nil {
		return fmt.Errorf("reset widget: %w", err)
	}
	w.generation++
	w.conv = chat.NewConversation(w.greeting)
	if err := w.transcript.Save(ctx, w.conv); err != nil {
		return fmt.Errorf("reset widget: %w", err)
	}
	greeting := w.conv[0]
	w.broadcastLocked(Event{Type: EventReset, Message: &greeting})
	return nil
}

// appendLocked adds msg, mirrors the conversation to storage and notifies
// subscribers. Storage failures are logged; the in-memory state still moves.
func (w *Widget) appendLocked(ctx context.Context, msg chat.Message) chat.Conversation {
	w.conv = w.conv.Append(msg)
	if err := w.transcript.Save(ctx, w.conv); err != nil {
		logger.Log.Error("transcript_save_failed", zap.String("session", w.sessionID), zap.Error(err))
	}
	m := msg
	w.broadcastLocked(Event{Type: EventMessage, Message: &m})
	return w.conv
}

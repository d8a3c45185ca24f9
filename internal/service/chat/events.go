package chat

import "github.com/guru-ai/coursechat/backend/internal/model/chat"

// EventType names a widget state change.
type EventType string

const (
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	// EventReset carries the greeting the conversation restarted from.
	EventReset EventType = "reset"
)

// Event is pushed to renderers whenever the conversation or the typing
// indicator changes.
type Event struct {
	Type    EventType     `json:"type"`
	Message *chat.Message `json:"message,omitempty"`
	Typing  bool          `json:"typing"`
}

// State is what a renderer draws before applying events.
type State struct {
	SessionID string            `json:"sessionId"`
	Messages  chat.Conversation `json:"messages"`
	Typing    bool              `json:"typing"`
}

const subscriberBuffer = 32

// Subscribe registers a renderer. Events are dropped for a subscriber whose
// buffer is full. The returned func unsubscribes and closes the channel.
func (w *Widget) Subscribe() (<-chan Event, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.subscribeLocked()
}

// Watch subscribes and returns the state the first delivered event applies
// to. Every change after the snapshot arrives on the channel exactly once.
func (w *Widget) Watch() (State, <-chan Event, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	state := State{
		SessionID: w.sessionID,
		Messages:  w.conv.Clone(),
		Typing:    w.pending > 0,
	}
	ch, cancel := w.subscribeLocked()
	return state, ch, cancel
}

func (w *Widget) subscribeLocked() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch

	var once bool
	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if once {
			return
		}
		once = true
		delete(w.subs, id)
		close(ch)
	}
	return ch, cancel
}

func (w *Widget) broadcastLocked(ev Event) {
	for _, ch := range w.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

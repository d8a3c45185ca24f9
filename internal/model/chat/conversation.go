package chat

// Conversation is the ordered transcript, oldest first.
type Conversation []Message

// NewConversation seeds a conversation with the bot greeting.
func NewConversation(greeting string) Conversation {
	if greeting == "" {
		greeting = GreetingText
	}
	return Conversation{BotMessage(greeting)}
}

// Append returns a new conversation with msg added at the end. The receiver
// is never mutated, so snapshots handed out earlier stay stable.
func (c Conversation) Append(msg Message) Conversation {
	next := make(Conversation, len(c), len(c)+1)
	copy(next, c)
	return append(next, msg)
}

// Clone returns an independent copy.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return nil
	}
	return append(Conversation(nil), c...)
}

// Last returns the newest message, if any.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

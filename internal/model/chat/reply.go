package chat

// ReplyRequest is what a replier receives for one submitted message.
type ReplyRequest struct {
	Text      string
	SessionID string
	// History is the conversation up to and including the user message.
	History Conversation
}

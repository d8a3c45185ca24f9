package transcript

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/logger"
	"github.com/guru-ai/coursechat/backend/internal/model/chat"
	"github.com/guru-ai/coursechat/backend/internal/storage"
)

// Key is the storage slot holding the serialized conversation.
const Key = "chatMessages"

// Store mirrors a conversation into a key-value slot as a JSON array.
type Store struct {
	kv storage.Store
}

// New returns a transcript Store over kv.
func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted conversation. ok is false when nothing usable
// is stored: an absent slot, or one that no longer decodes. A corrupt value
// is logged and left to be overwritten by the next Save.
func (s *Store) Load(ctx context.Context) (chat.Conversation, bool, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, false, fmt.Errorf("read transcript: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	conv, err := decode(raw)
	if err != nil {
		logger.Log.Warn("transcript_corrupt", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil, false, nil
	}
	return conv, true, nil
}

// Save overwrites the slot with the whole conversation.
func (s *Store) Save(ctx context.Context, conv chat.Conversation) error {
	if conv == nil {
		conv = chat.Conversation{}
	}
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Clear removes the persisted transcript.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

func decode(raw string) (chat.Conversation, error) {
	var conv chat.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("transcript is null")
	}
	for i, msg := range conv {
		if !msg.Sender.Valid() {
			return nil, fmt.Errorf("message %d has unknown sender %q", i, msg.Sender)
		}
	}
	return conv, nil
}

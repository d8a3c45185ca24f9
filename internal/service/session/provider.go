package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/guru-ai/coursechat/backend/internal/storage"
)

// Key is the storage slot holding the session identifier.
const Key = "sessionId"

// Provider hands out the stable per-profile session identifier.
type Provider struct {
	store storage.Store
	newID func() string
}

// NewProvider returns a Provider reading and writing the Key slot of store.
func NewProvider(store storage.Store) *Provider {
	return &Provider{store: store, newID: uuid.NewString}
}

// GetOrCreate returns the persisted identifier, creating and persisting a
// random UUID on first use. An existing value is never replaced.
func (p *Provider) GetOrCreate(ctx context.Context) (string, error) {
	id, ok, err := p.store.Get(ctx, Key)
	if err != nil {
		return "", fmt.Errorf("read session id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = p.newID()
	if err := p.store.Set(ctx, Key, id); err != nil {
		return "", fmt.Errorf("persist session id: %w", err)
	}
	return id, nil
}

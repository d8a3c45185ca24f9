package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/guru-ai/coursechat/backend/internal/service/chat"
	"github.com/guru-ai/coursechat/backend/internal/storage"
)

func TestRegistryReturnsSameWidget(t *testing.T) {
	reg := chat.NewRegistry(storage.NewMemoryStore(), &stubReplier{}, chat.Options{})
	ctx := context.Background()

	a, err := reg.Get(ctx, "visitor-1")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestRegistryIsolatesProfiles(t *testing.T) {
	kv := storage.NewMemoryStore()
	reg := chat.NewRegistry(kv, &stubReplier{reply: "ok"}, chat.Options{})
	ctx := context.Background()

	a, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "b")
	require.NoError(t, err)

	assert.NotEqual(t, a.SessionID(), b.SessionID())
	a.Submit(ctx, "hello")
	assert.Len(t, a.Messages(), 3)
	assert.Len(t, b.Messages(), 1)

	// A new registry over the same store restores both profiles.
	again, err := chat.NewRegistry(kv, &stubReplier{}, chat.Options{}).Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, a.SessionID(), again.SessionID())
	assert.Len(t, again.Messages(), 3)
}

func TestRegistryRejectsBadProfile(t *testing.T) {
	reg := chat.NewRegistry(storage.NewMemoryStore(), &stubReplier{}, chat.Options{})
	for _, id := range []string{"", "a/b", "with space", string(make([]byte, 65))} {
		_, err := reg.Get(context.Background(), id)
		assert.ErrorIs(t, err, chat.ErrInvalidProfile, "id %q", id)
	}
}

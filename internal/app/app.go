package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/config"
	"github.com/guru-ai/coursechat/backend/internal/logger"
	"github.com/guru-ai/coursechat/backend/internal/service/ai"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
	"github.com/guru-ai/coursechat/backend/internal/service/webhook"
	"github.com/guru-ai/coursechat/backend/internal/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore returns the configured key-value store and a closer for it.
func OpenStore(cfg config.StorageConfig) (storage.Store, io.Closer, error) {
	if !cfg.Persistent() {
		logger.Log.Warn("storage_in_memory", zap.String("hint", "set STORAGE_PATH to keep transcripts across restarts"))
		return storage.NewMemoryStore(), nopCloser{}, nil
	}
	store, err := storage.OpenPebble(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

// NewReplier builds the backend that answers widget messages.
func NewReplier(ctx context.Context, cfg *config.Config, httpClient *http.Client) (chatService.Replier, error) {
	switch cfg.Replier {
	case config.ReplierArk:
		svc, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("init ark replier: %w", err)
		}
		logger.Log.Info("replier_ready", zap.String("kind", config.ReplierArk), zap.String("model", cfg.AI.Model))
		return svc, nil
	default:
		variant, err := webhook.ParseVariant(cfg.Webhook.Variant)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("replier_ready",
			zap.String("kind", config.ReplierWebhook),
			zap.String("url", cfg.Webhook.URL),
			zap.String("variant", string(variant)),
		)
		return webhook.NewClient(cfg.Webhook.URL, variant, httpClient), nil
	}
}

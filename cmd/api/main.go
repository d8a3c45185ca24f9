package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/app"
	"github.com/guru-ai/coursechat/backend/internal/config"
	"github.com/guru-ai/coursechat/backend/internal/handler"
	"github.com/guru-ai/coursechat/backend/internal/logger"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	if err := logger.Init(os.Getenv("LOG_LEVEL")); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Log.Info("dotenv_not_loaded", zap.Error(envErr))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal("config_load_failed", zap.Error(err))
	}

	store, closer, err := app.OpenStore(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("storage_open_failed", zap.Error(err))
	}
	defer closer.Close()

	replier, err := app.NewReplier(ctx, cfg, nil)
	if err != nil {
		logger.Log.Fatal("replier_init_failed", zap.Error(err))
	}

	widgets := chatService.NewRegistry(store, replier, chatService.Options{Greeting: cfg.Greeting})
	router := handler.NewRouter(widgets, cfg.Server.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Log.Info("server_listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Log.Error("server_error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

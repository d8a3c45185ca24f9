package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/guru-ai/coursechat/backend/internal/handler/chat"
	"github.com/guru-ai/coursechat/backend/internal/handler/stream"
	"github.com/guru-ai/coursechat/backend/internal/handler/ws"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
	"github.com/guru-ai/coursechat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the widget registry.
func NewRouter(widgets *chatService.Registry, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chatHandler := chat.New(widgets)
	streamHandler := stream.New(widgets)
	wsHandler := ws.New(widgets, originChecker(allowedOrigins))

	r.Route("/api/profiles/{profileID}", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}

// originChecker applies the CORS allow-list to WebSocket upgrades.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return nil
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guru-ai/coursechat/backend/internal/model/chat"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
	"github.com/guru-ai/coursechat/backend/internal/storage"
)

type okReplier struct{}

func (okReplier) Reply(context.Context, chat.ReplyRequest) (string, error) { return "ok", nil }

func newTestRouter(origins ...string) http.Handler {
	registry := chatService.NewRegistry(storage.NewMemoryStore(), okReplier{}, chatService.Options{})
	return NewRouter(registry, origins)
}

func TestHealthz(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter("*").ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestProfileRoutesMounted(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter("*").ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/profiles/alice/messages", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/profiles/alice/messages", nil)
	req.Header.Set("Origin", "https://school.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()

	newTestRouter("https://school.example").ServeHTTP(resp, req)

	assert.Equal(t, "https://school.example", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginChecker(t *testing.T) {
	assert.Nil(t, originChecker([]string{"*"}))

	check := originChecker([]string{"https://a.example"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://a.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))
}

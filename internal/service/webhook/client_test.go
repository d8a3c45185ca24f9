package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guru-ai/coursechat/backend/internal/model/chat"
)

func TestClientSessionVariant(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"output":"Подобрали 3 курса"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, VariantSession, srv.Client())
	text, err := c.Reply(context.Background(), chat.ReplyRequest{Text: "ФГОС", SessionID: "sid-1"})
	require.NoError(t, err)

	assert.Equal(t, "Подобрали 3 курса", text)
	assert.Equal(t, map[string]any{"chatInput": "ФГОС", "sessionId": "sid-1"}, got)
}

func TestClientLegacyVariant(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	text, err := NewClient(srv.URL, VariantLegacy, nil).Reply(context.Background(), chat.ReplyRequest{Text: "hi", SessionID: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "ok", text)
	assert.Equal(t, map[string]any{"message": "hi"}, got)
}

func TestClientUnrecognizedBodyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"foo":"bar"}`))
	}))
	defer srv.Close()

	text, err := NewClient(srv.URL, VariantSession, nil).Reply(context.Background(), chat.ReplyRequest{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, chat.AcknowledgementText, text)
}

func TestClientNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, VariantSession, nil).Reply(context.Background(), chat.ReplyRequest{Text: "hi"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, VariantSession, nil).Reply(context.Background(), chat.ReplyRequest{Text: "hi"})
	assert.Error(t, err)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantSession, v)

	v, err = ParseVariant("legacy")
	require.NoError(t, err)
	assert.Equal(t, VariantLegacy, v)

	_, err = ParseVariant("soap")
	assert.Error(t, err)
}

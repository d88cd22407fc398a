package lineapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linebridge/internal/logger"
	"linebridge/pkg/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestClient_BotInfo(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/bot/info", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]string{
			"userId":      "U-bot",
			"basicId":     "@bridge",
			"displayName": "Bridge Bot",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", fastPolicy(), nil, logger.NopLogger())

	info, err := client.BotInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Bridge Bot", info.DisplayName)
	assert.Equal(t, "U-bot", info.UserID)
}

func TestClient_ReplyText(t *testing.T) {
	var gotBody replyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", fastPolicy(), nil, logger.NopLogger())

	require.NoError(t, client.ReplyText(context.Background(), "reply-token-1", "hello"))

	assert.Equal(t, "reply-token-1", gotBody.ReplyToken)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "text", gotBody.Messages[0].Type)
	assert.Equal(t, "hello", gotBody.Messages[0].Text)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"displayName": "Bridge Bot"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", fastPolicy(), nil, logger.NopLogger())

	info, err := client.BotInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bridge Bot", info.DisplayName)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", fastPolicy(), nil, logger.NopLogger())

	_, err := client.BotInfo(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_DefaultEndpoint(t *testing.T) {
	client := NewClient("", "token", retry.DefaultPolicy(), nil, logger.NopLogger())
	assert.Equal(t, "https://api.line.me", client.endpoint)
}

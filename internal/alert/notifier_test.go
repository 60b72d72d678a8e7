package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWebhookNotifierRequiresURL(t *testing.T) {
	_, err := NewWebhookNotifier("", zap.NewNop())
	assert.Error(t, err)
}

func TestWebhookNotifierSend(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	n, err := NewWebhookNotifier(server.URL, zap.NewNop())
	require.NoError(t, err)
	defer n.Close()

	require.NoError(t, n.Send(context.Background(), "portfolio exposure limit breached"))
	assert.Equal(t, "portfolio exposure limit breached", received["content"])
}

func TestWebhookNotifierSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n, err := NewWebhookNotifier(server.URL, zap.NewNop())
	require.NoError(t, err)

	err = n.Send(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestNoOpNotifier(t *testing.T) {
	n := NewNoOpNotifier()
	assert.NoError(t, n.Send(context.Background(), "ignored"))
	assert.NoError(t, n.Close())
}

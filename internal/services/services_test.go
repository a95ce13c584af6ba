package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deepgram/intake/internal/infrastructure/openai"
	sdk "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientsUseCallerKey(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "thread_abc", "object": "thread"})
	}))
	defer server.Close()

	clients := OpenAIClients(openai.NewServiceWithBaseURL(server.URL + "/v1"))

	t.Run("rejects a missing key", func(t *testing.T) {
		_, err := clients("")
		assert.ErrorIs(t, err, openai.ErrMissingKey)
	})

	t.Run("sends the caller's key", func(t *testing.T) {
		api, err := clients("sk-user")
		require.NoError(t, err)

		thread, err := api.CreateThread(context.Background(), sdk.ThreadRequest{})
		require.NoError(t, err)
		assert.Equal(t, "thread_abc", thread.ID)
		assert.Equal(t, "/v1/threads", gotPath)
		assert.Equal(t, "Bearer sk-user", gotAuth)
	})
}

func TestNewServicesClose(t *testing.T) {
	svc := NewServices(nil, nil)
	require.NotNil(t, svc.GetConnectionManager())
	assert.NoError(t, svc.Close())
}

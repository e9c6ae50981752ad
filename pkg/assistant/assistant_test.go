package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsConversationAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		var in completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, uint(12), in.ConversationID)
		assert.Equal(t, "How do I fix my swing?", in.Message)
		_ = json.NewEncoder(w).Encode(completionResponse{Reply: "Keep your hands inside the ball."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1", time.Second)
	reply, err := c.Complete(context.Background(), 12, "How do I fix my swing?")
	require.NoError(t, err)
	assert.Equal(t, "Keep your hands inside the ball.", reply)
}

func TestCompleteSurfacesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(completionResponse{Error: "model overloaded"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Complete(context.Background(), 1, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")

	_, err = NewClient("", "", 0).Complete(context.Background(), 1, "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

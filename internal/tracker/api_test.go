package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbn01-acc/lifefocus-sub002/internal/handler"
)

func TestAPIFlusherSendsBearerTokenAndPayload(t *testing.T) {
	var auth string
	var got handler.FlushActivityRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewAPIFlusher(srv.URL, "secret-token")
	day := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	require.NoError(t, f.Flush(context.Background(), 7, day, 5))

	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "2026-08-31", got.ActivityDate)
	assert.Equal(t, 5, got.TimeSpentMinutes)
}

func TestAPIFlusherRejectedFlushIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := NewAPIFlusher(srv.URL, "bad-token")

	assert.Error(t, f.Flush(context.Background(), 7, time.Now(), 5))
}

package tts

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

func TestClient_SynthesizeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, apiSynthesize, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Once upon a time.", req.Text)
		assert.Equal(t, "amelia", req.Voice)

		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF....WAVE"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	audio, err := client.Synthesize(context.Background(), Request{
		Text:  "Once upon a time.",
		Voice: "amelia",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF....WAVE"), audio)
}

func TestClient_SynthesizeEmptyText(t *testing.T) {
	client := NewClient("http://localhost:1", time.Second)

	_, err := client.Synthesize(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestClient_SynthesizeStructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Detail:    "unknown voice",
			ErrorCode: "UNKNOWN_VOICE",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), Request{Text: "hi", Voice: "nobody"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown voice")
	assert.Contains(t, err.Error(), "UNKNOWN_VOICE")
}

func TestClient_SynthesizeEmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), Request{Text: "hi"})
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestClient_SynthesizeUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)

	_, err := client.Synthesize(context.Background(), Request{Text: "hi"})
	assert.Error(t, err)
}

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiHealth, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestClient_HealthCheckUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	assert.Error(t, client.HealthCheck(context.Background()))
}

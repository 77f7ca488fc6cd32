package tts

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"voxlate/core"

	"github.com/stretchr/testify/require"
)

func TestNewSynthesizerRequiresAPIKey(t *testing.T) {
	_, err := NewSynthesizer(Config{}, core.NewLogger(nil))
	require.Error(t, err)
}

func TestSynthesize(t *testing.T) {
	pcm := []byte{0x00, 0x40, 0x00, 0xC0}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/pcm")
		w.Write(pcm)
	}))
	defer srv.Close()

	s, err := NewSynthesizer(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, core.NewLogger(nil))
	require.NoError(t, err)

	payload, err := s.Synthesize(context.Background(), "hola", core.DefaultVoice)
	require.NoError(t, err)
	require.Equal(t, base64.StdEncoding.EncodeToString(pcm), payload)
}

func TestSynthesizeEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewSynthesizer(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, core.NewLogger(nil))
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "hola", core.DefaultVoice)
	require.ErrorContains(t, err, "no audio data")
}

func TestSynthesizeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s, err := NewSynthesizer(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, core.NewLogger(nil))
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "hola", core.DefaultVoice)
	require.Error(t, err)
}

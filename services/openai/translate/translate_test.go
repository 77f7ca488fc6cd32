package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"voxlate/core"

	"github.com/stretchr/testify/require"
)

func TestNewTranslatorRequiresAPIKey(t *testing.T) {
	_, err := NewTranslator(Config{}, core.NewLogger(nil))
	require.Error(t, err)
}

func TestTranslateIdenticalLanguages(t *testing.T) {
	// Any request reaching the server fails the test: an identical language
	// pair must pass the text through without network interaction.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	tr, err := NewTranslator(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, core.NewLogger(nil))
	require.NoError(t, err)

	out, err := tr.Translate(context.Background(), "Good morning", "en", "en")
	require.NoError(t, err)
	require.Equal(t, "Good morning", out)
}

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Buenos días  "}}]}`))
	}))
	defer srv.Close()

	tr, err := NewTranslator(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, core.NewLogger(nil))
	require.NoError(t, err)

	out, err := tr.Translate(context.Background(), "Good morning", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "Buenos días", out, "surrounding whitespace is trimmed")
}

func TestTranslateEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`))
	}))
	defer srv.Close()

	tr, err := NewTranslator(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, core.NewLogger(nil))
	require.NoError(t, err)

	_, err = tr.Translate(context.Background(), "Good morning", "en", "es")
	require.Error(t, err)
}

func TestTranslateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	tr, err := NewTranslator(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, core.NewLogger(nil))
	require.NoError(t, err)

	_, err = tr.Translate(context.Background(), "Good morning", "en", "es")
	require.Error(t, err)
}

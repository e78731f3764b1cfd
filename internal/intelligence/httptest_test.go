package intelligence

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/chronicle/internal/llm"
	"github.com/stretchr/testify/require"
)

// newGenerationServer spins up an Ollama-shaped endpoint returning the given
// response text, and a client pointed at it. Exercising the real HTTP
// serialization path guards against mock-drift between the client and the
// services' parsing.
func newGenerationServer(t *testing.T, responseText string) llm.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":             "test-model",
			"response":          responseText,
			"prompt_eval_count": 100,
			"eval_count":        50,
		})
	}))
	t.Cleanup(srv.Close)

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.Model = "test-model"
	cfg.MaxRetries = 0
	return llm.NewOllamaClient(cfg, llm.NoopObserver{})
}

// newFailingServer returns a client whose every call fails at the HTTP layer.
func newFailingServer(t *testing.T) llm.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.MaxRetries = 0
	return llm.NewOllamaClient(cfg, llm.NoopObserver{})
}

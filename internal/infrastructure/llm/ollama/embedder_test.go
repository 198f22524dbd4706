package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

func TestEmbedQueryReturnsVector(t *testing.T) {
	var gotModel string
	var gotInput []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotModel = body.Model
		gotInput = body.Input
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2, 0.3}},
		})
	}))
	defer server.Close()

	embedder := NewEmbedder(server.URL, "nomic-embed-text", 3, nil)
	vector, err := embedder.EmbedQuery(context.Background(), "what is rrf")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("vector length = %d, want 3", len(vector))
	}
	if gotModel != "nomic-embed-text" {
		t.Errorf("model = %q", gotModel)
	}
	if len(gotInput) != 1 || gotInput[0] != "what is rrf" {
		t.Errorf("input = %v", gotInput)
	}
}

func TestEmbedQueryDimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2}},
		})
	}))
	defer server.Close()

	embedder := NewEmbedder(server.URL, "nomic-embed-text", 768, nil)
	_, err := embedder.EmbedQuery(context.Background(), "short vector")
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("error kind = %v, want ErrDimensionMismatch", err)
	}
}

func TestEmbedQueryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	embedder := NewEmbedder(server.URL, "nomic-embed-text", 3, nil)
	_, err := embedder.EmbedQuery(context.Background(), "query")
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("error kind = %v, want ErrRetrievalUnavailable", err)
	}
}

func TestCheckDimensionProbes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.5, 0.5, 0.5, 0.5}},
		})
	}))
	defer server.Close()

	embedder := NewEmbedder(server.URL, "nomic-embed-text", 4, nil)
	if err := embedder.CheckDimension(context.Background()); err != nil {
		t.Fatalf("CheckDimension() error = %v", err)
	}

	wrong := NewEmbedder(server.URL, "nomic-embed-text", 768, nil)
	if err := wrong.CheckDimension(context.Background()); !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("error = %v, want ErrDimensionMismatch", err)
	}
}

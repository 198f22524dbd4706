package elastic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

const hitsPayload = `{
	"hits": {
		"hits": [
			{"_score": 11.2, "_source": {"id": "ep-1", "chunk_id": 4}},
			{"_score": 9.7, "_source": {"id": "ep-2", "chunk_id": 0}}
		]
	}
}`

func TestSearchLexicalParsesRankedHits(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/podcasts/_search" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(hitsPayload))
	}))
	defer server.Close()

	client := New(server.URL, "podcasts", 0, nil)
	chunks, err := client.SearchLexical(context.Background(), "what is kafka", 5)
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(chunks))
	}
	want := domain.ChunkRef{EpisodeID: "ep-1", ChunkID: 4}
	if chunks[0].Ref != want {
		t.Fatalf("expected first hit %v, got %v", want, chunks[0].Ref)
	}
	if gotBody["size"].(float64) != 5 {
		t.Fatalf("expected size=5 in request, got %v", gotBody["size"])
	}
	if _, ok := gotBody["query"]; !ok {
		t.Fatalf("expected a query clause in lexical request body")
	}
}

func TestSearchVectorSendsKNNWithOversampling(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(hitsPayload))
	}))
	defer server.Close()

	client := New(server.URL, "podcasts", 10000, nil)
	if _, err := client.SearchVector(context.Background(), []float32{0.1, 0.2}, 5); err != nil {
		t.Fatalf("SearchVector() error = %v", err)
	}

	knn, ok := gotBody["knn"].(map[string]any)
	if !ok {
		t.Fatalf("expected knn clause, got %v", gotBody)
	}
	if knn["field"] != "text_vector" {
		t.Fatalf("expected text_vector field, got %v", knn["field"])
	}
	if knn["num_candidates"].(float64) != 10000 {
		t.Fatalf("expected num_candidates=10000, got %v", knn["num_candidates"])
	}
	if knn["k"].(float64) != 5 {
		t.Fatalf("expected k=5, got %v", knn["k"])
	}
}

func TestSearchFailureWrapsRetrievalUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index shards unassigned", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "podcasts", 0, nil)
	_, err := client.SearchLexical(context.Background(), "q", 5)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected retrieval-unavailable kind, got %v", err)
	}
}

func TestSearchConnectionRefusedWrapsRetrievalUnavailable(t *testing.T) {
	client := New("http://127.0.0.1:1", "podcasts", 0, nil)
	_, err := client.SearchVector(context.Background(), []float32{0.1}, 5)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected retrieval-unavailable kind, got %v", err)
	}
}

package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/infrastructure/resilience"
)

// Client runs lexical and kNN queries against one Elasticsearch index
// holding the chunked podcast corpus. Results are repeatable for a
// fixed index snapshot; any transport or status failure surfaces as
// domain.ErrRetrievalUnavailable.
type Client struct {
	baseURL    string
	index      string
	httpClient *http.Client
	executor   *resilience.Executor

	// knnNumCandidates is the per-shard candidate pool for kNN. Large
	// on purpose: the corpus is small relative to recall requirements.
	knnNumCandidates int
}

func New(baseURL, index string, knnNumCandidates int, executor *resilience.Executor) *Client {
	if knnNumCandidates <= 0 {
		knnNumCandidates = 10000
	}
	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		index:            index,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		executor:         executor,
		knnNumCandidates: knnNumCandidates,
	}
}

func (c *Client) SearchLexical(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	body := map[string]any{
		"size":    k,
		"_source": []string{"id", "chunk_id"},
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"text", "title"},
				"type":   "best_fields",
			},
		},
	}
	return c.search(ctx, "lexical_search", body)
}

func (c *Client) SearchVector(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	body := map[string]any{
		"size":    k,
		"_source": []string{"id", "chunk_id"},
		"knn": map[string]any{
			"field":          "text_vector",
			"query_vector":   vector,
			"k":              k,
			"num_candidates": c.knnNumCandidates,
		},
	}
	return c.search(ctx, "vector_search", body)
}

func (c *Client) search(ctx context.Context, operation string, body map[string]any) ([]domain.ScoredChunk, error) {
	var out []domain.ScoredChunk
	call := func(callCtx context.Context) error {
		chunks, err := c.doSearch(callCtx, operation, body)
		if err != nil {
			return err
		}
		out = chunks
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "elastic."+operation, call, classifySearchError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, operation, err)
	}
	return out, nil
}

func (c *Client) doSearch(ctx context.Context, operation string, body map[string]any) ([]domain.ScoredChunk, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", operation, err)
	}

	url := fmt.Sprintf("%s/%s/_search", c.baseURL, c.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source struct {
					EpisodeID string `json:"id"`
					ChunkID   int    `json:"chunk_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", operation, err)
	}

	chunks := make([]domain.ScoredChunk, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		chunks = append(chunks, domain.ScoredChunk{
			Ref: domain.ChunkRef{
				EpisodeID: hit.Source.EpisodeID,
				ChunkID:   hit.Source.ChunkID,
			},
			Score: hit.Score,
		})
	}
	return chunks, nil
}

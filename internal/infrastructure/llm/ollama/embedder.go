package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/infrastructure/resilience"
)

// Embedder builds query vectors through Ollama's embed API. The corpus
// vectors were produced by the same model upstream, so every returned
// vector must match the corpus dimension exactly.
type Embedder struct {
	baseURL    string
	model      string
	dimension  int
	httpClient *http.Client
	executor   *resilience.Executor
}

func NewEmbedder(baseURL, model string, dimension int, executor *resilience.Executor) *Embedder {
	return &Embedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	call := func(callCtx context.Context) error {
		v, err := e.embed(callCtx, text)
		if err != nil {
			return err
		}
		vector = v
		return nil
	}

	var err error
	if e.executor != nil {
		err = e.executor.Execute(ctx, "ollama.embed", call, classifyEmbedError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "embed query", err)
	}

	if e.dimension > 0 && len(vector) != e.dimension {
		return nil, domain.WrapError(
			domain.ErrDimensionMismatch,
			"embed query",
			fmt.Errorf("model %s returned %d dimensions, corpus uses %d", e.model, len(vector), e.dimension),
		)
	}
	return vector, nil
}

// CheckDimension embeds a fixed probe so a misconfigured embedding
// model fails the process at startup, before any evaluation begins.
func (e *Embedder) CheckDimension(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "dimension probe")
	return err
}

func (e *Embedder) embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := map[string]any{
		"model": e.model,
		"input": []string{text},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &HTTPStatusError{
			Operation:  "embed",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(response.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return response.Embeddings[0], nil
}

package ports

import (
	"context"
	"time"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

// SearchIndex is the read-only corpus store contract. Both calls return
// at most k results ordered by relevance descending and must be
// repeatable for a fixed corpus snapshot.
type SearchIndex interface {
	SearchLexical(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)
	SearchVector(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)
}

// Embedder builds a query vector matching the corpus embedding dimension.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ChunkDirectory answers transcript-order adjacency questions.
// NextOf returns the chunk immediately following ref within the same
// episode; ok=false at the episode boundary. An unknown ref yields
// domain.ErrAdjacencyLookupMiss.
type ChunkDirectory interface {
	NextOf(ctx context.Context, ref domain.ChunkRef) (next domain.ChunkRef, ok bool, err error)
}

// QuestionSource supplies the labeled question set for a run.
type QuestionSource interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

// RunStore persists evaluation reports for later comparison.
type RunStore interface {
	SaveReport(ctx context.Context, report *domain.EvaluationReport) error
}

// RunQueue publishes/consumes evaluation run requests.
type RunQueue interface {
	PublishRunRequested(ctx context.Context, runID string) error
	SubscribeRunRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// QueryObserver records per-query measurements. Reporting only, not
// part of the correctness contract.
type QueryObserver interface {
	ObserveQuery(mode domain.RetrievalMode, latency time.Duration, err error)
}

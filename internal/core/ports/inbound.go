package ports

import (
	"context"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

// Retriever is the inbound retrieval facade contract: one ranked list
// of at most n chunk references, no duplicates, per the selected mode.
type Retriever interface {
	Retrieve(ctx context.Context, query string, n int, mode domain.RetrievalMode) ([]domain.ScoredChunk, error)
}

// EvaluationService scores retrieval quality over a labeled question
// set for one or more modes in a single comparable run.
type EvaluationService interface {
	EvaluateModes(ctx context.Context, questions []domain.Question, modes []domain.RetrievalMode) (*domain.EvaluationReport, error)
}

// EvaluationRunner is the inbound contract for a full run: load the
// question set, evaluate every configured mode, persist the report.
type EvaluationRunner interface {
	Run(ctx context.Context, runID string) (*domain.EvaluationReport, error)
}

package usecase

import (
	"context"
	"fmt"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/ports"
)

// Each hybrid branch always requests at least this many candidates so
// fusion has enough overlap to re-rank.
const minBranchCandidates = 10

type RetrieveUseCase struct {
	index    ports.SearchIndex
	embedder ports.Embedder

	hybridCandidates int
	rrfK             int
}

func NewRetrieveUseCase(
	index ports.SearchIndex,
	embedder ports.Embedder,
	hybridCandidates int,
	rrfK int,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		index:            index,
		embedder:         embedder,
		hybridCandidates: hybridCandidates,
		rrfK:             rrfK,
	}
}

func (uc *RetrieveUseCase) Retrieve(
	ctx context.Context,
	query string,
	n int,
	mode domain.RetrievalMode,
) ([]domain.ScoredChunk, error) {
	if n <= 0 {
		n = 5
	}

	switch mode {
	case domain.ModeLexical:
		chunks, err := uc.index.SearchLexical(ctx, query, n)
		if err != nil {
			return nil, fmt.Errorf("lexical search: %w", err)
		}
		return trimCandidates(dedupeByRef(chunks), n), nil

	case domain.ModeVector:
		chunks, err := uc.searchVector(ctx, query, n)
		if err != nil {
			return nil, err
		}
		return trimCandidates(dedupeByRef(chunks), n), nil

	case domain.ModeHybrid:
		return uc.retrieveHybrid(ctx, query, n)

	default:
		return nil, fmt.Errorf("unknown retrieval mode: %q", mode)
	}
}

func (uc *RetrieveUseCase) searchVector(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	vector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := uc.index.SearchVector(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return chunks, nil
}

// retrieveHybrid oversamples both branches, issues them concurrently,
// and fuses once both complete. One failed branch fails the whole call:
// a silently partial fusion would bias mode comparisons downstream.
func (uc *RetrieveUseCase) retrieveHybrid(ctx context.Context, query string, n int) ([]domain.ScoredChunk, error) {
	k := uc.hybridCandidates
	if k < n {
		k = n
	}
	if k < minBranchCandidates {
		k = minBranchCandidates
	}

	type branchResult struct {
		chunks []domain.ScoredChunk
		err    error
	}

	lexicalCh := make(chan branchResult, 1)
	go func() {
		chunks, err := uc.index.SearchLexical(ctx, query, k)
		if err != nil {
			err = fmt.Errorf("lexical search: %w", err)
		}
		lexicalCh <- branchResult{chunks: chunks, err: err}
	}()

	vectorChunks, vectorErr := uc.searchVector(ctx, query, k)
	lexical := <-lexicalCh

	if lexical.err != nil {
		return nil, lexical.err
	}
	if vectorErr != nil {
		return nil, vectorErr
	}

	fused := fuseRankedLists([][]domain.ScoredChunk{lexical.chunks, vectorChunks}, uc.rrfK)
	return trimCandidates(fused, n), nil
}

// dedupeByRef drops repeated chunk references, keeping the first
// (highest ranked) occurrence. The index contract forbids duplicates,
// but the facade guarantees it regardless.
func dedupeByRef(chunks []domain.ScoredChunk) []domain.ScoredChunk {
	if len(chunks) < 2 {
		return chunks
	}
	seen := make(map[string]struct{}, len(chunks))
	out := chunks[:0]
	for _, c := range chunks {
		key := c.Ref.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

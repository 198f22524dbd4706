package usecase

import (
	"sort"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

const defaultRRFK = 60

// rankAbsent stands in for "not present in this list" when comparing
// per-list ranks during tie-breaking.
const rankAbsent = int(^uint(0) >> 1)

type fusedCandidate struct {
	ref domain.ChunkRef

	score float64
	// minRank is the lowest 1-based rank across all input lists.
	minRank int
	// lexicalRank is the rank in the first input list (lexical by
	// convention), rankAbsent when the chunk never appeared there.
	lexicalRank int
	// firstSeen orders candidates by first appearance, scanning lists
	// in argument order. Final tie-break, keeps output deterministic.
	firstSeen int
}

// fuseRankedLists merges N independently ranked lists for the same
// query with reciprocal rank fusion: each occurrence at 1-based rank r
// contributes 1/(rrfK+r). Pure function, deterministic for fixed input.
//
// Ties on fused score break by lower minimum rank across lists, then
// lexical-list rank, then first appearance. Ranking order downstream
// feeds hit-rate-at-k, so ties must never fall to map iteration order.
func fuseRankedLists(lists [][]domain.ScoredChunk, rrfK int) []domain.ScoredChunk {
	if rrfK <= 0 {
		rrfK = defaultRRFK
	}

	byKey := make(map[string]*fusedCandidate)
	candidates := make([]*fusedCandidate, 0)

	for listIdx, list := range lists {
		for i, scored := range list {
			rank := i + 1
			key := scored.Ref.Key()

			c, ok := byKey[key]
			if !ok {
				c = &fusedCandidate{
					ref:         scored.Ref,
					minRank:     rank,
					lexicalRank: rankAbsent,
					firstSeen:   len(candidates),
				}
				byKey[key] = c
				candidates = append(candidates, c)
			}

			c.score += 1.0 / float64(rrfK+rank)
			if rank < c.minRank {
				c.minRank = rank
			}
			if listIdx == 0 && c.lexicalRank == rankAbsent {
				c.lexicalRank = rank
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].minRank != candidates[j].minRank {
			return candidates[i].minRank < candidates[j].minRank
		}
		if candidates[i].lexicalRank != candidates[j].lexicalRank {
			return candidates[i].lexicalRank < candidates[j].lexicalRank
		}
		return candidates[i].firstSeen < candidates[j].firstSeen
	})

	out := make([]domain.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.ScoredChunk{Ref: c.ref, Score: c.score})
	}
	return out
}

func trimCandidates(chunks []domain.ScoredChunk, limit int) []domain.ScoredChunk {
	if limit <= 0 || len(chunks) <= limit {
		return chunks
	}
	return chunks[:limit]
}

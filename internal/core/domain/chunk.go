package domain

import "fmt"

// ChunkRef identifies one transcript chunk within the podcast corpus.
// (EpisodeID, ChunkID) is globally unique.
type ChunkRef struct {
	EpisodeID string `json:"episode_id"`
	ChunkID   int    `json:"chunk_id"`
}

func (r ChunkRef) Key() string {
	return fmt.Sprintf("%s:%d", r.EpisodeID, r.ChunkID)
}

func (r ChunkRef) IsZero() bool {
	return r.EpisodeID == "" && r.ChunkID == 0
}

// Chunk is a corpus record. The search index owns chunk data; the
// evaluation side only reads it.
type Chunk struct {
	Ref           ChunkRef  `json:"ref"`
	Text          string    `json:"text"`
	Embedding     []float32 `json:"embedding,omitempty"`
	SequenceIndex int       `json:"sequence_index"`
}

// ScoredChunk is one entry of a ranked result list. Rank is implied by
// slice position (1-based).
type ScoredChunk struct {
	Ref   ChunkRef `json:"ref"`
	Score float64  `json:"score"`
}

// RetrievalMode selects how the facade produces a ranked list. The set
// is closed: every switch over it must handle all three values.
type RetrievalMode string

const (
	ModeLexical RetrievalMode = "lexical"
	ModeVector  RetrievalMode = "vector"
	ModeHybrid  RetrievalMode = "hybrid"
)

func (m RetrievalMode) Valid() bool {
	switch m {
	case ModeLexical, ModeVector, ModeHybrid:
		return true
	default:
		return false
	}
}

func ParseRetrievalMode(s string) (RetrievalMode, error) {
	mode := RetrievalMode(s)
	if !mode.Valid() {
		return "", fmt.Errorf("unknown retrieval mode: %q", s)
	}
	return mode, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

// ChunkDirectory resolves chunk adjacency against the chunk catalog.
// Adjacency is defined by sequence_index within an episode, not by
// chunk_id arithmetic: chunk identifiers are not guaranteed contiguous.
type ChunkDirectory struct {
	db *sql.DB
}

func NewChunkDirectory(db *sql.DB) *ChunkDirectory {
	return &ChunkDirectory{db: db}
}

func (d *ChunkDirectory) NextOf(ctx context.Context, ref domain.ChunkRef) (domain.ChunkRef, bool, error) {
	var seq int
	err := d.db.QueryRowContext(ctx, `
SELECT sequence_index
FROM chunks
WHERE episode_id = $1 AND chunk_id = $2
`, ref.EpisodeID, ref.ChunkID).Scan(&seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChunkRef{}, false, domain.WrapError(
				domain.ErrAdjacencyLookupMiss,
				"resolve next chunk",
				fmt.Errorf("chunk %s not in catalog", ref.Key()),
			)
		}
		return domain.ChunkRef{}, false, fmt.Errorf("lookup chunk sequence: %w", err)
	}

	var next domain.ChunkRef
	err = d.db.QueryRowContext(ctx, `
SELECT episode_id, chunk_id
FROM chunks
WHERE episode_id = $1 AND sequence_index = $2
`, ref.EpisodeID, seq+1).Scan(&next.EpisodeID, &next.ChunkID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Last chunk of the episode has no successor.
			return domain.ChunkRef{}, false, nil
		}
		return domain.ChunkRef{}, false, fmt.Errorf("lookup next chunk: %w", err)
	}
	return next, true, nil
}

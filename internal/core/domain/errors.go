package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRetrievalUnavailable marks a failed or timed-out call to the
	// search index or the embedding provider. Not retried by the
	// evaluation engine; the affected question is flagged, never
	// counted as a miss.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrDimensionMismatch marks a query vector whose dimension
	// disagrees with the corpus embedding dimension. Fatal
	// configuration error, surfaced before any evaluation starts.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyQuestionSet marks an evaluation run invoked with zero
	// questions. The run still yields a well-defined empty report.
	ErrEmptyQuestionSet = errors.New("empty question set")

	// ErrAdjacencyLookupMiss marks a true-source chunk reference that
	// does not exist in the corpus. Per-question data error: logged
	// and excluded from aggregation, not fatal to the run.
	ErrAdjacencyLookupMiss = errors.New("source chunk not in corpus")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

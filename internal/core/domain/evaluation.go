package domain

import "time"

// Question is one labeled evaluation record: the question text and the
// chunk it was generated from. Produced upstream, immutable here.
type Question struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Source ChunkRef `json:"source"`
}

// QuestionResult is the per-question outcome of one evaluation pass.
// Ephemeral: computed per run, persisted only as part of a report.
type QuestionResult struct {
	QuestionID             string        `json:"question_id"`
	Hit                    bool          `json:"hit"`
	AdjustedHit            bool          `json:"adjusted_hit"`
	ReciprocalRank         float64       `json:"reciprocal_rank"`
	AdjustedReciprocalRank float64       `json:"adjusted_reciprocal_rank"`
	Latency                time.Duration `json:"latency"`
}

// QuestionFailure records a question that could not contribute to the
// aggregate, with the reason it was excluded.
type QuestionFailure struct {
	QuestionID string `json:"question_id"`
	Reason     string `json:"reason"`
}

// ModeReport aggregates one retrieval mode over the question set.
// Metrics are means over the questions that succeeded; failed and
// skipped questions are excluded and listed in Failures.
type ModeReport struct {
	Mode            RetrievalMode     `json:"mode"`
	QuestionCount   int               `json:"question_count"`
	FailedCount     int               `json:"failed_count"`
	SkippedCount    int               `json:"skipped_count"`
	HitRate         float64           `json:"hit_rate"`
	MRR             float64           `json:"mrr"`
	AdjustedHitRate float64           `json:"adjusted_hit_rate"`
	AdjustedMRR     float64           `json:"adjusted_mrr"`
	MeanLatency     time.Duration     `json:"mean_latency"`
	Failures        []QuestionFailure `json:"failures,omitempty"`
}

// EvaluationReport is the outcome of one run over all requested modes.
type EvaluationReport struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Modes     []ModeReport  `json:"modes"`
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across evaluate/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS eval_runs (
	run_id TEXT PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS eval_mode_reports (
	run_id TEXT NOT NULL REFERENCES eval_runs(run_id) ON DELETE CASCADE,
	mode TEXT NOT NULL,
	question_count INTEGER NOT NULL,
	failed_count INTEGER NOT NULL,
	skipped_count INTEGER NOT NULL,
	hit_rate DOUBLE PRECISION NOT NULL,
	mrr DOUBLE PRECISION NOT NULL,
	adjusted_hit_rate DOUBLE PRECISION NOT NULL,
	adjusted_mrr DOUBLE PRECISION NOT NULL,
	mean_latency_ms DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, mode)
);

CREATE TABLE IF NOT EXISTS eval_question_failures (
	run_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	question_id TEXT NOT NULL,
	reason TEXT NOT NULL,
	PRIMARY KEY (run_id, mode, question_id),
	FOREIGN KEY (run_id, mode) REFERENCES eval_mode_reports(run_id, mode) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_eval_runs_started_at ON eval_runs(started_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RunRepository) SaveReport(ctx context.Context, report *domain.EvaluationReport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO eval_runs (run_id, started_at, duration_ms) VALUES ($1, $2, $3)
`, report.RunID, report.StartedAt, report.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, mode := range report.Modes {
		_, err = tx.ExecContext(ctx, `
INSERT INTO eval_mode_reports (
	run_id, mode, question_count, failed_count, skipped_count,
	hit_rate, mrr, adjusted_hit_rate, adjusted_mrr, mean_latency_ms
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
			report.RunID, string(mode.Mode), mode.QuestionCount, mode.FailedCount, mode.SkippedCount,
			mode.HitRate, mode.MRR, mode.AdjustedHitRate, mode.AdjustedMRR,
			float64(mode.MeanLatency.Microseconds())/1000.0,
		)
		if err != nil {
			return fmt.Errorf("insert mode report %s: %w", mode.Mode, err)
		}

		for _, failure := range mode.Failures {
			_, err = tx.ExecContext(ctx, `
INSERT INTO eval_question_failures (run_id, mode, question_id, reason) VALUES ($1, $2, $3, $4)
`, report.RunID, string(mode.Mode), failure.QuestionID, failure.Reason)
			if err != nil {
				return fmt.Errorf("insert question failure: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report tx: %w", err)
	}
	return nil
}

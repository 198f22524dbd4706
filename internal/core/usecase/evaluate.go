package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/ports"
)

// evaluationWidth is the fixed retrieval depth per question. Changing
// it silently invalidates comparisons with historical runs.
const evaluationWidth = 5

const defaultEvalWorkers = 8

// adjacentCredit is the partial-credit label for retrieving the chunk
// immediately following the true source instead of the source itself.
// Heuristic carried over unchanged from the upstream metric definition.
const adjacentCredit = 0.5

type EvaluateUseCase struct {
	retriever ports.Retriever
	directory ports.ChunkDirectory
	observer  ports.QueryObserver
	logger    *slog.Logger

	workers int
}

func NewEvaluateUseCase(
	retriever ports.Retriever,
	directory ports.ChunkDirectory,
	observer ports.QueryObserver,
	logger *slog.Logger,
	workers int,
) *EvaluateUseCase {
	if workers <= 0 {
		workers = defaultEvalWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluateUseCase{
		retriever: retriever,
		directory: directory,
		observer:  observer,
		logger:    logger,
		workers:   workers,
	}
}

// EvaluateModes scores every requested mode over the identical question
// set so the resulting reports are directly comparable. An empty
// question set yields a report with zero counts and zero metrics.
func (uc *EvaluateUseCase) EvaluateModes(
	ctx context.Context,
	questions []domain.Question,
	modes []domain.RetrievalMode,
) (*domain.EvaluationReport, error) {
	for _, mode := range modes {
		if !mode.Valid() {
			return nil, fmt.Errorf("unknown retrieval mode: %q", mode)
		}
	}

	started := time.Now().UTC()
	report := &domain.EvaluationReport{
		StartedAt: started,
		Modes:     make([]domain.ModeReport, 0, len(modes)),
	}

	for _, mode := range modes {
		modeReport := uc.evaluateMode(ctx, mode, questions)
		report.Modes = append(report.Modes, modeReport)
		uc.logger.Info("mode evaluated",
			"mode", string(mode),
			"questions", modeReport.QuestionCount,
			"failed", modeReport.FailedCount,
			"skipped", modeReport.SkippedCount,
			"hit_rate", modeReport.HitRate,
			"mrr", modeReport.MRR,
			"adjusted_hit_rate", modeReport.AdjustedHitRate,
			"adjusted_mrr", modeReport.AdjustedMRR,
		)
	}

	report.Duration = time.Since(started)
	return report, nil
}

// questionOutcome is the immutable per-question value a worker hands
// back. Aggregation is a commutative reduction, so completion order
// does not matter.
type questionOutcome struct {
	result  domain.QuestionResult
	failure *domain.QuestionFailure
	skipped bool
}

func (uc *EvaluateUseCase) evaluateMode(
	ctx context.Context,
	mode domain.RetrievalMode,
	questions []domain.Question,
) domain.ModeReport {
	jobs := make(chan domain.Question)
	outcomes := make(chan questionOutcome)

	var wg sync.WaitGroup
	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				outcomes <- uc.evaluateQuestion(ctx, mode, q)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, q := range questions {
			select {
			case jobs <- q:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	return uc.reduceOutcomes(mode, outcomes)
}

func (uc *EvaluateUseCase) reduceOutcomes(mode domain.RetrievalMode, outcomes <-chan questionOutcome) domain.ModeReport {
	report := domain.ModeReport{Mode: mode}

	var (
		hits, adjustedHits int
		rrSum, adjRRSum    float64
		latencySum         time.Duration
	)

	for outcome := range outcomes {
		if outcome.failure != nil {
			report.Failures = append(report.Failures, *outcome.failure)
			if outcome.skipped {
				report.SkippedCount++
			} else {
				report.FailedCount++
			}
			uc.logger.Warn("question excluded from aggregation",
				"mode", string(mode),
				"question_id", outcome.failure.QuestionID,
				"reason", outcome.failure.Reason,
			)
			continue
		}

		report.QuestionCount++
		if outcome.result.Hit {
			hits++
		}
		if outcome.result.AdjustedHit {
			adjustedHits++
		}
		rrSum += outcome.result.ReciprocalRank
		adjRRSum += outcome.result.AdjustedReciprocalRank
		latencySum += outcome.result.Latency
	}

	if report.QuestionCount > 0 {
		n := float64(report.QuestionCount)
		report.HitRate = float64(hits) / n
		report.AdjustedHitRate = float64(adjustedHits) / n
		report.MRR = rrSum / n
		report.AdjustedMRR = adjRRSum / n
		report.MeanLatency = latencySum / time.Duration(report.QuestionCount)
	}
	return report
}

func (uc *EvaluateUseCase) evaluateQuestion(
	ctx context.Context,
	mode domain.RetrievalMode,
	question domain.Question,
) questionOutcome {
	adjacent, hasAdjacent, err := uc.directory.NextOf(ctx, question.Source)
	if err != nil {
		failure := &domain.QuestionFailure{
			QuestionID: question.ID,
			Reason:     err.Error(),
		}
		return questionOutcome{
			failure: failure,
			skipped: domain.IsKind(err, domain.ErrAdjacencyLookupMiss),
		}
	}

	start := time.Now()
	ranked, err := uc.retriever.Retrieve(ctx, question.Text, evaluationWidth, mode)
	latency := time.Since(start)
	if uc.observer != nil {
		uc.observer.ObserveQuery(mode, latency, err)
	}
	if err != nil {
		return questionOutcome{
			failure: &domain.QuestionFailure{
				QuestionID: question.ID,
				Reason:     err.Error(),
			},
		}
	}

	result := scoreRankedList(ranked, question.Source, adjacent, hasAdjacent)
	result.QuestionID = question.ID
	result.Latency = latency
	return questionOutcome{result: result}
}

// scoreRankedList labels every returned chunk against the true source:
// 1.0 for the source itself, adjacentCredit for the chunk following it
// (only when no exact hit appears at an earlier rank), 0 otherwise.
// The reciprocal-rank contribution is the best label(r)/r over the list.
func scoreRankedList(
	ranked []domain.ScoredChunk,
	source domain.ChunkRef,
	adjacent domain.ChunkRef,
	hasAdjacent bool,
) domain.QuestionResult {
	exactRank := 0
	adjacentRank := 0
	for i, scored := range ranked {
		rank := i + 1
		if exactRank == 0 && scored.Ref == source {
			exactRank = rank
		}
		if adjacentRank == 0 && hasAdjacent && scored.Ref == adjacent {
			adjacentRank = rank
		}
	}

	adjacentCounts := adjacentRank > 0 && (exactRank == 0 || adjacentRank < exactRank)

	var result domain.QuestionResult
	if exactRank > 0 {
		result.Hit = true
		result.ReciprocalRank = 1.0 / float64(exactRank)
		result.AdjustedReciprocalRank = result.ReciprocalRank
	}
	result.AdjustedHit = exactRank > 0 || adjacentCounts
	if adjacentCounts {
		adjContribution := adjacentCredit / float64(adjacentRank)
		if adjContribution > result.AdjustedReciprocalRank {
			result.AdjustedReciprocalRank = adjContribution
		}
	}
	return result
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/ports"
)

// RunUseCase orchestrates one full evaluation: load the question set,
// evaluate every configured mode over it, persist the report.
type RunUseCase struct {
	source    ports.QuestionSource
	evaluator ports.EvaluationService
	store     ports.RunStore
	logger    *slog.Logger

	modes []domain.RetrievalMode
}

func NewRunUseCase(
	source ports.QuestionSource,
	evaluator ports.EvaluationService,
	store ports.RunStore,
	logger *slog.Logger,
	modes []domain.RetrievalMode,
) *RunUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunUseCase{
		source:    source,
		evaluator: evaluator,
		store:     store,
		logger:    logger,
		modes:     modes,
	}
}

// Run evaluates all configured modes under the given run id (a fresh
// one is minted when empty). A zero-question source still produces and
// persists a well-defined empty report; the returned error is then
// domain.ErrEmptyQuestionSet so callers can warn instead of fail.
func (uc *RunUseCase) Run(ctx context.Context, runID string) (*domain.EvaluationReport, error) {
	if runID == "" {
		runID = uuid.NewString()
	}

	questions, err := uc.source.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}

	uc.logger.Info("evaluation run started",
		"run_id", runID,
		"questions", len(questions),
		"modes", len(uc.modes),
	)

	report, err := uc.evaluator.EvaluateModes(ctx, questions, uc.modes)
	if err != nil {
		return nil, fmt.Errorf("evaluate modes: %w", err)
	}
	report.RunID = runID

	if uc.store != nil {
		if err := uc.store.SaveReport(ctx, report); err != nil {
			return nil, fmt.Errorf("persist evaluation report: %w", err)
		}
	}

	if len(questions) == 0 {
		return report, domain.WrapError(
			domain.ErrEmptyQuestionSet,
			"run evaluation",
			errors.New("question source returned no rows"),
		)
	}
	return report, nil
}

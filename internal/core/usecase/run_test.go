package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

type questionSourceFake struct {
	questions []domain.Question
	err       error
}

func (f *questionSourceFake) ListQuestions(context.Context) ([]domain.Question, error) {
	return f.questions, f.err
}

type evaluatorFake struct {
	report *domain.EvaluationReport
	err    error

	gotQuestions int
	gotModes     []domain.RetrievalMode
}

func (f *evaluatorFake) EvaluateModes(_ context.Context, questions []domain.Question, modes []domain.RetrievalMode) (*domain.EvaluationReport, error) {
	f.gotQuestions = len(questions)
	f.gotModes = modes
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type runStoreFake struct {
	saved *domain.EvaluationReport
	err   error
}

func (f *runStoreFake) SaveReport(_ context.Context, report *domain.EvaluationReport) error {
	f.saved = report
	return f.err
}

func TestRunAssignsRunIDAndPersists(t *testing.T) {
	source := &questionSourceFake{questions: []domain.Question{
		{ID: "q-1", Text: "q", Source: domain.ChunkRef{EpisodeID: "ep1"}},
	}}
	evaluator := &evaluatorFake{report: &domain.EvaluationReport{}}
	store := &runStoreFake{}
	uc := NewRunUseCase(source, evaluator, store, nil, []domain.RetrievalMode{domain.ModeHybrid})

	report, err := uc.Run(context.Background(), "run-42")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.RunID != "run-42" {
		t.Fatalf("expected run id preserved, got %q", report.RunID)
	}
	if store.saved == nil || store.saved.RunID != "run-42" {
		t.Fatalf("expected report persisted with run id, got %+v", store.saved)
	}
	if evaluator.gotQuestions != 1 || len(evaluator.gotModes) != 1 {
		t.Fatalf("expected 1 question and 1 mode passed through, got %d/%d", evaluator.gotQuestions, len(evaluator.gotModes))
	}
}

func TestRunMintsRunIDWhenEmpty(t *testing.T) {
	source := &questionSourceFake{questions: []domain.Question{{ID: "q-1"}}}
	uc := NewRunUseCase(source, &evaluatorFake{report: &domain.EvaluationReport{}}, nil, nil, nil)

	report, err := uc.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.RunID == "" {
		t.Fatalf("expected a minted run id")
	}
}

func TestRunEmptyQuestionSetReturnsTypedError(t *testing.T) {
	store := &runStoreFake{}
	uc := NewRunUseCase(&questionSourceFake{}, &evaluatorFake{report: &domain.EvaluationReport{}}, store, nil, nil)

	report, err := uc.Run(context.Background(), "run-1")
	if report == nil {
		t.Fatalf("expected an empty report alongside the error")
	}
	if !domain.IsKind(err, domain.ErrEmptyQuestionSet) {
		t.Fatalf("expected empty-question-set kind, got %v", err)
	}
	// The empty report is still persisted so the run leaves a trace.
	if store.saved == nil {
		t.Fatalf("expected empty report persisted")
	}
}

func TestRunPropagatesSourceError(t *testing.T) {
	uc := NewRunUseCase(&questionSourceFake{err: errors.New("db down")}, &evaluatorFake{}, nil, nil, nil)
	if _, err := uc.Run(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
}

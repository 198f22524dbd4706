package bootstrap

import (
	"context"
	"fmt"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/config"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/ports"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/usecase"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/infrastructure/llm/ollama"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/infrastructure/queue/nats"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/infrastructure/repository/postgres"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/infrastructure/resilience"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/infrastructure/search/elastic"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/observability/logging"
	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue   *nats.Queue
	Metrics *metrics.EvaluationMetrics
	RunUC   ports.EvaluationRunner

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)

	modes := make([]domain.RetrievalMode, 0, len(cfg.EvalModes))
	for _, raw := range cfg.EvalModes {
		mode, err := domain.ParseRetrievalMode(raw)
		if err != nil {
			return nil, fmt.Errorf("parse eval modes: %w", err)
		}
		modes = append(modes, mode)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	runRepo := postgres.NewRunRepository(db)
	if err := runRepo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	questionRepo := postgres.NewQuestionRepository(db)
	directory := postgres.NewChunkDirectory(db)

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init run queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	searchIndex := elastic.New(cfg.ElasticURL, cfg.ElasticIndex, cfg.ElasticKNNCandidates, executor)
	embedder := ollama.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel, cfg.EmbedDimension, executor)

	// A wrong embedding model surfaces here, not halfway through a run.
	if err := embedder.CheckDimension(ctx); err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("verify embedding dimension: %w", err)
	}

	evalMetrics := metrics.NewEvaluationMetrics(service)

	retrieveUC := usecase.NewRetrieveUseCase(searchIndex, embedder, cfg.HybridCandidates, cfg.FusionRRFK)
	evaluateUC := usecase.NewEvaluateUseCase(retrieveUC, directory, evalMetrics, logger, cfg.EvalWorkers)
	runUC := usecase.NewRunUseCase(questionRepo, evaluateUC, runRepo, logger, modes)

	return &App{
		Config:  cfg,
		Queue:   queue,
		Metrics: evalMetrics,
		RunUC:   runUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

package config

import "testing"

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("EVAL_MODES", "")
	t.Setenv("EVAL_WORKERS", "")
	t.Setenv("EVAL_TOP_K", "")
	t.Setenv("HYBRID_CANDIDATES", "")
	t.Setenv("FUSION_RRF_K", "")
	t.Setenv("ELASTIC_KNN_CANDIDATES", "")

	cfg := Load()
	if len(cfg.EvalModes) != 3 || cfg.EvalModes[0] != "lexical" || cfg.EvalModes[2] != "hybrid" {
		t.Fatalf("expected default modes lexical,vector,hybrid, got %v", cfg.EvalModes)
	}
	if cfg.EvalWorkers != 8 {
		t.Fatalf("expected default workers 8, got %d", cfg.EvalWorkers)
	}
	if cfg.EvalTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.EvalTopK)
	}
	if cfg.HybridCandidates != 30 {
		t.Fatalf("expected default hybrid candidates 30, got %d", cfg.HybridCandidates)
	}
	if cfg.FusionRRFK != 60 {
		t.Fatalf("expected default fusion rrf k 60, got %d", cfg.FusionRRFK)
	}
	if cfg.ElasticKNNCandidates != 10000 {
		t.Fatalf("expected default knn candidates 10000, got %d", cfg.ElasticKNNCandidates)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("EVAL_MODES", "hybrid, vector")
	t.Setenv("EVAL_WORKERS", "16")
	t.Setenv("FUSION_RRF_K", "75")
	t.Setenv("EMBED_DIMENSION", "1024")

	cfg := Load()
	if len(cfg.EvalModes) != 2 || cfg.EvalModes[0] != "hybrid" || cfg.EvalModes[1] != "vector" {
		t.Fatalf("expected trimmed mode overrides, got %v", cfg.EvalModes)
	}
	if cfg.EvalWorkers != 16 {
		t.Fatalf("expected workers 16, got %d", cfg.EvalWorkers)
	}
	if cfg.FusionRRFK != 75 {
		t.Fatalf("expected fusion rrf k 75, got %d", cfg.FusionRRFK)
	}
	if cfg.EmbedDimension != 1024 {
		t.Fatalf("expected embed dimension 1024, got %d", cfg.EmbedDimension)
	}
}

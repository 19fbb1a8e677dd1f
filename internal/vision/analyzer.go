package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

type Analyzer struct {
	provider Provider
	cache    *Cache
	logger   *slog.Logger
}

func NewAnalyzer(provider Provider, cache *Cache, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		provider: provider,
		cache:    cache,
		logger:   logger.With("component", "vision-analyzer"),
	}
}

// NewProvider picks the provider named in cfg. Llama is the default.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderLlama:
		return NewLlamaProvider(cfg), nil
	case ProviderOllama:
		return NewOllamaProvider(cfg), nil
	case ProviderGemini:
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown vision provider %q", cfg.Provider)
	}
}

func (a *Analyzer) Provider() Provider {
	return a.provider
}

// Analyze serves p from the cache when possible. Cache failures are logged
// and never fail the request.
func (a *Analyzer) Analyze(ctx context.Context, p Prompt) (json.RawMessage, error) {
	if cached, err := a.cache.Get(ctx, p); err != nil {
		a.logger.Warn("cache lookup failed", "error", err)
	} else if cached != nil {
		a.logger.Debug("serving cached result", "mode", p.Mode, "language", p.Language)
		return cached, nil
	}

	start := time.Now()
	result, err := a.provider.Describe(ctx, p)
	if err != nil {
		a.logger.Error("vision analysis failed",
			"provider", a.provider.Name(),
			"error", err)
		return nil, err
	}

	a.logger.Debug("vision analysis complete",
		"provider", a.provider.Name(),
		"mode", p.Mode,
		"language", p.Language,
		"duration_ms", time.Since(start).Milliseconds(),
		"result_len", len(result))

	if err := a.cache.Set(ctx, p, result); err != nil {
		a.logger.Warn("cache store failed", "error", err)
	}
	return result, nil
}

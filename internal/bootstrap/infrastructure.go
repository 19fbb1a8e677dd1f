package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/lingualens/internal/synthesis"
	"github.com/eleven-am/lingualens/internal/vision"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// ProvideRedisClient returns nil when REDIS_ADDR is unset, which disables
// result caching.
func ProvideRedisClient(lc fx.Lifecycle, cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func ProvideCache(client *redis.Client, cfg *Config) *vision.Cache {
	return vision.NewCache(client, cfg.CacheTTL)
}

func ProvideVisionProvider(cfg *Config) (vision.Provider, error) {
	return vision.NewProvider(cfg.Vision())
}

func ProvideAnalyzer(provider vision.Provider, cache *vision.Cache, logger *slog.Logger) *vision.Analyzer {
	return vision.NewAnalyzer(provider, cache, logger)
}

// ProvideSynthesizer returns a nil Synthesizer when TTS_URL is unset.
func ProvideSynthesizer(cfg *Config, logger *slog.Logger) (synthesis.Synthesizer, error) {
	if cfg.TTSURL == "" {
		logger.Warn("TTS_URL not set, text-to-speech disabled")
		return nil, nil
	}
	client, err := synthesis.New(cfg.Synthesis())
	if err != nil {
		return nil, err
	}
	return client, nil
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideCache,
		ProvideVisionProvider,
		ProvideAnalyzer,
		ProvideSynthesizer,
	),
)

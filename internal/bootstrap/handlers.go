package bootstrap

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/eleven-am/lingualens/docs"
	"github.com/eleven-am/lingualens/internal/audio"
	"github.com/eleven-am/lingualens/internal/gateway"
	"github.com/eleven-am/lingualens/internal/synthesis"
	"github.com/eleven-am/lingualens/internal/vision"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	VisionHandler *vision.Handler
	AudioHandler  *audio.Handler
	RateLimiter   *gateway.RateLimiter
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	limit := params.RateLimiter.Middleware()
	params.VisionHandler.RegisterRoutes(e, limit)
	params.AudioHandler.RegisterRoutes(e, limit)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3())
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	return logger
}

func ProvideRateLimiter(lc fx.Lifecycle, cfg *Config) *gateway.RateLimiter {
	rl := gateway.NewRateLimiter(cfg.RateLimiter())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			rl.Stop()
			return nil
		},
	})
	return rl
}

func ProvideVisionHandler(analyzer *vision.Analyzer, logger *slog.Logger) *vision.Handler {
	return vision.NewHandler(analyzer, logger)
}

func ProvideAudioHandler(tts synthesis.Synthesizer, logger *slog.Logger) *audio.Handler {
	return audio.NewHandler(tts, logger)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideRateLimiter,
		ProvideVisionHandler,
		ProvideAudioHandler,
	),
	fx.Invoke(RegisterRoutes),
)

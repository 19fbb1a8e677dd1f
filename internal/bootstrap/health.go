package bootstrap

import (
	"github.com/eleven-am/lingualens/internal/health"
	"github.com/eleven-am/lingualens/internal/synthesis"
	"github.com/eleven-am/lingualens/internal/vision"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const version = "1.0.0"

func ProvideHealthHandler(cache *vision.Cache, provider vision.Provider, tts synthesis.Synthesizer) *health.Handler {
	var probe health.TTSProber
	if tts != nil {
		probe = tts
	}
	return health.NewHandler(cache, provider, probe, version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementActive()
			defer h.DecrementActive()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)

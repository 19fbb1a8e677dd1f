package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/lingualens/internal/audio"
	"github.com/eleven-am/lingualens/internal/gateway"
	"github.com/eleven-am/lingualens/internal/shared"
	"github.com/eleven-am/lingualens/internal/vision"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "PORT", "VISION_PROVIDER", "REDIS_ADDR", "CACHE_TTL", "RATE_LIMIT_RPS", "TTS_URL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.ServerAddr != ":5000" {
		t.Errorf("ServerAddr = %s, want :5000", cfg.ServerAddr)
	}
	if cfg.VisionProvider != vision.ProviderLlama {
		t.Errorf("VisionProvider = %s", cfg.VisionProvider)
	}
	if cfg.LlamaAPIURL != vision.DefaultLlamaURL {
		t.Errorf("LlamaAPIURL = %s", cfg.LlamaAPIURL)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr should default to empty, got %s", cfg.RedisAddr)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("PORT", "8081")
	t.Setenv("VISION_PROVIDER", "Ollama")
	t.Setenv("VISION_MODEL", "llava")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := LoadConfig()
	if cfg.ServerAddr != ":8081" {
		t.Errorf("ServerAddr = %s, want :8081", cfg.ServerAddr)
	}
	if cfg.VisionProvider != "ollama" {
		t.Errorf("VisionProvider = %s, want ollama", cfg.VisionProvider)
	}
	if cfg.Vision().OllamaModel != "llava" {
		t.Errorf("OllamaModel = %s", cfg.Vision().OllamaModel)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("invalid REDIS_DB should fall back to 0, got %d", cfg.RedisDB)
	}
	rl := cfg.RateLimiter()
	if rl.RequestsPerSecond != 0.5 || rl.Burst != 3 {
		t.Errorf("unexpected rate limiter config %+v", rl)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOptions_Validate(t *testing.T) {
	if err := fx.ValidateApp(Options()); err != nil {
		t.Fatalf("dependency graph invalid: %v", err)
	}
}

type stubProvider struct {
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Describe(ctx context.Context, p vision.Prompt) (json.RawMessage, error) {
	s.calls++
	return json.RawMessage(`{"completion_message":{"content":{"text":"{\"translation\":\"Salut\",\"context\":\"Un signe\"}"}}}`), nil
}

func (s *stubProvider) IsAvailable(context.Context) bool { return true }

func newTestServer(t *testing.T, provider vision.Provider) *echo.Echo {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &Config{BodyLimit: "1M", AllowedOrigins: []string{"*"}, RateLimitRPS: 100, RateLimitBurst: 100}
	e := NewEchoServer(cfg, logger)

	cache := vision.NewCache(redisClient, time.Minute)
	analyzer := vision.NewAnalyzer(provider, cache, logger)
	rl := gateway.NewRateLimiter(cfg.RateLimiter())
	t.Cleanup(rl.Stop)

	RegisterRoutes(e, HandlerParams{
		VisionHandler: vision.NewHandler(analyzer, logger),
		AudioHandler:  audio.NewHandler(nil, logger),
		RateLimiter:   rl,
	})
	RegisterHealthRoutes(e, ProvideHealthHandler(cache, provider, nil))
	return e
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServer_ProcessImage(t *testing.T) {
	provider := &stubProvider{}
	e := newTestServer(t, provider)

	body := `{"image":"data:image/jpeg;base64,abc","language":"French","context":"translate"}`
	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodPost, "/process-image", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Success bool            `json:"success"`
			Result  json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Success || len(resp.Result) == 0 {
			t.Errorf("unexpected response %s", rec.Body.String())
		}
	}
	if provider.calls != 1 {
		t.Errorf("expected second request to hit the cache, got %d provider calls", provider.calls)
	}
}

func TestServer_ErrorEnvelope(t *testing.T) {
	e := newTestServer(t, &stubProvider{})

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"missing image", http.MethodPost, "/process-image", `{}`, http.StatusBadRequest, "No image data provided"},
		{"tts disabled", http.MethodPost, "/text-to-speech", `{"text":"hi"}`, http.StatusServiceUnavailable, "Text to speech is not configured"},
		{"empty text", http.MethodPost, "/text-to-speech", `{"text":""}`, http.StatusBadRequest, "No text provided"},
		{"unknown route", http.MethodGet, "/nope", ``, http.StatusNotFound, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var env shared.APIError
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v (%s)", err, rec.Body.String())
			}
			if env.Success {
				t.Error("success should be false")
			}
			if env.Message != tt.message {
				t.Errorf("error = %q, want %q", env.Message, tt.message)
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	e := newTestServer(t, &stubProvider{})

	rec := serve(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected /health response %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Errorf("unexpected /health/ready status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"degraded"`) {
		t.Errorf("missing tts should degrade readiness: %s", rec.Body.String())
	}
}

func TestServer_SwaggerDoc(t *testing.T) {
	e := newTestServer(t, &stubProvider{})

	rec := serve(e, http.MethodGet, "/swagger/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Info.Title != "Lingualens API" {
		t.Errorf("title = %q", doc.Info.Title)
	}
	for _, path := range []string{"/process-image", "/text-to-speech"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("missing path %s", path)
		}
	}
}

package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eleven-am/lingualens/internal/gateway"
	"github.com/eleven-am/lingualens/internal/synthesis"
	"github.com/eleven-am/lingualens/internal/vision"
)

type Config struct {
	ServerAddr     string
	LogLevel       string
	AllowedOrigins []string
	BodyLimit      string

	VisionProvider string
	LlamaAPIURL    string
	LlamaAPIKey    string
	LlamaModel     string
	OllamaURL      string
	VisionModel    string
	GeminiAPIKey   string
	GeminiModel    string
	VisionTimeout  time.Duration

	TTSURL     string
	TTSModel   string
	TTSAPIKey  string
	TTSTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":"+getEnv("PORT", "5000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		BodyLimit:      getEnv("BODY_LIMIT", "10M"),

		VisionProvider: strings.ToLower(getEnv("VISION_PROVIDER", vision.ProviderLlama)),
		LlamaAPIURL:    getEnv("LLAMA_API_URL", vision.DefaultLlamaURL),
		LlamaAPIKey:    getEnv("LLAMA_API_KEY", ""),
		LlamaModel:     getEnv("LLAMA_MODEL", vision.DefaultLlamaModel),
		OllamaURL:      getEnv("OLLAMA_URL", vision.DefaultOllamaURL),
		VisionModel:    getEnv("VISION_MODEL", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", vision.DefaultGeminiModel),
		VisionTimeout:  getEnvDuration("VISION_TIMEOUT", 60*time.Second),

		TTSURL:     getEnv("TTS_URL", ""),
		TTSModel:   getEnv("TTS_MODEL", synthesis.DefaultModel),
		TTSAPIKey:  getEnv("TTS_API_KEY", ""),
		TTSTimeout: getEnvDuration("TTS_TIMEOUT", 60*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", gateway.DefaultRateLimiterConfig().RequestsPerSecond),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", gateway.DefaultRateLimiterConfig().Burst),
	}
}

func (c *Config) Vision() vision.Config {
	return vision.Config{
		Provider:    c.VisionProvider,
		LlamaURL:    c.LlamaAPIURL,
		LlamaKey:    c.LlamaAPIKey,
		LlamaModel:  c.LlamaModel,
		OllamaURL:   c.OllamaURL,
		OllamaModel: c.VisionModel,
		GeminiKey:   c.GeminiAPIKey,
		GeminiModel: c.GeminiModel,
		Timeout:     c.VisionTimeout,
		CacheTTL:    c.CacheTTL,
	}
}

func (c *Config) Synthesis() synthesis.Config {
	return synthesis.Config{
		BaseURL: c.TTSURL,
		Model:   c.TTSModel,
		Token:   c.TTSAPIKey,
		Timeout: c.TTSTimeout,
	}
}

func (c *Config) RateLimiter() gateway.RateLimiterConfig {
	cfg := gateway.DefaultRateLimiterConfig()
	if c.RateLimitRPS > 0 {
		cfg.RequestsPerSecond = c.RateLimitRPS
	}
	if c.RateLimitBurst > 0 {
		cfg.Burst = c.RateLimitBurst
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

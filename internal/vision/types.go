package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ProviderLlama  = "llama"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"

	DefaultLlamaURL    = "https://api.llama.com/v1/chat/completions"
	DefaultLlamaModel  = "Llama-4-Maverick-17B-128E-Instruct-FP8"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultGeminiModel = "gemini-1.5-flash"

	maxResponseSize = 8 << 20
)

type Config struct {
	Provider    string
	LlamaURL    string
	LlamaKey    string
	LlamaModel  string
	OllamaURL   string
	OllamaModel string
	GeminiKey   string
	GeminiModel string
	Timeout     time.Duration
	CacheTTL    time.Duration
}

// Prompt is one image question. Image is raw base64 without a data URL prefix.
type Prompt struct {
	Image    string
	Language string
	Mode     string
}

type Provider interface {
	Name() string
	Describe(ctx context.Context, p Prompt) (json.RawMessage, error)
	IsAvailable(ctx context.Context) bool
}

type MissingKeyError struct {
	Env string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s not found in environment", e.Env)
}

type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

type completionEnvelope struct {
	CompletionMessage completionMessage `json:"completion_message"`
}

type completionMessage struct {
	Role    string            `json:"role"`
	Content completionContent `json:"content"`
}

type completionContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// wrapText shapes plain model output like a chat completion so clients
// decode every provider the same way.
func wrapText(text string) (json.RawMessage, error) {
	raw, err := json.Marshal(completionEnvelope{
		CompletionMessage: completionMessage{
			Role:    "assistant",
			Content: completionContent{Type: "text", Text: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion: %w", err)
	}
	return raw, nil
}

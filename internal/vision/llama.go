package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type LlamaProvider struct {
	httpClient *http.Client
	url        string
	key        string
	model      string
}

func NewLlamaProvider(cfg Config) *LlamaProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	url := cfg.LlamaURL
	if url == "" {
		url = DefaultLlamaURL
	}
	model := cfg.LlamaModel
	if model == "" {
		model = DefaultLlamaModel
	}

	return &LlamaProvider{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		key:        cfg.LlamaKey,
		model:      model,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string     `json:"role"`
	Content []chatPart `json:"content"`
}

type chatPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

func (p *LlamaProvider) Name() string { return ProviderLlama }

// Describe returns the upstream chat completion unchanged.
func (p *LlamaProvider) Describe(ctx context.Context, prompt Prompt) (json.RawMessage, error) {
	if p.key == "" {
		return nil, &MissingKeyError{Env: "LLAMA_API_KEY"}
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatPart{
				{Type: "text", Text: BuildPrompt(prompt.Mode, prompt.Language)},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + prompt.Image}},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.key)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llama request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderLlama, StatusCode: resp.StatusCode, Body: snippet(data)}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("llama returned invalid json")
	}
	return json.RawMessage(data), nil
}

// IsAvailable reports whether a key is configured. The hosted API has no
// unauthenticated probe.
func (p *LlamaProvider) IsAvailable(context.Context) bool {
	return p.key != ""
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiProvider struct {
	key   string
	model string
}

func NewGeminiProvider(cfg Config) *GeminiProvider {
	model := cfg.GeminiModel
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{key: cfg.GeminiKey, model: model}
}

func (g *GeminiProvider) Name() string { return ProviderGemini }

func (g *GeminiProvider) Describe(ctx context.Context, p Prompt) (json.RawMessage, error) {
	if g.key == "" {
		return nil, &MissingKeyError{Env: "GEMINI_API_KEY"}
	}

	img, err := base64.StdEncoding.DecodeString(p.Image)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.key))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(p.Mode, p.Language)), genai.ImageData("jpeg", img))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty content returned from Gemini")
	}

	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return wrapText(string(txt))
		}
	}
	return nil, fmt.Errorf("unexpected response format from Gemini")
}

func (g *GeminiProvider) IsAvailable(context.Context) bool {
	return g.key != ""
}

package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 8 << 20

type Request struct {
	Image    string
	Language string
	Mode     string
}

type wireRequest struct {
	Image    string `json:"image"`
	Language string `json:"language"`
	Context  string `json:"context"`
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5000"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger.With("component", "inference"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Process sends one image for inference. There is no retry.
func (c *Client) Process(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(wireRequest{
		Image:    req.Image,
		Language: req.Language,
		Context:  req.Mode,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-image", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("%w: read response: %v", ErrConnection, err)
	}

	result, err := Normalize(data, resp.StatusCode)
	if err != nil {
		c.logger.Warn("inference request failed",
			"status", resp.StatusCode,
			"duration", time.Since(start),
			"error", err)
		return Result{}, err
	}

	c.logger.Debug("inference complete",
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"translation_len", len(result.Translation),
		"description_len", len(result.Description))
	return result, nil
}

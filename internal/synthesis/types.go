package synthesis

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultVoice  = "af_heart"
	DefaultModel  = "kokoro"
	DefaultFormat = "mp3"
)

type Config struct {
	BaseURL string
	Model   string
	Token   string
	Timeout time.Duration
}

type Request struct {
	Text   string
	Voice  string
	Format string
	Speed  float32
}

type Audio struct {
	Data        []byte
	ContentType string
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Audio, error)
	IsAvailable(ctx context.Context) bool
}

type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tts returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("tts returned status %d: %s", e.StatusCode, e.Body)
}

func ContentType(format string) string {
	switch format {
	case "opus":
		return "audio/opus"
	case "wav":
		return "audio/wav"
	case "pcm":
		return "audio/pcm"
	case "flac":
		return "audio/flac"
	case "aac":
		return "audio/aac"
	default:
		return "audio/mpeg"
	}
}

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eleven-am/lingualens/internal/dto"
	"github.com/eleven-am/lingualens/internal/shared"
	"github.com/eleven-am/lingualens/internal/synthesis"
	"github.com/labstack/echo/v4"
)

const (
	maxInputLength   = 4096
	synthesisTimeout = 2 * time.Minute
)

type Handler struct {
	ttsClient synthesis.Synthesizer
	logger    *slog.Logger
}

func NewHandler(ttsClient synthesis.Synthesizer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ttsClient: ttsClient,
		logger:    logger.With("handler", "audio"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.POST("/text-to-speech", h.HandleSpeech, mw...)
}

// HandleSpeech generates audio from text using text-to-speech
// @Summary      Text to speech
// @Description  Speaks the text with the given voice through the configured TTS upstream.
// @Tags         audio
// @Accept       json
// @Produce      audio/mpeg
// @Param        request body dto.SpeechRequest true "Speech request"
// @Success      200 {file} binary "Audio data"
// @Failure      400 {object} shared.APIError "Invalid request (missing text, text too long)"
// @Failure      502 {object} shared.APIError "Synthesis failed"
// @Router       /text-to-speech [post]
func (h *Handler) HandleSpeech(c echo.Context) error {
	var req dto.SpeechRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "Invalid request body")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return shared.BadRequest("missing_text", "No text provided")
	}
	if utf8.RuneCountInString(text) > maxInputLength {
		return shared.BadRequest("text_too_long", fmt.Sprintf("Text exceeds maximum length of %d characters", maxInputLength))
	}

	if h.ttsClient == nil {
		return shared.NewAPIError("tts_unavailable", "Text to speech is not configured").ToHTTP(http.StatusServiceUnavailable)
	}

	voice := req.Voice
	if voice == "" {
		voice = synthesis.DefaultVoice
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), synthesisTimeout)
	defer cancel()

	audio, err := h.ttsClient.Synthesize(ctx, synthesis.Request{Text: text, Voice: voice})
	if err != nil {
		h.logger.Error("synthesis failed", "voice", voice, "error", err)
		var ue *synthesis.UpstreamError
		if errors.As(err, &ue) && ue.StatusCode == http.StatusBadRequest {
			return shared.BadRequest("synthesis_rejected", ue.Error())
		}
		return shared.BadGateway("synthesis_failed", "Speech synthesis failed: "+err.Error())
	}

	h.logger.Debug("TTS synthesis complete", "voice", voice, "text_length", len(text), "bytes", len(audio.Data))
	return c.Blob(http.StatusOK, audio.ContentType, audio.Data)
}

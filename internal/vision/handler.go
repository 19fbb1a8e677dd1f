package vision

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eleven-am/lingualens/internal/dto"
	"github.com/eleven-am/lingualens/internal/shared"
	"github.com/labstack/echo/v4"
)

const analyzeTimeout = 90 * time.Second

type Handler struct {
	analyzer *Analyzer
	logger   *slog.Logger
}

func NewHandler(analyzer *Analyzer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		analyzer: analyzer,
		logger:   logger.With("handler", "vision"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.POST("/process-image", h.HandleProcessImage, mw...)
}

// HandleProcessImage answers a question about one image.
// @Summary      Process image
// @Description  Describes or translates the image with the configured vision provider.
// @Tags         vision
// @Accept       json
// @Produce      json
// @Param        request body dto.ProcessImageRequest true "Image request"
// @Success      200 {object} dto.ProcessImageResponse
// @Failure      400 {object} shared.APIError "No image data provided"
// @Failure      502 {object} shared.APIError "API request failed"
// @Router       /process-image [post]
func (h *Handler) HandleProcessImage(c echo.Context) error {
	var req dto.ProcessImageRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "Invalid request body")
	}

	image := stripDataURL(req.Image)
	if image == "" {
		return shared.BadRequest("missing_image", "No image data provided")
	}

	language := req.Language
	if language == "" {
		language = "English"
	}
	mode := req.Context
	if mode == "" {
		mode = ModeDescribe
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), analyzeTimeout)
	defer cancel()

	result, err := h.analyzer.Analyze(ctx, Prompt{Image: image, Language: language, Mode: mode})
	if err != nil {
		var mk *MissingKeyError
		if errors.As(err, &mk) {
			return shared.InternalError("missing_api_key", mk.Error())
		}
		return shared.BadGateway("upstream_failed", "API request failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, dto.ProcessImageResponse{Success: true, Result: result})
}

func stripDataURL(image string) string {
	image = strings.TrimSpace(image)
	if strings.HasPrefix(image, "data:image") {
		if _, rest, ok := strings.Cut(image, ","); ok {
			return rest
		}
		return ""
	}
	return image
}

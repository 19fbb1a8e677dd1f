package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eleven-am/lingualens/internal/app"
	"github.com/eleven-am/lingualens/internal/capture"
	"github.com/eleven-am/lingualens/internal/clientconfig"
	"github.com/eleven-am/lingualens/internal/device"
	"github.com/eleven-am/lingualens/internal/inference"
	"github.com/eleven-am/lingualens/internal/locale"
	"github.com/eleven-am/lingualens/internal/speech"
)

type flags struct {
	configPath string
	serverURL  string
	language   string
	mode       string
	facing     string
	source     string
	tts        bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "lens",
		Short: "Point a camera at text or objects and get a translation or description",
		Long: `Lens captures frames from a camera, sends them to a lingualens server for
vision inference, and shows the localized translation and description.

Results can be read aloud through the server's text-to-speech endpoint.`,
		Example: `  # Start the interactive client against a local server
  lens

  # Translate into French using a V4L2 webcam
  lens --language French --mode translate --source v4l2`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "Config file (default ~/.lingualens/config.yaml)")
	cmd.PersistentFlags().StringVar(&f.serverURL, "server", "", "Processing server URL")
	cmd.PersistentFlags().StringVarP(&f.language, "language", "l", "", "Result language")
	cmd.PersistentFlags().StringVarP(&f.mode, "mode", "m", "", "Prompt mode: describe or translate")
	cmd.PersistentFlags().StringVar(&f.facing, "facing", "", "Camera facing: user or environment")
	cmd.PersistentFlags().StringVar(&f.source, "source", "", "Camera source: dir or v4l2")
	cmd.PersistentFlags().BoolVar(&f.tts, "tts", false, "Read new results aloud")

	cmd.AddCommand(newSnapCmd(&f))
	cmd.AddCommand(newLanguagesCmd())

	return cmd
}

func loadConfig(cmd *cobra.Command, f flags) (clientconfig.Config, error) {
	cfg, err := clientconfig.NewFileLoader(f.configPath).Load(cmd.Context())
	if err != nil {
		return clientconfig.Config{}, fmt.Errorf("load config: %w", err)
	}

	flagSet := cmd.Flags()
	if flagSet.Changed("server") {
		cfg.ServerURL = f.serverURL
	}
	if flagSet.Changed("language") {
		cfg.Language = f.language
	}
	if flagSet.Changed("mode") {
		cfg.Mode = f.mode
	}
	if flagSet.Changed("facing") {
		cfg.Camera.Facing = f.facing
	}
	if flagSet.Changed("source") {
		cfg.Camera.Source = f.source
	}
	if flagSet.Changed("tts") {
		cfg.Speech.Enabled = f.tts
	}
	return cfg, nil
}

// session bundles everything the client needs around one capture session.
type session struct {
	capture *capture.Session
	speaker *speech.Speaker
	facing  device.Facing
	logger  *slog.Logger
	closeFn func()
}

func newSession(cfg clientconfig.Config, logger *slog.Logger) (*session, error) {
	catalog := locale.Default()
	if !catalog.Has(cfg.Language) {
		return nil, fmt.Errorf("unsupported language %q (supported: %s)", cfg.Language, strings.Join(catalog.Languages(), ", "))
	}

	mode, err := capture.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	facing, err := device.ParseFacing(cfg.Camera.Facing)
	if err != nil {
		return nil, err
	}
	source, err := buildSource(cfg.Camera)
	if err != nil {
		return nil, err
	}

	cam := device.New(device.Config{
		Source:  source,
		Width:   cfg.Camera.Width,
		Height:  cfg.Camera.Height,
		Quality: cfg.Camera.Quality,
		Logger:  logger,
	})

	infer := inference.NewClient(inference.Config{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	tts := speech.NewClient(speech.Config{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	sess := capture.NewSession(capture.Options{
		Camera:    cam,
		Inference: infer,
		Catalog:   catalog,
		Language:  cfg.Language,
		Mode:      mode,
		Logger:    logger,
	})

	return &session{
		capture: sess,
		speaker: speech.NewSpeaker(tts, speech.NewCommandPlayer(cfg.Speech.Player), catalog),
		facing:  facing,
		logger:  logger,
		closeFn: sess.Close,
	}, nil
}

func buildSource(c clientconfig.CameraSettings) (device.Source, error) {
	switch strings.ToLower(c.Source) {
	case "dir", "":
		return device.NewDirSource(c.Front, c.Back), nil
	case "v4l2":
		return device.NewV4L2Source(c.Front, c.Back, c.FFmpeg), nil
	default:
		return nil, fmt.Errorf("unknown camera source %q", c.Source)
	}
}

func runTUI(ctx context.Context, cfg clientconfig.Config) error {
	logger, closeLog, err := openLog(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.closeFn()

	logger.Info("starting lens", "server", cfg.ServerURL, "language", cfg.Language, "source", cfg.Camera.Source)

	model := app.New(app.Options{
		Session:   s.capture,
		Speaker:   s.speaker,
		Toggle:    speech.Toggle{Enabled: cfg.Speech.Enabled, Muted: cfg.Speech.Muted},
		Facing:    s.facing,
		StatusTTL: cfg.StatusTTL,
		Logger:    logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// openLog sends logs to a file so the terminal stays clean.
func openLog(path, level string) (*slog.Logger, func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})), closeFn, nil
}

package clientconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL      string         `yaml:"server_url"`
	Language       string         `yaml:"language"`
	Mode           string         `yaml:"mode"`
	Camera         CameraSettings `yaml:"camera"`
	Speech         SpeechSettings `yaml:"speech"`
	StatusTTL      time.Duration  `yaml:"status_ttl"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	LogFile        string         `yaml:"log_file"`
	LogLevel       string         `yaml:"log_level"`
}

type CameraSettings struct {
	Source  string `yaml:"source"`
	Front   string `yaml:"front"`
	Back    string `yaml:"back"`
	Facing  string `yaml:"facing"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Quality int    `yaml:"quality"`
	FFmpeg  string `yaml:"ffmpeg"`
}

type SpeechSettings struct {
	Enabled bool   `yaml:"enabled"`
	Muted   bool   `yaml:"muted"`
	Player  string `yaml:"player"`
}

// FileLoader loads YAML configuration from ~/.lingualens/config.yaml
// (overridable via LENS_CONFIG).
type FileLoader struct {
	overridePath string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) Load(context.Context) (Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := writeDefault(path, cfg); err != nil {
				return Config{}, err
			}
			return applyEnv(cfg), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return applyEnv(hydrateDefaults(cfg)), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("LENS_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Dir is the per-user state directory.
func Dir() string {
	return filepath.Join(userHomeDir(), ".lingualens")
}

func writeDefault(path string, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func Default() Config {
	return Config{
		ServerURL: "http://localhost:5000",
		Language:  "English",
		Mode:      "describe",
		Camera: CameraSettings{
			Source:  "dir",
			Front:   filepath.Join(Dir(), "camera", "front"),
			Back:    filepath.Join(Dir(), "camera", "back"),
			Facing:  "user",
			Width:   1280,
			Height:  720,
			Quality: 90,
			FFmpeg:  "ffmpeg",
		},
		Speech: SpeechSettings{
			Enabled: false,
			Player:  "ffplay -nodisp -autoexit -loglevel quiet",
		},
		StatusTTL: 4 * time.Second,
		LogFile:   filepath.Join(Dir(), "lens.log"),
		LogLevel:  "info",
	}
}

func hydrateDefaults(cfg Config) Config {
	def := Default()
	if cfg.ServerURL == "" {
		cfg.ServerURL = def.ServerURL
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if cfg.Camera.Source == "" {
		cfg.Camera.Source = def.Camera.Source
	}
	if cfg.Camera.Facing == "" {
		cfg.Camera.Facing = def.Camera.Facing
	}
	if cfg.Camera.Width <= 0 {
		cfg.Camera.Width = def.Camera.Width
	}
	if cfg.Camera.Height <= 0 {
		cfg.Camera.Height = def.Camera.Height
	}
	if cfg.Camera.Quality <= 0 || cfg.Camera.Quality > 100 {
		cfg.Camera.Quality = def.Camera.Quality
	}
	if cfg.Camera.FFmpeg == "" {
		cfg.Camera.FFmpeg = def.Camera.FFmpeg
	}
	if cfg.Speech.Player == "" {
		cfg.Speech.Player = def.Speech.Player
	}
	if cfg.StatusTTL <= 0 {
		cfg.StatusTTL = def.StatusTTL
	}
	if cfg.LogFile == "" {
		cfg.LogFile = def.LogFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	cfg.Camera.Front = expandPath(cfg.Camera.Front)
	cfg.Camera.Back = expandPath(cfg.Camera.Back)
	cfg.LogFile = expandPath(cfg.LogFile)
	return cfg
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("LENS_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("LENS_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("LENS_CAMERA_SOURCE"); v != "" {
		cfg.Camera.Source = v
	}
	return cfg
}

func expandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

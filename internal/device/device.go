package device

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

type Config struct {
	Source  Source
	Width   int
	Height  int
	Quality int
	Logger  *slog.Logger
}

// Device owns at most one live stream. Opening a new stream always releases
// the previous one first.
type Device struct {
	source  Source
	width   int
	height  int
	quality int
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	stream  Stream
	state   State
	facing  Facing
	attempt uint64
}

func New(cfg Config) *Device {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Quality <= 0 {
		cfg.Quality = DefaultQuality
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Device{
		source:  cfg.Source,
		width:   cfg.Width,
		height:  cfg.Height,
		quality: cfg.Quality,
		logger:  cfg.Logger.With("component", "device"),
		now:     time.Now,
		facing:  FacingUser,
	}
}

func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Device) Facing() Facing {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.facing
}

func (d *Device) Start(ctx context.Context, facing Facing) error {
	d.mu.Lock()
	if d.state == StateRequesting {
		d.mu.Unlock()
		return ErrBusy
	}
	d.releaseLocked()
	d.state = StateRequesting
	d.facing = facing
	d.attempt++
	attempt := d.attempt
	d.mu.Unlock()

	if d.source == nil {
		d.mu.Lock()
		d.state = StateStopped
		d.mu.Unlock()
		return ErrUnsupported
	}

	stream, err := d.source.Open(ctx, Constraints{Facing: facing, Width: d.width, Height: d.height})

	d.mu.Lock()
	defer d.mu.Unlock()

	if attempt != d.attempt {
		if err == nil {
			_ = stream.Close()
		}
		return ErrSuperseded
	}
	if err != nil {
		d.state = StateStopped
		d.logger.Warn("camera open failed", "facing", facing, "kind", Classify(err).String(), "error", err)
		return fmt.Errorf("open %s camera: %w", facing, err)
	}

	d.stream = stream
	d.state = StateActive
	d.logger.Debug("camera started", "facing", facing)
	return nil
}

func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attempt++
	d.releaseLocked()
}

// Switch stops the active stream and opens the opposite facing mode. A failed
// open leaves the device stopped.
func (d *Device) Switch(ctx context.Context) error {
	return d.Start(ctx, d.Facing().Opposite())
}

func (d *Device) Snapshot() (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateActive || d.stream == nil {
		return Frame{}, ErrNotActive
	}

	img, err := d.stream.Frame()
	if err != nil {
		return Frame{}, fmt.Errorf("read frame: %w", err)
	}

	surface := Rasterize(img)
	data, err := EncodeJPEG(surface, d.quality)
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		DataURL:    DataURL(data),
		Width:      surface.Bounds().Dx(),
		Height:     surface.Bounds().Dy(),
		Facing:     d.facing,
		CapturedAt: d.now(),
	}, nil
}

func (d *Device) releaseLocked() {
	if d.stream != nil {
		if err := d.stream.Close(); err != nil {
			d.logger.Debug("stream close failed", "error", err)
		}
		d.stream = nil
	}
	d.state = StateStopped
}

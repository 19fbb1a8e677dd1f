package device

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"time"
)

const frameGrabTimeout = 5 * time.Second

// V4L2Source grabs frames from video4linux devices through ffmpeg.
type V4L2Source struct {
	devices map[Facing]string
	ffmpeg  string
}

func NewV4L2Source(front, back, ffmpeg string) *V4L2Source {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return &V4L2Source{
		devices: map[Facing]string{
			FacingUser:        front,
			FacingEnvironment: back,
		},
		ffmpeg: ffmpeg,
	}
}

func (s *V4L2Source) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.devices[c.Facing]
	if path == "" {
		return nil, fmt.Errorf("no device for %s camera: %w", c.Facing, ErrNoDevice)
	}

	bin, err := exec.LookPath(s.ffmpeg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	f.Close()

	return &v4l2Stream{
		path:   path,
		ffmpeg: bin,
		width:  c.Width,
		height: c.Height,
	}, nil
}

type v4l2Stream struct {
	path   string
	ffmpeg string
	width  int
	height int
}

func (s *v4l2Stream) Frame() (image.Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), frameGrabTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.ffmpeg, s.args()...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg grab: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

func (s *v4l2Stream) args() []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2",
		"-video_size", strconv.Itoa(s.width) + "x" + strconv.Itoa(s.height),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
}

func (s *v4l2Stream) Close() error {
	return nil
}

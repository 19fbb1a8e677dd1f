package device

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, w, h int, mod time.Time) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	f.Close()
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestDirSource_NewestImage(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writePNG(t, filepath.Join(dir, "old.png"), 10, 10, now.Add(-time.Hour))
	writePNG(t, filepath.Join(dir, "new.png"), 20, 15, now)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644)

	src := NewDirSource(dir, "")
	stream, err := src.Open(context.Background(), Constraints{Facing: FacingUser})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	img, err := stream.Frame()
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 15 {
		t.Errorf("expected newest image 20x15, got %v", img.Bounds())
	}
}

func TestDirSource_MissingFacing(t *testing.T) {
	src := NewDirSource(t.TempDir(), "")
	_, err := src.Open(context.Background(), Constraints{Facing: FacingEnvironment})
	if Classify(err) != FailureNoDevice {
		t.Errorf("expected no-device, got %v", err)
	}
}

func TestDirSource_MissingDirectory(t *testing.T) {
	src := NewDirSource(filepath.Join(t.TempDir(), "absent"), "")
	_, err := src.Open(context.Background(), Constraints{Facing: FacingUser})
	if Classify(err) != FailureNoDevice {
		t.Errorf("expected no-device, got %v", err)
	}
}

func TestDirSource_EmptyDirectory(t *testing.T) {
	src := NewDirSource(t.TempDir(), "")
	stream, err := src.Open(context.Background(), Constraints{Facing: FacingUser})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := stream.Frame(); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice for empty directory, got %v", err)
	}
}

func TestDirSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewDirSource(t.TempDir(), "")
	if _, err := src.Open(ctx, Constraints{Facing: FacingUser}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestV4L2Source_MissingBinary(t *testing.T) {
	src := NewV4L2Source("/dev/video0", "", "definitely-not-ffmpeg-binary")
	_, err := src.Open(context.Background(), Constraints{Facing: FacingUser})
	if Classify(err) != FailureUnsupported {
		t.Errorf("expected unsupported, got %v", err)
	}
}

func TestV4L2Source_NoDeviceForFacing(t *testing.T) {
	src := NewV4L2Source("/dev/video0", "", "")
	_, err := src.Open(context.Background(), Constraints{Facing: FacingEnvironment})
	if Classify(err) != FailureNoDevice {
		t.Errorf("expected no-device, got %v", err)
	}
}

func TestV4L2Stream_Args(t *testing.T) {
	s := &v4l2Stream{path: "/dev/video2", ffmpeg: "ffmpeg", width: 1280, height: 720}
	args := s.args()
	found := false
	for i, a := range args {
		if a == "-video_size" && i+1 < len(args) && args[i+1] == "1280x720" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected -video_size 1280x720 in %v", args)
	}
	if args[len(args)-1] != "-" {
		t.Errorf("expected output to stdout, got %q", args[len(args)-1])
	}
}

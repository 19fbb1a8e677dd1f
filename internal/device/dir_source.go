package device

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// DirSource is a still-image camera: every frame is the most recently
// modified image in the directory mapped to the requested facing mode.
type DirSource struct {
	dirs map[Facing]string
}

func NewDirSource(front, back string) *DirSource {
	return &DirSource{dirs: map[Facing]string{
		FacingUser:        front,
		FacingEnvironment: back,
	}}
}

func (s *DirSource) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := s.dirs[c.Facing]
	if dir == "" {
		return nil, fmt.Errorf("no directory for %s camera: %w", c.Facing, ErrNoDevice)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, ErrNoDevice)
	}
	return &dirStream{dir: dir}, nil
}

type dirStream struct {
	dir string
}

func (s *dirStream) Frame() (image.Image, error) {
	path, err := newestImage(s.dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (s *dirStream) Close() error {
	return nil
}

func newestImage(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		if newest == "" || mod > newestMod {
			newest = e.Name()
			newestMod = mod
		}
	}

	if newest == "" {
		return "", fmt.Errorf("no images in %s: %w", dir, ErrNoDevice)
	}
	return filepath.Join(dir, newest), nil
}

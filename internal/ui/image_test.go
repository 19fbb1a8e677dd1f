package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFit(t *testing.T) {
	tests := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{1280, 720, 40, 40, 40, 22},
		{720, 1280, 40, 40, 22, 40},
		{10, 10, 40, 20, 20, 20},
		{0, 10, 40, 20, 0, 0},
	}

	for _, tt := range tests {
		w, h := fit(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fit(%d,%d,%d,%d) = %d,%d want %d,%d",
				tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestRenderImage_Dimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 8), B: 128, A: 255})
		}
	}

	out := RenderImage(img, 20, 10, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 20 {
			t.Errorf("row %d: expected width 20, got %d", i, w)
		}
	}
}

func TestRenderImage_Empty(t *testing.T) {
	if RenderImage(nil, 10, 10, false) != "" {
		t.Error("nil image should render empty")
	}
	if RenderImage(image.NewRGBA(image.Rect(0, 0, 4, 4)), 0, 10, false) != "" {
		t.Error("zero width should render empty")
	}
}

func TestDecodeImage_Invalid(t *testing.T) {
	if _, err := DecodeImage([]byte("nope")); err == nil {
		t.Error("expected decode error")
	}
}

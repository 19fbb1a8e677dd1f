package ui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// RenderImage draws img into a width x height cell grid using upper half
// blocks, two pixel rows per cell. Mirrored flips horizontally.
func RenderImage(img image.Image, width, height int, mirrored bool) string {
	if img == nil || width <= 0 || height <= 0 {
		return ""
	}

	b := img.Bounds()
	w, h := fit(b.Dx(), b.Dy(), width, height*2)
	if w == 0 || h == 0 {
		return ""
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			sx := x
			if mirrored {
				sx = w - 1 - x
			}
			top := hexAt(dst, sx, y)
			bottom := top
			if y+1 < h {
				bottom = hexAt(dst, sx, y+1)
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// DecodeImage decodes raw image bytes for RenderImage.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func fit(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}
	w, h := maxW, srcH*maxW/srcW
	if h > maxH {
		h = maxH
		w = srcW * maxH / srcH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func hexAt(img *image.RGBA, x, y int) string {
	c := img.RGBAAt(x, y)
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxImageEdge = 1200
	DefaultJPEGQuality  = 80
	// MaxImagePixels bounds the decoded size of an upload, whatever its byte size.
	MaxImagePixels = 40_000_000
)

// CompressImage decodes src, scales it so the long edge is at most maxEdge and
// re-encodes it as JPEG at quality. Transparent areas are flattened onto white.
func CompressImage(src []byte, maxEdge, quality int) (out []byte, width, height int, err error) {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxImageEdge
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: unreadable image: %v", ErrInvalidInput, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, 0, 0, fmt.Errorf("%w: image is %dx%d, at most %d pixels are accepted",
			ErrInvalidInput, cfg.Width, cfg.Height, MaxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: unreadable image: %v", ErrInvalidInput, err)
	}

	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	if width > maxEdge || height > maxEdge {
		if width >= height {
			height = max(1, height*maxEdge/width)
			width = maxEdge
		} else {
			width = max(1, width*maxEdge/height)
			height = maxEdge
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), width, height, nil
}

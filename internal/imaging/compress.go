// Package imaging bounds the stored size of progress photos: downscale
// to a mobile-friendly width and recompress as JPEG before the result
// lands in the key-value store.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	maxWidth    = 800
	jpegQuality = 70
)

// Compress decodes an uploaded image, scales it down to at most maxWidth
// pixels wide, and returns it as a base64 JPEG data URL.
func Compress(r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxWidth {
		scale := float64(maxWidth) / float64(bounds.Dx())
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, int(float64(bounds.Dy())*scale)))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

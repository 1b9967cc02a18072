package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// decoders for the formats captioning and video inputs accept
	_ "image/jpeg"

	"golang.org/x/image/draw"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

const VideoSide = 768

// MimeTypeFor maps an image file extension to the mime type sent to vendors.
func MimeTypeFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	}

	return "", errs.Validation("unknown image extension %q", filepath.Ext(path))
}

// ResizeSquare scales a square image to side×side. Non-square images are
// rejected with a validation error.
func ResizeSquare(src image.Image, side int) (image.Image, error) {
	bounds := src.Bounds()
	if bounds.Dx() != bounds.Dy() {
		return nil, errs.Validation("image is not square: %dx%d", bounds.Dx(), bounds.Dy())
	}
	if side <= 0 {
		return nil, errs.Validation("invalid target side %d", side)
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	return dst, nil
}

// EncodePng encodes img as PNG into memory so callers can hand it to a writer
// that never overwrites.
func EncodePng(img image.Image) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return &buf, nil
}

func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errs.Validation("failed to decode %s: %v", filepath.Base(path), err)
	}

	return img, nil
}

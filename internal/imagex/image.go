// Package imagex normalizes user images before they are sent for
// watermarking and derives the file names used along the way.
package imagex

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	// decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned when an image cannot be decoded.
	ErrUnsupportedFormat = errors.New("This image format is not supported for watermarking. Please upload JPG/PNG (avoid HEIC/HEIF).")
	// ErrTooLarge is returned when the declared dimensions exceed MaxPixels.
	ErrTooLarge = errors.New("This image is too large for watermarking. Please upload a smaller JPG/PNG.")
)

// MaxPixels bounds width*height of an image accepted by ToPNG.
const MaxPixels = 50_000_000

const defaultStem = "image"

// DecodeError reports the decoder failure behind ErrUnsupportedFormat. Its
// message is the sentinel's; Cause is kept for logs.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return ErrUnsupportedFormat.Error() }

func (e *DecodeError) Unwrap() []error { return []error{ErrUnsupportedFormat, e.Cause} }

// ToPNG decodes data and re-encodes it losslessly as PNG. It returns the
// PNG bytes and the format name image.Decode detected. The header is
// checked against MaxPixels before any pixel data is decoded.
func ToPNG(data []byte) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Cause: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", &DecodeError{Cause: fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", ErrTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Cause: err}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), format, nil
}

// Stem returns the base file name without directory and extension, or
// "image" when nothing is left.
func Stem(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return defaultStem
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return defaultStem
	}
	return stem
}

// PNGName replaces the extension of name with ".png".
func PNGName(name string) string {
	return Stem(name) + ".png"
}

// ProtectedName is the download name of a watermarked image.
func ProtectedName(name string) string {
	return Stem(name) + "_protected.png"
}

// ExtensionFor guesses a file extension from a Content-Type value.
// Anything unrecognised is treated as JPEG.
func ExtensionFor(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "webp"):
		return "webp"
	default:
		return "jpg"
	}
}

// Package image encodes rendered cards as JPEG files and records which
// outputs are already up to date.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// ErrMissingEncoder is returned by CheckEncoder when JPEG encoding is not
// usable in this build.
var ErrMissingEncoder = errors.New("jpeg encoder unavailable")

// CheckEncoder verifies that a probe image survives a JPEG encode/decode
// round trip. It is run once at startup, before any rendering.
func CheckEncoder() error {
	probe := imaging.New(1, 1, color.White)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, probe, imaging.JPEG, imaging.JPEGQuality(DefaultQuality)); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingEncoder, err)
	}
	if _, err := imaging.Decode(&buf); err != nil {
		return fmt.Errorf("%w: decoding probe: %v", ErrMissingEncoder, err)
	}
	return nil
}

// Encode writes img to w as a JPEG at the given quality.
func Encode(w io.Writer, img image.Image, quality int) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("encoding jpeg: %w", err)
	}
	return nil
}

// WriteJPEG encodes img to outPath, creating parent directories as needed.
// outPath must carry a .jpg or .jpeg extension. A failed write may leave a
// partial file behind.
func WriteJPEG(outPath string, img image.Image, quality int) error {
	format, err := imaging.FormatFromFilename(outPath)
	if err != nil {
		return fmt.Errorf("output %s: %w", outPath, err)
	}
	if format != imaging.JPEG {
		return fmt.Errorf("output %s: want a .jpg extension, got %s", outPath, format)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", outPath, err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := Encode(f, img, quality); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return f.Close()
}

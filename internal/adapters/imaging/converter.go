package imaging

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/devbush/daybrief/internal/ports"
)

// digestLen is the number of hex characters of the content hash used as
// the file name.
const digestLen = 16

var errEmptyImage = errors.New("downloaded empty image")

// Converter implements ports.ImageConverter
type Converter struct {
	encoder png.Encoder
}

// NewConverter creates an image converter
func NewConverter() *Converter {
	return &Converter{encoder: png.Encoder{CompressionLevel: png.BestCompression}}
}

// FileName returns the PNG name derived from image content.
func FileName(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:digestLen] + ".png"
}

// ToPNG decodes data (PNG, JPEG or GIF) and writes it as PNG under dir.
// Identical content maps to the same file, which is only written once.
func (c *Converter) ToPNG(data []byte, dir string) (string, int, int, error) {
	if len(data) == 0 {
		return "", 0, 0, errEmptyImage
	}

	path := filepath.Join(dir, FileName(data))
	if w, h, err := c.Size(path); err == nil {
		return path, w, h, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, 0, fmt.Errorf("failed to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".img-*.tmp")
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Track success to clean up partial writes on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := c.encoder.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", 0, 0, fmt.Errorf("failed to encode %s as png: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, 0, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", 0, 0, fmt.Errorf("failed to write image: %w", err)
	}
	success = true

	b := img.Bounds()
	return path, b.Dx(), b.Dy(), nil
}

// Size returns the pixel dimensions of an image file.
func (c *Converter) Size(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image size: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

var _ ports.ImageConverter = (*Converter)(nil)

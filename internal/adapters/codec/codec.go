package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"viewbot/internal/adapters/file"
	"viewbot/internal/core/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const DefaultJPEGQuality = 90

// File decodes images from memory and encodes them to disk.
type File struct {
	resolution  float64
	jpegQuality int
	maxPixels   int
}

type Option func(*File)

// WithMaxPixels rejects images whose header declares more than n pixels,
// before any pixel data is decoded. Zero disables the check.
func WithMaxPixels(n int) Option {
	return func(c *File) {
		c.maxPixels = n
	}
}

func NewFile(resolution float64, jpegQuality int, opts ...Option) *File {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}

	c := &File{resolution: resolution, jpegQuality: jpegQuality}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *File) Decode(data []byte) (*domain.RasterImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(err, len(data))
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: decoded %dx%d image", domain.ErrInvalidDimension, cfg.Width, cfg.Height)
	}

	if c.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(c.maxPixels) {
		log.Warn().Int("width", cfg.Width).Int("height", cfg.Height).Int("maxPixels", c.maxPixels).
			Msg("rejected oversized image")
		return nil, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", domain.ErrInvalidDimension,
			cfg.Width, cfg.Height, c.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(err, len(data))
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: decoded %dx%d image", domain.ErrInvalidDimension, b.Dx(), b.Dy())
	}

	log.Debug().Str("format", format).Int("width", b.Dx()).Int("height", b.Dy()).Msg("decoded image")

	return domain.RasterFromImage(img, domain.Resolution{X: c.resolution, Y: c.resolution}), nil
}

func decodeError(err error, size int) error {
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %w", domain.ErrUnsupportedFormat, err)
	}

	err = fmt.Errorf("%w: error decoding image: %w", domain.ErrIO, err)
	log.Error().Err(err).Int("bytes", size).Send()
	return err
}

// Encode writes img to path in the format implied by its extension. The file
// only appears at path once encoding has fully succeeded.
func (c *File) Encode(img *domain.RasterImage, path string) error {
	enc, err := c.encoder(filepath.Ext(path))
	if err != nil {
		return err
	}

	err = file.WriteAtomic(path, func(w io.Writer) error {
		return enc(w, img.Pixels())
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	log.Debug().Str("path", path).Msg("saved image")

	return nil
}

// EncodeBytes encodes img in memory using the format for ext.
func (c *File) EncodeBytes(img image.Image, ext string) ([]byte, error) {
	enc, err := c.encoder(ext)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	return buf.Bytes(), nil
}

type encodeFunc func(w io.Writer, img image.Image) error

func (c *File) encoder(ext string) (encodeFunc, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: c.jpegQuality})
		}, nil
	case ".gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
}

// Extensions lists the file extensions Encode accepts.
func Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"}
}

package service

import (
	"fmt"
	"math"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// ImageSurface owns at most one raster image and re-renders through its
// Renderer whenever the image is replaced. It does no locking; hosts that share
// a surface between goroutines must serialize access themselves.
type ImageSurface struct {
	img       *domain.RasterImage
	centered  bool
	maxPixels int
	codec     port.ImageCodec
	renderer  port.Renderer
}

type SurfaceOption func(*ImageSurface)

// WithImage seeds the surface with an initial image.
func WithImage(img *domain.RasterImage) SurfaceOption {
	return func(s *ImageSurface) {
		s.img = img
	}
}

// WithMaxPixels caps the area of images produced by resizing. Zero disables
// the cap.
func WithMaxPixels(n int) SurfaceOption {
	return func(s *ImageSurface) {
		s.maxPixels = n
	}
}

func NewImageSurface(codec port.ImageCodec, renderer port.Renderer, opts ...SurfaceOption) *ImageSurface {
	s := &ImageSurface{codec: codec, renderer: renderer}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetImage replaces the held image and releases the previous one. The render
// hook fires only when the new image is non-nil; the return value reports
// whether it did.
func (s *ImageSurface) SetImage(img *domain.RasterImage) bool {
	if s.img != nil && s.img != img {
		s.img.Release()
	}
	s.img = img

	if s.img == nil {
		log.Debug().Msg("surface cleared")
		return false
	}

	log.Debug().Int("width", s.img.Width()).Int("height", s.img.Height()).Msg("surface image replaced")
	if s.renderer != nil {
		s.renderer.NotifyChanged()
	}

	return true
}

func (s *ImageSurface) Image() (*domain.RasterImage, bool) {
	return s.img, s.img != nil
}

func (s *ImageSurface) HasImage() bool {
	return s.img != nil
}

func (s *ImageSurface) ImageSize() (domain.Size, error) {
	if s.img == nil {
		return domain.Size{}, domain.ErrNoImage
	}

	return s.img.Size(), nil
}

// SaveImage encodes the held image to path. Codec errors are returned as-is.
func (s *ImageSurface) SaveImage(path string) error {
	if s.img == nil {
		return domain.ErrNoImage
	}

	return s.codec.Encode(s.img, path)
}

// ApplyGreyscale is a no-op on an empty surface.
func (s *ImageSurface) ApplyGreyscale() {
	if s.img == nil {
		return
	}

	s.SetImage(greyscale(s.img))
}

// ResizeImage fits the image within target, preserving its aspect ratio.
func (s *ImageSurface) ResizeImage(target domain.Size) error {
	if s.img == nil {
		return domain.ErrNoImage
	}

	src := s.img.Size()
	if src.Empty() {
		return fmt.Errorf("%w: source is %dx%d", domain.ErrInvalidDimension, src.Width, src.Height)
	}

	// target sides are bounded by the budget too, since fitWithin multiplies them
	if s.maxPixels > 0 && (target.Width > s.maxPixels || target.Height > s.maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", domain.ErrInvalidDimension,
			target.Width, target.Height, s.maxPixels)
	}

	dst := fitWithin(src, target)
	if dst.Empty() {
		return fmt.Errorf("%w: %dx%d does not fit into %dx%d", domain.ErrInvalidDimension,
			src.Width, src.Height, target.Width, target.Height)
	}

	if s.maxPixels > 0 && dst.Pixels() > int64(s.maxPixels) {
		log.Debug().Int("width", dst.Width).Int("height", dst.Height).Int("maxPixels", s.maxPixels).
			Msg("resize rejected")
		return fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", domain.ErrInvalidDimension,
			dst.Width, dst.Height, s.maxPixels)
	}

	s.SetImage(resample(s.img, dst))

	return nil
}

const (
	zoomInFactor  = 2.0
	zoomOutFactor = 0.5
)

// ZoomImage doubles or halves the image. It is a no-op on an empty surface.
func (s *ImageSurface) ZoomImage(zoomIn bool) error {
	if s.img == nil {
		return nil
	}

	factor := zoomOutFactor
	if zoomIn {
		factor = zoomInFactor
	}

	return s.ResizeImage(domain.Size{
		Width:  int(math.Round(float64(s.img.Width()) * factor)),
		Height: int(math.Round(float64(s.img.Height()) * factor)),
	})
}

// ScaleToFit fits the image within the host's drawable area.
func (s *ImageSurface) ScaleToFit(drawable domain.Size) error {
	return s.ResizeImage(drawable)
}

// SetCentered only records the placement; the host picks it up on its next paint.
func (s *ImageSurface) SetCentered(centered bool) {
	s.centered = centered
}

func (s *ImageSurface) Centered() bool {
	return s.centered
}

// RenderOrigin returns where the host should draw the image, in the host's
// logical coordinates. The second result is false when there is nothing to draw.
func (s *ImageSurface) RenderOrigin(v domain.Viewport) (domain.PointF, bool) {
	if s.img == nil {
		return domain.PointF{}, false
	}

	if !s.centered {
		return domain.PointF{X: float64(v.Location.X), Y: float64(v.Location.Y)}, true
	}

	w, h := logicalSize(s.img, v)

	return domain.PointF{
		X: (v.VisibleWidth - w) / 2,
		Y: (v.VisibleHeight - h) / 2,
	}, true
}

// logicalSize converts pixel dimensions into the viewport's coordinate space.
func logicalSize(img *domain.RasterImage, v domain.Viewport) (float64, float64) {
	res := img.Resolution()
	return v.DpiX * float64(img.Width()) / res.X, v.DpiY * float64(img.Height()) / res.Y
}

package port

import (
	"context"
	"image"
	"viewbot/internal/core/domain"
)

type ImageCodec interface {
	// Decode turns encoded image bytes into a raster image.
	Decode(data []byte) (*domain.RasterImage, error)
	// Encode writes the raster image to path, picking the format from the file extension.
	Encode(img *domain.RasterImage, path string) error
}

type FrameEncoder interface {
	// EncodeBytes encodes a composed frame in memory using the format for the given extension.
	EncodeBytes(img image.Image, ext string) ([]byte, error)
}

type Renderer interface {
	// NotifyChanged is called after every successful image replacement.
	NotifyChanged()
}

type Downloader interface {
	// Download fetches the content behind url.
	Download(ctx context.Context, url string) ([]byte, error)
}

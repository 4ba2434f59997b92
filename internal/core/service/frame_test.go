package service

import (
	"image"
	"image/color"
	"testing"
	"viewbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 255, A: 255}

func solid(w, h int, c color.NRGBA, res domain.Resolution) *domain.RasterImage {
	pix := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pix.Pix); i += 4 {
		pix.Pix[i], pix.Pix[i+1], pix.Pix[i+2], pix.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return domain.NewRasterImage(pix, res)
}

func TestFrameEmptySurface(t *testing.T) {
	s := NewImageSurface(&mockCodec{}, nil)

	_, err := Frame(s, domain.Viewport{DpiX: 96, DpiY: 96, VisibleWidth: 10, VisibleHeight: 10}, color.White)
	require.ErrorIs(t, err, domain.ErrNoImage)
}

func TestFrameInvalidViewport(t *testing.T) {
	s := NewImageSurface(&mockCodec{}, nil, WithImage(solid(2, 2, red, domain.Resolution{})))

	_, err := Frame(s, domain.Viewport{DpiX: 96, DpiY: 96}, color.White)
	require.ErrorIs(t, err, domain.ErrInvalidDimension)
}

func TestFramePlacement(t *testing.T) {
	viewport := domain.Viewport{DpiX: 96, DpiY: 96, VisibleWidth: 20, VisibleHeight: 10}

	tests := []struct {
		name     string
		centered bool
		inside   image.Point
		outside  image.Point
	}{
		{
			name:    "anchored top-left",
			inside:  image.Pt(0, 0),
			outside: image.Pt(8, 5),
		},
		{
			name:     "centered",
			centered: true,
			inside:   image.Pt(8, 3),
			outside:  image.Pt(0, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewImageSurface(&mockCodec{}, nil, WithImage(solid(4, 4, red, domain.Resolution{X: 96, Y: 96})))
			s.SetCentered(tc.centered)

			frame, err := Frame(s, viewport, color.White)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 20, 10), frame.Bounds())

			assert.Equal(t, red, frame.NRGBAAt(tc.inside.X, tc.inside.Y))
			assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, frame.NRGBAAt(tc.outside.X, tc.outside.Y))
		})
	}
}

func TestFrameScalesForResolution(t *testing.T) {
	// A 192 dpi image shows at half its pixel size on a 96 dpi host.
	s := NewImageSurface(&mockCodec{}, nil, WithImage(solid(8, 8, red, domain.Resolution{X: 192, Y: 192})))

	frame, err := Frame(s, domain.Viewport{DpiX: 96, DpiY: 96, VisibleWidth: 10, VisibleHeight: 10}, color.White)
	require.NoError(t, err)

	assert.Equal(t, red, frame.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, frame.NRGBAAt(6, 6))
}

package domain

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRasterImage(t *testing.T) {
	pix := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img := NewRasterImage(pix, Resolution{X: 72, Y: 300})

	assert.Equal(t, Size{Width: 6, Height: 4}, img.Size())
	assert.Equal(t, Resolution{X: 72, Y: 300}, img.Resolution())
	assert.Same(t, pix, img.Pixels())
}

func TestNewRasterImageDefaultsResolution(t *testing.T) {
	img := NewRasterImage(image.NewNRGBA(image.Rect(0, 0, 1, 1)), Resolution{X: -1})

	assert.Equal(t, Resolution{X: DefaultResolution, Y: DefaultResolution}, img.Resolution())
}

func TestNewRasterImageRebasesOrigin(t *testing.T) {
	pix := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	pix.SetNRGBA(5, 5, color.NRGBA{R: 9, A: 255})

	img := NewRasterImage(pix, Resolution{})

	require.Equal(t, image.Rect(0, 0, 3, 2), img.Pixels().Rect)
	assert.Equal(t, color.NRGBA{R: 9, A: 255}, img.Pixels().NRGBAAt(0, 0))
}

func TestRasterFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	src.SetGray(1, 2, color.Gray{Y: 200})

	img := RasterFromImage(src, Resolution{X: 96, Y: 96})

	assert.Equal(t, Size{Width: 3, Height: 3}, img.Size())
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, img.Pixels().NRGBAAt(1, 2))
}

func TestRelease(t *testing.T) {
	img := NewRasterImage(image.NewNRGBA(image.Rect(0, 0, 4, 4)), Resolution{})
	require.False(t, img.Released())

	img.Release()

	assert.True(t, img.Released())
	assert.Equal(t, Size{}, img.Size())
	assert.Nil(t, img.Pixels())
}

func TestViewportDrawable(t *testing.T) {
	v := Viewport{VisibleWidth: 640.7, VisibleHeight: 480}
	assert.Equal(t, Size{Width: 640, Height: 480}, v.Drawable())
	assert.True(t, Size{Width: 0, Height: 3}.Empty())
}

func TestPointFPt(t *testing.T) {
	assert.Equal(t, image.Pt(3, -2), PointF{X: 2.5, Y: -1.6}.Pt())
}

func TestSizePixels(t *testing.T) {
	assert.Equal(t, int64(12), Size{Width: 4, Height: 3}.Pixels())
	assert.Equal(t, int64(1)<<40, Size{Width: 1 << 20, Height: 1 << 20}.Pixels())
}

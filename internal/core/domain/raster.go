package domain

import (
	"image"

	"golang.org/x/image/draw"
)

// Resolution is the pixel density of an image in pixels per inch.
type Resolution struct {
	X float64
	Y float64
}

func (r Resolution) normalized() Resolution {
	if r.X <= 0 {
		r.X = DefaultResolution
	}
	if r.Y <= 0 {
		r.Y = DefaultResolution
	}
	return r
}

// RasterImage is an owned, non-premultiplied RGBA pixel buffer. It is never
// mutated after construction; transforms build a new RasterImage.
type RasterImage struct {
	pix        *image.NRGBA
	resolution Resolution
}

// NewRasterImage takes ownership of pix. The buffer is rebased to a (0,0) origin
// if needed.
func NewRasterImage(pix *image.NRGBA, res Resolution) *RasterImage {
	if pix != nil && pix.Rect.Min != (image.Point{}) {
		pix = copyNRGBA(pix)
	}
	return &RasterImage{pix: pix, resolution: res.normalized()}
}

// RasterFromImage copies any image.Image into a new RasterImage.
func RasterFromImage(img image.Image, res Resolution) *RasterImage {
	return &RasterImage{pix: copyNRGBA(img), resolution: res.normalized()}
}

func copyNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

func (r *RasterImage) Width() int {
	if r.pix == nil {
		return 0
	}
	return r.pix.Rect.Dx()
}

func (r *RasterImage) Height() int {
	if r.pix == nil {
		return 0
	}
	return r.pix.Rect.Dy()
}

func (r *RasterImage) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

func (r *RasterImage) Resolution() Resolution {
	return r.resolution
}

// Pixels exposes the underlying buffer for reading. Callers must not modify it.
func (r *RasterImage) Pixels() *image.NRGBA {
	return r.pix
}

// Release drops the pixel buffer. A released image has zero size.
func (r *RasterImage) Release() {
	r.pix = nil
}

func (r *RasterImage) Released() bool {
	return r.pix == nil
}

package service

import (
	"image"
	"math"
	"viewbot/internal/core/domain"

	"golang.org/x/image/draw"
)

const (
	lumaR = 0.3
	lumaG = 0.59
	lumaB = 0.11
)

func greyscale(src *domain.RasterImage) *domain.RasterImage {
	in := src.Pixels()
	out := image.NewNRGBA(in.Rect)

	for y := 0; y < in.Rect.Dy(); y++ {
		row := in.Pix[y*in.Stride : y*in.Stride+in.Rect.Dx()*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+out.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			l := lumaR*float64(row[i]) + lumaG*float64(row[i+1]) + lumaB*float64(row[i+2])
			v := uint8(math.Min(math.Round(l), 255))
			dst[i], dst[i+1], dst[i+2] = v, v, v
			dst[i+3] = row[i+3]
		}
	}

	return domain.NewRasterImage(out, src.Resolution())
}

// fitWithin scales src by the tighter of the two target ratios. Integer
// arithmetic keeps the governing side exactly equal to the target.
func fitWithin(src, target domain.Size) domain.Size {
	sw, sh := int64(src.Width), int64(src.Height)
	tw, th := int64(target.Width), int64(target.Height)

	if tw*sh <= th*sw {
		return domain.Size{Width: int(tw), Height: int(floorDiv(sh*tw, sw))}
	}

	return domain.Size{Width: int(floorDiv(sw*th, sh)), Height: int(th)}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func resample(src *domain.RasterImage, size domain.Size) *domain.RasterImage {
	dst := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(dst, dst.Rect, src.Pixels(), src.Pixels().Rect, draw.Src, nil)

	return domain.NewRasterImage(dst, src.Resolution())
}

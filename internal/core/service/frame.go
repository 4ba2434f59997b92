package service

import (
	"image"
	"image/color"
	"viewbot/internal/core/domain"

	"golang.org/x/image/draw"
)

// Frame paints the surface onto a viewport-sized canvas. It returns
// ErrNoImage when there is nothing to paint so the host can skip the frame.
func Frame(s *ImageSurface, v domain.Viewport, background color.Color) (*image.NRGBA, error) {
	origin, ok := s.RenderOrigin(v)
	if !ok {
		return nil, domain.ErrNoImage
	}

	drawable := v.Drawable()
	if drawable.Empty() {
		return nil, domain.ErrInvalidDimension
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, drawable.Width, drawable.Height))
	draw.Draw(canvas, canvas.Rect, image.NewUniform(background), image.Point{}, draw.Src)

	src := s.img.Pixels()
	w, h := logicalSize(s.img, v)
	at := origin.Pt()
	dst := image.Rect(at.X, at.Y, at.X+int(w+0.5), at.Y+int(h+0.5))

	if dst.Size() == src.Rect.Size() {
		draw.Draw(canvas, dst, src, image.Point{}, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(canvas, dst, src, src.Rect, draw.Over, nil)
	}

	return canvas, nil
}

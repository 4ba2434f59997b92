package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/service"
)

type Grey struct {
	viewer  *Viewer
	command string
}

func NewGrey(viewer *Viewer, command string) *Grey {
	return &Grey{viewer: viewer, command: command}
}

func (g *Grey) GetCommand() string {
	return g.command
}

func (g *Grey) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(g.GetCommand(), message)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return g.viewer.apply(ctx, message, func(s *service.ImageSurface) error {
		s.ApplyGreyscale()
		return nil
	})
}

type Zoom struct {
	viewer  *Viewer
	zoomIn  bool
	command string
}

func NewZoom(viewer *Viewer, zoomIn bool, command string) *Zoom {
	return &Zoom{viewer: viewer, zoomIn: zoomIn, command: command}
}

func (z *Zoom) GetCommand() string {
	return z.command
}

func (z *Zoom) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(z.GetCommand(), message)
	l.Info().Bool("zoomIn", z.zoomIn).Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return z.viewer.apply(ctx, message, func(s *service.ImageSurface) error {
		return s.ZoomImage(z.zoomIn)
	})
}

type Fit struct {
	viewer  *Viewer
	command string
}

func NewFit(viewer *Viewer, command string) *Fit {
	return &Fit{viewer: viewer, command: command}
}

func (f *Fit) GetCommand() string {
	return f.command
}

func (f *Fit) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(f.GetCommand(), message)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return f.viewer.apply(ctx, message, func(s *service.ImageSurface) error {
		return s.ScaleToFit(f.viewer.viewport.Drawable())
	})
}

type Resize struct {
	viewer  *Viewer
	command string
}

func NewResize(viewer *Viewer, command string) *Resize {
	return &Resize{viewer: viewer, command: command}
}

func (r *Resize) GetCommand() string {
	return r.command
}

func (r *Resize) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(r.GetCommand(), message)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target, err := ParseSize(ParseCommandArgs(message.Text))
	if err != nil {
		l.Debug().Err(err).Msg("invalid size argument")
		_ = r.viewer.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("usage: %s <width>x<height>", r.GetCommand()), message)
		return nil
	}

	return r.viewer.apply(ctx, message, func(s *service.ImageSurface) error {
		return s.ResizeImage(target)
	})
}

// ParseSize reads sizes written as "800x600".
func ParseSize(arg string) (domain.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(arg)), "x")
	if !ok {
		return domain.Size{}, errors.New("missing separator")
	}

	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return domain.Size{}, fmt.Errorf("invalid width: %w", err)
	}

	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return domain.Size{}, fmt.Errorf("invalid height: %w", err)
	}

	size := domain.Size{Width: width, Height: height}

	if size.Empty() {
		return domain.Size{}, fmt.Errorf("%w: %dx%d", domain.ErrInvalidDimension, size.Width, size.Height)
	}

	return size, nil
}

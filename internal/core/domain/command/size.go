package command

import (
	"context"
	"fmt"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/service"
)

type Size struct {
	viewer  *Viewer
	command string
}

func NewSize(viewer *Viewer, command string) *Size {
	return &Size{viewer: viewer, command: command}
}

func (s *Size) GetCommand() string {
	return s.command
}

func (s *Size) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(s.GetCommand(), message)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var size domain.Size
	var centered bool
	err := s.viewer.sessions.Get(message.ChatID).Do(func(surface *service.ImageSurface) error {
		var err error
		size, err = surface.ImageSize()
		centered = surface.Centered()
		return err
	})
	if err != nil {
		return s.viewer.notify(ctx, err, message)
	}

	placement := "top-left"
	if centered {
		placement = "centered"
	}

	_, err = s.viewer.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf("%dx%d pixels, %s", size.Width, size.Height, placement))
	if err != nil {
		return s.viewer.textSender.NotifyAndReturnError(ctx, err, message)
	}

	return nil
}

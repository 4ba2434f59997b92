package command

import (
	"context"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/service"
)

type Clear struct {
	viewer  *Viewer
	command string
}

func NewClear(viewer *Viewer, command string) *Clear {
	return &Clear{viewer: viewer, command: command}
}

func (c *Clear) GetCommand() string {
	return c.command
}

func (c *Clear) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(c.GetCommand(), message)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_ = c.viewer.sessions.Get(message.ChatID).Do(func(s *service.ImageSurface) error {
		s.SetImage(nil)
		return nil
	})

	_, err := c.viewer.textSender.SendMessageReply(ctx, message, "image cleared")
	return err
}

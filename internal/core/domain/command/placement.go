package command

import (
	"context"
	"fmt"
	"strings"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/service"
)

type Center struct {
	viewer  *Viewer
	command string
}

func NewCenter(viewer *Viewer, command string) *Center {
	return &Center{viewer: viewer, command: command}
}

func (c *Center) GetCommand() string {
	return c.command
}

func (c *Center) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(c.GetCommand(), message)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var centered bool
	switch strings.ToLower(strings.TrimSpace(ParseCommandArgs(message.Text))) {
	case "", "on", "true", "yes":
		centered = true
	case "off", "false", "no":
		centered = false
	default:
		_ = c.viewer.textSender.NotifyAndReturnError(ctx, fmt.Errorf("usage: %s [on|off]", c.GetCommand()), message)
		return nil
	}

	l.Info().Bool("centered", centered).Msg("handling request")

	return c.viewer.repaint(ctx, message, func(s *service.ImageSurface) error {
		s.SetCentered(centered)
		return nil
	})
}

type Show struct {
	viewer  *Viewer
	command string
}

func NewShow(viewer *Viewer, command string) *Show {
	return &Show{viewer: viewer, command: command}
}

func (s *Show) GetCommand() string {
	return s.command
}

func (s *Show) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(s.GetCommand(), message)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.viewer.repaint(ctx, message, func(_ *service.ImageSurface) error {
		return nil
	})
}

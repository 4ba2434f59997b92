package command

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/service"
)

type Save struct {
	viewer  *Viewer
	dir     string
	command string
}

func NewSave(viewer *Viewer, dir string, command string) *Save {
	return &Save{viewer: viewer, dir: dir, command: command}
}

func (s *Save) GetCommand() string {
	return s.command
}

func (s *Save) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(s.GetCommand(), message)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := SaveFileName(ParseCommandArgs(message.Text))
	if name == "" {
		_ = s.viewer.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("usage: %s <name>.png|jpg|gif|bmp|tiff", s.GetCommand()), message)
		return nil
	}

	path := filepath.Join(s.dir, name)

	err := s.viewer.sessions.Get(message.ChatID).Do(func(surface *service.ImageSurface) error {
		return surface.SaveImage(path)
	})
	if err != nil {
		l.Error().Err(err).Str("path", path).Msg("failed to save image")
		return s.viewer.notify(ctx, err, message)
	}

	l.Info().Str("path", path).Msg("image saved")

	_, err = s.viewer.textSender.SendMessageReply(ctx, message, "saved "+name)
	return err
}

// SaveFileName reduces a user supplied name to a bare file name so saves
// cannot escape the storage directory.
func SaveFileName(arg string) string {
	name := filepath.Base(strings.TrimSpace(filepath.ToSlash(arg)))
	if name == "." || name == "/" || name == ".." || strings.HasPrefix(name, ".") {
		return ""
	}

	return name
}

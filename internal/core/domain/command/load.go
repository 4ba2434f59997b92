package command

import (
	"context"
	"errors"
	"fmt"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/port"
	"viewbot/internal/core/service"
)

type Load struct {
	viewer     *Viewer
	codec      port.ImageCodec
	downloader port.Downloader
	command    string
}

func NewLoad(viewer *Viewer, codec port.ImageCodec, downloader port.Downloader, command string) *Load {
	return &Load{viewer: viewer, codec: codec, downloader: downloader, command: command}
}

func (l *Load) GetCommand() string {
	return l.command
}

func (l *Load) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	logger := requestLogger(l.GetCommand(), message)
	logger.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if message.ImageURL == "" {
		_ = l.viewer.textSender.NotifyAndReturnError(ctx,
			errors.New("send a photo with /load as caption, or reply to one"), message)
		return nil
	}

	go l.viewer.textSender.SendChatAction(ctx, message.ChatID, domain.SendingPhoto)

	data, err := l.downloader.Download(ctx, message.ImageURL)
	if err != nil {
		return l.viewer.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to download image: %w", err), message)
	}

	img, err := l.codec.Decode(data)
	if errors.Is(err, domain.ErrInvalidDimension) {
		logger.Info().Err(err).Msg("rejected image")
		_ = l.viewer.textSender.NotifyAndReturnError(ctx, fmt.Errorf("can't load image: %w", err), message)
		return nil
	}
	if err != nil {
		return l.viewer.notify(ctx, err, message)
	}

	logger.Debug().Int("width", img.Width()).Int("height", img.Height()).Msg("image decoded")

	return l.viewer.apply(ctx, message, func(s *service.ImageSurface) error {
		s.SetImage(img)
		return nil
	})
}

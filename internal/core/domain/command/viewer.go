package command

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/port"
	"viewbot/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Viewer bundles what every viewer command needs: the per-chat surfaces, the
// host geometry and the senders used to repaint.
type Viewer struct {
	sessions    *service.Sessions
	encoder     port.FrameEncoder
	textSender  port.TextSender
	imageSender port.ImageSender
	viewport    domain.Viewport
	background  color.Color
}

func NewViewer(sessions *service.Sessions, encoder port.FrameEncoder, textSender port.TextSender,
	imageSender port.ImageSender, viewport domain.Viewport, background color.Color) *Viewer {
	return &Viewer{sessions: sessions, encoder: encoder, textSender: textSender, imageSender: imageSender,
		viewport: viewport, background: background}
}

const noImageHint = "no image loaded, send a photo with /load"

func requestLogger(command string, message *domain.Message) zerolog.Logger {
	return log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", command).
		Logger()
}

// apply runs op on the chat's surface and repaints if op replaced the image.
func (v *Viewer) apply(ctx context.Context, message *domain.Message, op func(s *service.ImageSurface) error) error {
	frame, hasImage, err := v.run(message.ChatID, op, false)
	if err != nil {
		return v.notify(ctx, err, message)
	}

	if frame == nil {
		if !hasImage {
			_, err = v.textSender.SendMessageReply(ctx, message, noImageHint)
		}
		return err
	}

	return v.send(ctx, message, frame)
}

// repaint runs op and always repaints afterwards, for changes the surface does
// not announce itself (placement) or explicit redraw requests.
func (v *Viewer) repaint(ctx context.Context, message *domain.Message, op func(s *service.ImageSurface) error) error {
	frame, hasImage, err := v.run(message.ChatID, op, true)
	if err != nil {
		return v.notify(ctx, err, message)
	}

	if !hasImage {
		_, err = v.textSender.SendMessageReply(ctx, message, noImageHint)
		return err
	}

	return v.send(ctx, message, frame)
}

func (v *Viewer) run(chatID int64, op func(s *service.ImageSurface) error, force bool) ([]byte, bool, error) {
	var frame []byte
	var hasImage bool

	session := v.sessions.Get(chatID)
	err := session.Do(func(s *service.ImageSurface) error {
		// drop changes from before this request
		session.TakeChanged()

		if err := op(s); err != nil {
			return err
		}

		hasImage = s.HasImage()
		if !hasImage || (!session.TakeChanged() && !force) {
			return nil
		}

		var err error
		frame, err = v.paint(s)
		return err
	})

	return frame, hasImage, err
}

func (v *Viewer) paint(s *service.ImageSurface) ([]byte, error) {
	frame, err := service.Frame(s, v.viewport, v.background)
	if err != nil {
		return nil, fmt.Errorf("failed to compose frame: %w", err)
	}

	return v.encoder.EncodeBytes(frame, ".png")
}

func (v *Viewer) send(ctx context.Context, message *domain.Message, frame []byte) error {
	if err := v.imageSender.SendImageFileReply(ctx, message, frame); err != nil {
		return v.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send image: %w", err), message)
	}

	return nil
}

// notify reports err to the chat. Expected user errors are swallowed after the
// notification; anything else is returned.
func (v *Viewer) notify(ctx context.Context, err error, message *domain.Message) error {
	switch {
	case errors.Is(err, domain.ErrNoImage):
		_ = v.textSender.NotifyAndReturnError(ctx, errors.New(noImageHint), message)
		return nil
	case errors.Is(err, domain.ErrInvalidDimension):
		_ = v.textSender.NotifyAndReturnError(ctx, fmt.Errorf("can't resize: %w", err), message)
		return nil
	case errors.Is(err, domain.ErrUnsupportedFormat):
		_ = v.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	default:
		return v.textSender.NotifyAndReturnError(ctx, err, message)
	}
}

package handler

import (
	"context"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/domain/command"
	"viewbot/internal/core/port"
	"viewbot/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// FileLinker resolves Telegram file IDs to download URLs.
type FileLinker interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type Command struct {
	commandRegistry port.CommandRegistry
	authorizer      service.Authorizer
	files           FileLinker
	timeout         time.Duration
}

func NewCommand(commandRegistry port.CommandRegistry, authorizer service.Authorizer, files FileLinker,
	timeout time.Duration) *Command {
	return &Command{commandRegistry: commandRegistry, authorizer: authorizer, files: files, timeout: timeout}
}

// Handle matches the go-telegram handler signature. Commands run on their own
// goroutine; per-chat ordering is enforced by the chat's session.
func (c *Command) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	text := msg.Text
	if msg.Photo != nil {
		text = msg.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	cmd := command.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	message := &domain.Message{
		ID:       msg.ID,
		ChatID:   msg.Chat.ID,
		Username: getUserNameFromMessage(msg.From),
		Text:     text,
	}

	if c.authorizer != nil && !c.authorizer.IsAuthorized(ctx, message) {
		log.Info().Int64("chatId", msg.Chat.ID).Str("command", cmd).Msg("unauthorized chat")
		return
	}

	message.ImageURL = c.getOptionalImage(ctx, msg)

	go func() {
		err := commandHandler.Respond(context.Background(), c.timeout, message)
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

func (c *Command) getOptionalImage(ctx context.Context, msg *models.Message) string {
	var photos []models.PhotoSize

	if msg.ReplyToMessage != nil && msg.ReplyToMessage.Photo != nil {
		photos = msg.ReplyToMessage.Photo
	}

	if msg.Photo != nil {
		photos = msg.Photo
	}

	if len(photos) == 0 || c.files == nil {
		return ""
	}

	f, err := c.files.GetFile(ctx, &bot.GetFileParams{FileID: findLargestImage(photos)})
	if err != nil {
		log.Error().Err(err).Msg("error getting file from telegram api")
		return ""
	}

	return c.files.FileDownloadLink(f)
}

// findLargestImage picks the full-resolution variant of a photo.
func findLargestImage(photos []models.PhotoSize) string {
	best := photos[0]
	for _, photo := range photos[1:] {
		if photo.Width*photo.Height > best.Width*best.Height {
			best = photo
		}
	}

	return best.FileID
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}

package service

import (
	"context"
	"fmt"
	"sync"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, message *domain.Message) bool
}

// ChatAuthorizer admits chats listed in telegram.allowed_chat_ids. A refused
// chat is told once how to get access; later requests are dropped quietly.
type ChatAuthorizer struct {
	allowed map[int64]struct{}
	admin   string
	sender  port.TextSender

	mu     sync.Mutex
	warned map[int64]struct{}
}

func NewAuthorizer(sender port.TextSender) (*ChatAuthorizer, error) {
	var ids []int64

	err := viper.UnmarshalKey("telegram.allowed_chat_ids", &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed chat IDs: %w", err)
	}

	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}

	log.Info().Int("chats", len(allowed)).Msg("loaded chat allowlist")

	return &ChatAuthorizer{
		allowed: allowed,
		admin:   viper.GetString("telegram.admin_username"),
		sender:  sender,
		warned:  make(map[int64]struct{}),
	}, nil
}

const forbidden = "This chat may not use the viewer. Ask @%s to allow chat ID %d."

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, message *domain.Message) bool {
	if _, ok := a.allowed[message.ChatID]; ok {
		return true
	}

	l := log.With().Int64("chatId", message.ChatID).Str("username", message.Username).Logger()

	if !a.firstRefusal(message.ChatID) {
		l.Debug().Msg("dropping request from unauthorized chat")
		return false
	}

	l.Warn().Msg("refusing unauthorized chat")

	_, err := a.sender.SendMessageReply(ctx, message, fmt.Sprintf(forbidden, a.admin, message.ChatID))
	if err != nil {
		l.Err(err).Msg("failed to send unauthorized warning")
		a.forget(message.ChatID)
	}

	return false
}

func (a *ChatAuthorizer) firstRefusal(chatID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.warned[chatID]; ok {
		return false
	}
	a.warned[chatID] = struct{}{}

	return true
}

// forget lets the next request retry a warning that could not be delivered.
func (a *ChatAuthorizer) forget(chatID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.warned, chatID)
}

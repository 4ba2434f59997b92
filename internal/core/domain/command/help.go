package command

import (
	"context"
	"slices"
	"strings"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/port"
)

type Help struct {
	registry   port.CommandRegistry
	textSender port.TextSender
	command    string
}

func NewHelp(registry port.CommandRegistry, textSender port.TextSender, command string) *Help {
	return &Help{registry: registry, textSender: textSender, command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

func (h *Help) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	l := requestLogger(h.GetCommand(), message)
	l.Info().Msg("handling request")

	commands := h.registry.ListCommands()
	slices.Sort(commands)

	_, err := h.textSender.SendMessageReply(ctx, message, "commands: "+strings.Join(commands, " "))
	return err
}

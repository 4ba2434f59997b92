package command

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"time"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/port"
	"viewbot/internal/core/service"

	"github.com/rs/zerolog/log"
)

type Debug struct {
	sessions   *service.Sessions
	textSender port.TextSender
	command    string
}

func NewDebug(sessions *service.Sessions, sender port.TextSender, command string) *Debug {
	return &Debug{sessions: sessions, textSender: sender, command: command}
}

func (d *Debug) GetCommand() string {
	return d.command
}

const kb = 1024
const debugTemplate = `allocated mem: %d KB
heap: %d KB
threads running: %d
sessions: %d
image buffer: %d KB
compiled with %s for %s-%s
`
const metricCount = 2

func (d *Debug) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	l := requestLogger(d.GetCommand(), message)
	l.Info().Msg("handling request")

	data := make([]metrics.Sample, metricCount)
	data[0] = metrics.Sample{Name: "/memory/classes/heap/objects:bytes"}
	data[1] = metrics.Sample{Name: "/memory/classes/total:bytes"}

	metrics.Read(data)

	for _, sample := range data {
		log.Debug().Str("name", sample.Name).Msgf("%d", sample.Value.Uint64())
	}

	var buffer int
	_ = d.sessions.Get(message.ChatID).Do(func(s *service.ImageSurface) error {
		if img, ok := s.Image(); ok {
			buffer = len(img.Pixels().Pix)
		}
		return nil
	})

	var goos, goarch string
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	_, err := d.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf(
			debugTemplate,
			data[1].Value.Uint64()/kb,
			data[0].Value.Uint64()/kb,
			runtime.NumGoroutine(),
			d.sessions.Len(),
			buffer/kb,
			runtime.Version(), goos, goarch,
		))
	if err != nil {
		return err
	}

	return nil
}

package main

import (
	"context"
	"image/color"
	"os"
	"os/signal"
	"strings"
	"time"
	"viewbot/internal/adapters/codec"
	"viewbot/internal/adapters/file"
	"viewbot/internal/adapters/handler"
	"viewbot/internal/adapters/sender"
	"viewbot/internal/core/domain"
	"viewbot/internal/core/domain/command"
	"viewbot/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/image/colornames"
)

func main() {
	log.Info().Msg("starting viewbot...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	setDefaults()

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token := viper.GetString("telegram.bot_token")
	opts := []bot.Option{
		bot.WithDefaultHandler(noOpHandler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b)

	maxPixels := viper.GetInt("viewer.max_pixels")

	fileCodec := codec.NewFile(viper.GetFloat64("codec.default_resolution"), viper.GetInt("codec.jpeg_quality"),
		codec.WithMaxPixels(maxPixels))

	sessionTTL, err := time.ParseDuration(viper.GetString("viewer.session_ttl"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid session ttl in config")
	}

	sessions := service.NewSessions(fileCodec, sessionTTL, service.WithMaxPixels(maxPixels))
	go sessions.RunEviction(ctx)

	authorizer, err := service.NewAuthorizer(s)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing authorizer")
	}

	saveDir := viper.GetString("storage.save_dir")
	err = os.MkdirAll(saveDir, 0o755)
	if err != nil {
		log.Panic().Err(err).Str("dir", saveDir).Msg("failed creating save directory")
	}

	viewport := domain.Viewport{
		DpiX:          viper.GetFloat64("viewer.dpi_x"),
		DpiY:          viper.GetFloat64("viewer.dpi_y"),
		VisibleWidth:  viper.GetFloat64("viewer.width"),
		VisibleHeight: viper.GetFloat64("viewer.height"),
	}
	if maxPixels > 0 && viewport.Drawable().Pixels() > int64(maxPixels) {
		log.Panic().Int("maxPixels", maxPixels).Msg("viewer size exceeds viewer.max_pixels")
	}

	viewer := command.NewViewer(sessions, fileCodec, s, s, viewport, background(viper.GetString("viewer.background")))

	commandRegistry := &command.Registry{}

	commandRegistry.Register(command.NewLoad(viewer, fileCodec, file.HTTPDownloader{}, "/load"))
	commandRegistry.Register(command.NewSize(viewer, "/size"))
	commandRegistry.Register(command.NewResize(viewer, "/resize"))
	commandRegistry.Register(command.NewFit(viewer, "/fit"))
	commandRegistry.Register(command.NewZoom(viewer, true, "/zoomin"))
	commandRegistry.Register(command.NewZoom(viewer, false, "/zoomout"))
	commandRegistry.Register(command.NewGrey(viewer, "/grey"))
	commandRegistry.Register(command.NewCenter(viewer, "/center"))
	commandRegistry.Register(command.NewShow(viewer, "/show"))
	commandRegistry.Register(command.NewSave(viewer, saveDir, "/save"))
	commandRegistry.Register(command.NewClear(viewer, "/clear"))
	commandRegistry.Register(command.NewDebug(sessions, s, "/debug"))
	commandRegistry.Register(command.NewHelp(commandRegistry, s, "/help"))

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	commandHandler := handler.NewCommand(commandRegistry, authorizer, b, handlerTimeout)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Msg("bot listening")
	b.Start(ctx)
}

func setDefaults() {
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("handler.timeout", "60s")
	viper.SetDefault("viewer.width", 800)
	viper.SetDefault("viewer.height", 600)
	viper.SetDefault("viewer.dpi_x", domain.DefaultResolution)
	viper.SetDefault("viewer.dpi_y", domain.DefaultResolution)
	viper.SetDefault("viewer.background", "white")
	viper.SetDefault("viewer.session_ttl", "24h")
	viper.SetDefault("viewer.max_pixels", domain.DefaultMaxPixels)
	viper.SetDefault("codec.default_resolution", domain.DefaultResolution)
	viper.SetDefault("codec.jpeg_quality", codec.DefaultJPEGQuality)
	viper.SetDefault("storage.save_dir", "saved")
}

// background looks up an SVG color name, falling back to white.
func background(name string) color.Color {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		log.Warn().Str("background", name).Msg("unknown background color, using white")
		return color.White
	}

	return c
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}

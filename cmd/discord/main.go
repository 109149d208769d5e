// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/keshon/ctf-scheduler/internal/command"
	"github.com/keshon/ctf-scheduler/internal/command/core"
	"github.com/keshon/ctf-scheduler/internal/command/ctf"
	"github.com/keshon/ctf-scheduler/internal/config"
	"github.com/keshon/ctf-scheduler/internal/ctftime"
	"github.com/keshon/ctf-scheduler/internal/discord"
	"github.com/keshon/ctf-scheduler/internal/logging"
	"github.com/keshon/ctf-scheduler/internal/middleware"
	v "github.com/keshon/ctf-scheduler/internal/version"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := cfg.ValidateDiscord(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	logger.Info("Starting bot", zap.String("app", v.AppName), zap.String("version", v.Version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := ctftime.NewClient(logger, ctftime.Options{
		URL:       cfg.CTFTime.URL,
		Limit:     cfg.CTFTime.Limit,
		UserAgent: cfg.CTFTime.UserAgent,
		Timeout:   cfg.CTFTime.Timeout,
	})

	registry := cmd.NewRegistry()
	mws := []cmd.Middleware{
		middleware.WithAllowedGuild(cfg.AllowedGuildID),
		middleware.WithCommandLogger(logger.Named("command")),
	}
	for _, c := range []command.DiscordCommand{
		&core.PingCommand{},
		&ctf.CreateEventCommand{Fetcher: fetcher, Region: cfg.OnsiteRegion},
	} {
		if err := command.Register(registry, c, mws...); err != nil {
			logger.Fatal("Failed to register command", zap.Error(err))
		}
	}

	bot := discord.NewBot(cfg, registry, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("Received signal, shutting down", zap.Stringer("signal", s))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.Error("Discord bot error", zap.Error(err))
		}
		cancel()
	}

	logger.Info("Discord bot exited cleanly")
}

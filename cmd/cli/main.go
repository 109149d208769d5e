package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/keshon/ctf-scheduler/internal/cli"
	"github.com/keshon/ctf-scheduler/internal/config"
	"github.com/keshon/ctf-scheduler/internal/ctftime"
	"github.com/keshon/ctf-scheduler/internal/logging"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := ctftime.NewClient(logger, ctftime.Options{
		URL:       cfg.CTFTime.URL,
		Limit:     cfg.CTFTime.Limit,
		UserAgent: cfg.CTFTime.UserAgent,
		Timeout:   cfg.CTFTime.Timeout,
	})

	registry := cmd.NewRegistry()
	if err := registry.Register(&cli.EventsCommand{Fetcher: fetcher, Region: cfg.OnsiteRegion, Out: os.Stdout}); err != nil {
		logger.Fatal("Failed to register command", zap.Error(err))
	}

	if len(os.Args) < 2 {
		usage(registry)
		os.Exit(2)
	}
	c := registry.Get(os.Args[1])
	if c == nil {
		usage(registry)
		os.Exit(2)
	}
	if err := c.Run(ctx, cmd.NewInvocation(nil, os.Args[2:]...)); err != nil {
		logger.Error("Command failed", zap.String("command", c.Name()), zap.Error(err))
		os.Exit(1)
	}
}

func usage(r *cmd.Registry) {
	fmt.Fprintf(os.Stderr, "%s %s\n\nusage: %s <command> [flags]\n\ncommands:\n", v.AppName, v.Version, os.Args[0])
	for _, c := range r.All() {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.Name(), c.Description())
	}
}

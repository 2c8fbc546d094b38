// Command diamonds-server serves the normalized diamonds dataset over HTTP
// and WebSocket. See internal/transport/http for the endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"diamondprep/internal/app"
	"diamondprep/internal/config"
	"diamondprep/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			slog.Error("Application error", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("diamonds-server", flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML config file (defaults to config.yaml or configs/config.yaml)")
	port := flags.Int("port", 0, "listen port, overrides the config")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(*configPath)
	}
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run(ctx)
}

// Command diamonds normalizes the diamonds dataset and writes one variant
// as CSV, JSON Lines or xlsx.
//
//	diamonds -mode cut_binary -source data/diamonds.csv -out data/reports/diamonds.csv
//	diamonds -mode encoding -format jsonl
//
// Without -out the records go to stdout; logs always go to stderr or the log
// file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"diamondprep/internal/app"
	"diamondprep/internal/config"
	"diamondprep/internal/infrastructure"
	"diamondprep/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			slog.Error("diamonds failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("diamonds", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "YAML config file (defaults to config.yaml or configs/config.yaml)")
	mode := flags.String("mode", "", "cut | cut_binary | encoding")
	source := flags.String("source", "", "local .csv/.xlsx file or http(s) URL of the raw dataset")
	out := flags.String("out", "", "output file; empty or - writes to stdout")
	format := flags.String("format", "", "csv | jsonl | xlsx")
	bom := flags.Bool("bom", false, "prefix CSV output with a UTF-8 byte order mark")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlags(flags, cfg, *mode, *source, *out, *format, *bom)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	loader := app.NewSourceLoader(cfg.Dataset, paths, nil, logger)
	svc := services.NewDatasetService(loader, nil, logger)

	req := services.RunRequest{
		Mode:      cfg.Dataset.Mode,
		Format:    cfg.Dataset.Format,
		Output:    cfg.Dataset.Output,
		BOMPrefix: cfg.Dataset.WithBOM,
	}
	if req.Output == "" || req.Output == "-" {
		req.Output = ""
		req.Writer = stdout
	}

	result, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	if result.Output != "" {
		fmt.Fprintf(stderr, "wrote %d %s records to %s\n", result.Rows, result.Mode, result.Output)
	}
	return nil
}

// loadConfig reads the given file, or the default locations when path is empty
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// applyFlags overrides config values with flags set on the command line
func applyFlags(flags *flag.FlagSet, cfg *config.Config, mode, source, out, format string, bom bool) {
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Dataset.Mode = mode
		case "source":
			cfg.Dataset.Source = source
		case "out":
			cfg.Dataset.Output = out
		case "format":
			cfg.Dataset.Format = format
		case "bom":
			cfg.Dataset.WithBOM = bom
		}
	})
}

// Command diamonds-explore summarizes the raw diamonds dataset before any
// normalization: describe statistics, missing cells and label counts go to
// summary.json, and histograms plus count plots are rendered as PNG files.
//
//	diamonds-explore -source data/diamonds.csv -dir data/reports
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"diamondprep/internal/app"
	"diamondprep/internal/config"
	"diamondprep/internal/infrastructure"
	"diamondprep/internal/services"
)

// SummaryFile is the report written next to the plots
const SummaryFile = "summary.json"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			slog.Error("diamonds-explore failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("diamonds-explore", flag.ContinueOnError)
	flags.SetOutput(stdout)

	configPath := flags.String("config", "", "YAML config file (defaults to config.yaml or configs/config.yaml)")
	source := flags.String("source", "", "local .csv/.xlsx file or http(s) URL of the raw dataset")
	dir := flags.String("dir", "", "output directory (defaults to the reports directory)")
	noPlots := flags.Bool("no-plots", false, "write summary.json only")
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
	if *source != "" {
		cfg.Dataset.Source = *source
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

	outDir := *dir
	if outDir == "" {
		outDir = paths.ReportsDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	svc := services.NewDatasetService(app.NewSourceLoader(cfg.Dataset, paths, nil, logger), nil, logger)

	report, err := svc.Explore(ctx)
	if err != nil {
		return err
	}

	summaryPath := filepath.Join(outDir, SummaryFile)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(stdout, "%s: %d rows, %d columns\n", summaryPath, report.Rows, len(report.Columns))

	if *noPlots {
		return nil
	}

	written, err := svc.SavePlots(ctx, outDir)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	return nil
}

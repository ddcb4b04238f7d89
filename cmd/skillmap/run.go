package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/skillmap/internal/config"
	"github.com/amishk599/skillmap/internal/filter"
	"github.com/amishk599/skillmap/internal/model"
	"github.com/amishk599/skillmap/internal/pipeline"
	"github.com/amishk599/skillmap/internal/render"
	"github.com/amishk599/skillmap/internal/source"
	"github.com/amishk599/skillmap/internal/store"
)

// runOptions are flag overrides applied on top of the config file.
type runOptions struct {
	input  string
	out    string
	top    int
	sqlite string
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyse the postings and write all outputs",
	Long:  "Loads the postings CSV, counts skills per city and per role, and writes tables, charts and recommendations to the output directory.",
	RunE:  runRun,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVarP(&runOpts.input, "input", "i", "", "postings CSV (overrides config input)")
		c.Flags().StringVarP(&runOpts.out, "out", "o", "", "output directory (overrides config output_dir)")
		c.Flags().IntVar(&runOpts.top, "top", 0, "skills kept per city (overrides config top_n)")
		c.Flags().StringVar(&runOpts.sqlite, "sqlite", "", "snapshot the run into this SQLite file")
	}
	rootCmd.AddCommand(runCmd)
}

func applyOverrides(cfg *config.Config, opts runOptions) {
	if opts.input != "" {
		cfg.Input = opts.input
	}
	if opts.out != "" {
		cfg.OutputDir = opts.out
	}
	if opts.top != 0 {
		cfg.TopN = opts.top
	}
	if opts.sqlite != "" {
		cfg.SQLite.Enabled = true
		cfg.SQLite.Path = opts.sqlite
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyOverrides(cfg, runOpts)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"input", cfg.Input,
		"output_dir", cfg.OutputDir,
		"top_n", cfg.TopN,
		"charts", cfg.Charts.Enabled,
		"sqlite", cfg.SQLite.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := analyze(ctx, cfg, logger)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	render.Summary(cmd.OutOrStdout(), render.SummaryStats{
		RunID:     res.RunID,
		Records:   res.Records,
		Exploded:  res.Exploded,
		OutputDir: cfg.OutputDir,
	}, res.TopCities, cfg.CityFocus)
	return nil
}

// analyze wires the pipeline for cfg and runs it once.
func analyze(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Result, error) {
	resultStore, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer resultStore.Close()

	p := pipeline.New(
		cfg,
		source.NewCSVSource(cfg.Input, cfg.Delimiter),
		filter.NewRoleAndCityFilter(cfg.Filters.Roles, cfg.Filters.Cities),
		resultStore,
		logger,
	)
	return p.Run(ctx)
}

func openStore(cfg *config.Config, logger *slog.Logger) (model.ResultStore, error) {
	if !cfg.SQLite.Enabled {
		return store.NewNopStore(), nil
	}
	path := cfg.SQLitePath()
	if err := render.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	logger.Info("snapshotting run", "path", path)
	return s, nil
}

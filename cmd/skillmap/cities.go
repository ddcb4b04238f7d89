package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/skillmap/internal/aggregate"
	"github.com/amishk599/skillmap/internal/filter"
	"github.com/amishk599/skillmap/internal/model"
	"github.com/amishk599/skillmap/internal/pipeline"
	"github.com/amishk599/skillmap/internal/source"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the cities found in the postings",
	Long:  "Loads and explodes the postings, then prints skill mentions and distinct skills per city. Writes nothing.",
	RunE:  runCities,
}

func init() {
	citiesCmd.Flags().StringVarP(&runOpts.input, "input", "i", "", "postings CSV (overrides config input)")
	rootCmd.AddCommand(citiesCmd)
}

func runCities(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg, runOptions{input: runOpts.input})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recs, err := source.NewCSVSource(cfg.Input, cfg.Delimiter).Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load postings: %v\n", err)
		os.Exit(1)
	}
	recs = filter.NewRoleAndCityFilter(cfg.Filters.Roles, cfg.Filters.Cities).Apply(recs)

	res := pipeline.Analyze(recs, cfg.TopN)
	printCities(cmd.OutOrStdout(), res.CityCounts, res.Records)
	return nil
}

func printCities(w io.Writer, counts []model.Count, records int) {
	fmt.Fprintf(w, "%-25s %10s %8s\n", "City", "Mentions", "Skills")
	fmt.Fprintln(w, strings.Repeat("─", 45))

	totals := aggregate.GroupTotals(counts)
	byCity := aggregate.ByGroup(counts)
	cities := aggregate.Groups(counts)
	mentions := 0
	for _, city := range cities {
		fmt.Fprintf(w, "%-25s %10d %8d\n", city, totals[city], len(byCity[city]))
		mentions += totals[city]
	}

	fmt.Fprintf(w, "\nTotal: %d cities, %d skill mentions from %d postings\n", len(cities), mentions, records)
}

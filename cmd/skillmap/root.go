package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/skillmap/internal/config"
)

const (
	configEnv     = "SKILLMAP_CONFIG"
	defaultConfig = "skillmap.yaml"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "skillmap",
	Short: "Skill demand from job postings",
	Long:  "skillmap reads a job postings CSV and reports which skills are in demand per city and per role.",
	// A bare `skillmap` behaves like `skillmap run`.
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: SKILLMAP_CONFIG env var or ./skillmap.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > SKILLMAP_CONFIG env var > "./skillmap.yaml".
// Only the fallback path may be absent, in which case defaults apply.
func loadConfig(path string) (*config.Config, error) {
	required := true
	if path == "" {
		if env := os.Getenv(configEnv); env != "" {
			path = env
		} else {
			path = defaultConfig
			required = false
		}
	}
	return config.LoadOrDefault(path, required)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

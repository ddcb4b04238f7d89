package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a skillmap run.
type Config struct {
	Input     string
	OutputDir string
	Delimiter rune
	TopN      int     // skills kept per city
	CityFocus int     // skills named per city in the recommendations
	RoleFocus int     // skills named per role in the recommendations
	LiftFloor float64 // substitute for a zero mean when computing lift
	Charts    ChartConfig
	Filters   FilterConfig
	SQLite    SQLiteConfig
}

// ChartConfig controls PNG rendering.
type ChartConfig struct {
	Enabled     bool
	BarSize     Size
	HeatmapSize Size
}

// Size is a chart canvas size.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// FilterConfig restricts which postings are analysed. Empty lists match all.
type FilterConfig struct {
	Roles  []string `yaml:"roles"`
	Cities []string `yaml:"cities"`
}

// SQLiteConfig controls the optional run snapshot.
type SQLiteConfig struct {
	Enabled bool
	Path    string        // relative paths resolve against OutputDir
	Retain  time.Duration // runs older than this are pruned; zero keeps all
}

const (
	defaultInput     = "data/sample_jobs.csv"
	defaultOutputDir = "outputs"
	defaultSQLite    = "skillmap.db"
)

// Default returns the configuration used when no config file is present.
// The values reproduce the behaviour of a bare run over data/sample_jobs.csv.
func Default() *Config {
	return &Config{
		Input:     defaultInput,
		OutputDir: defaultOutputDir,
		Delimiter: ',',
		TopN:      10,
		CityFocus: 3,
		RoleFocus: 5,
		LiftFloor: 0.1,
		Charts: ChartConfig{
			Enabled:     true,
			BarSize:     Size{Width: 10 * vg.Inch, Height: 6 * vg.Inch},
			HeatmapSize: Size{Width: 12 * vg.Inch, Height: 6 * vg.Inch},
		},
		SQLite: SQLiteConfig{Path: defaultSQLite},
	}
}

// rawConfig is used for YAML unmarshaling (snake_case fields, lengths as strings).
type rawConfig struct {
	Input     string       `yaml:"input"`
	OutputDir string       `yaml:"output_dir"`
	Delimiter string       `yaml:"delimiter"`
	TopN      *int         `yaml:"top_n"`
	CityFocus *int         `yaml:"city_focus"`
	RoleFocus *int         `yaml:"role_focus"`
	LiftFloor *float64     `yaml:"lift_floor"`
	Charts    rawCharts    `yaml:"charts"`
	Filters   FilterConfig `yaml:"filters"`
	SQLite    rawSQLite    `yaml:"sqlite"`
}

type rawSQLite struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Retain  string `yaml:"retain"`
}

type rawCharts struct {
	Enabled     *bool   `yaml:"enabled"`
	BarSize     rawSize `yaml:"bar_size"`
	HeatmapSize rawSize `yaml:"heatmap_size"`
}

type rawSize struct {
	Width  string `yaml:"width"`
	Height string `yaml:"height"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Keys absent from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if raw.Input != "" {
		cfg.Input = raw.Input
	}
	if raw.OutputDir != "" {
		cfg.OutputDir = raw.OutputDir
	}
	if raw.Delimiter != "" {
		if utf8.RuneCountInString(raw.Delimiter) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", raw.Delimiter)
		}
		cfg.Delimiter, _ = utf8.DecodeRuneInString(raw.Delimiter)
	}
	if raw.TopN != nil {
		cfg.TopN = *raw.TopN
	}
	if raw.CityFocus != nil {
		cfg.CityFocus = *raw.CityFocus
	}
	if raw.RoleFocus != nil {
		cfg.RoleFocus = *raw.RoleFocus
	}
	if raw.LiftFloor != nil {
		cfg.LiftFloor = *raw.LiftFloor
	}

	if raw.Charts.Enabled != nil {
		cfg.Charts.Enabled = *raw.Charts.Enabled
	}
	if cfg.Charts.BarSize, err = parseSize("charts.bar_size", raw.Charts.BarSize, cfg.Charts.BarSize); err != nil {
		return nil, err
	}
	if cfg.Charts.HeatmapSize, err = parseSize("charts.heatmap_size", raw.Charts.HeatmapSize, cfg.Charts.HeatmapSize); err != nil {
		return nil, err
	}

	cfg.Filters = raw.Filters
	cfg.SQLite.Enabled = raw.SQLite.Enabled
	if raw.SQLite.Path != "" {
		cfg.SQLite.Path = raw.SQLite.Path
	}
	if raw.SQLite.Retain != "" {
		cfg.SQLite.Retain, err = time.ParseDuration(raw.SQLite.Retain)
		if err != nil {
			return nil, fmt.Errorf("parse sqlite.retain %q: %w", raw.SQLite.Retain, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not
// exist and required is false.
func LoadOrDefault(path string, required bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && !required && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func parseSize(key string, raw rawSize, def Size) (Size, error) {
	out := def
	if raw.Width != "" {
		w, err := vg.ParseLength(raw.Width)
		if err != nil {
			return out, fmt.Errorf("parse %s.width %q: %w", key, raw.Width, err)
		}
		out.Width = w
	}
	if raw.Height != "" {
		h, err := vg.ParseLength(raw.Height)
		if err != nil {
			return out, fmt.Errorf("parse %s.height %q: %w", key, raw.Height, err)
		}
		out.Height = h
	}
	return out, nil
}

// Validate checks value ranges. Flag overrides are applied before calling it.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.Delimiter == '"' || c.Delimiter == '\r' || c.Delimiter == '\n' || c.Delimiter == utf8.RuneError {
		return fmt.Errorf("delimiter %q is not usable", c.Delimiter)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.CityFocus <= 0 {
		return fmt.Errorf("city_focus must be positive, got %d", c.CityFocus)
	}
	if c.RoleFocus <= 0 {
		return fmt.Errorf("role_focus must be positive, got %d", c.RoleFocus)
	}
	if c.LiftFloor <= 0 {
		return fmt.Errorf("lift_floor must be positive, got %v", c.LiftFloor)
	}
	if c.Charts.Enabled {
		for name, s := range map[string]Size{"bar_size": c.Charts.BarSize, "heatmap_size": c.Charts.HeatmapSize} {
			if s.Width <= 0 || s.Height <= 0 {
				return fmt.Errorf("charts.%s must be positive, got %vx%v", name, s.Width, s.Height)
			}
		}
	}
	if c.SQLite.Retain < 0 {
		return fmt.Errorf("sqlite.retain must not be negative, got %v", c.SQLite.Retain)
	}
	if c.SQLite.Enabled && c.SQLite.Path == "" {
		return fmt.Errorf("sqlite.path is required when sqlite.enabled is true")
	}
	return nil
}

// SQLitePath resolves the snapshot path; relative paths live in OutputDir.
func (c *Config) SQLitePath() string {
	if filepath.IsAbs(c.SQLite.Path) {
		return c.SQLite.Path
	}
	return filepath.Join(c.OutputDir, c.SQLite.Path)
}

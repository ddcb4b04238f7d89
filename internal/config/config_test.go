package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/plot/vg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skillmap.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
input: jobs.csv
output_dir: out
delimiter: ";"
top_n: 5
charts:
  bar_size:
    width: 8in
filters:
  cities:
    - Austin
sqlite:
  enabled: true
  retain: 720h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input != "jobs.csv" || cfg.OutputDir != "out" {
		t.Errorf("Input/OutputDir = %q/%q", cfg.Input, cfg.OutputDir)
	}
	if cfg.Delimiter != ';' {
		t.Errorf("Delimiter = %q, want ';'", cfg.Delimiter)
	}
	if cfg.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.TopN)
	}
	if cfg.CityFocus != 3 || cfg.RoleFocus != 5 {
		t.Errorf("focus defaults = %d/%d, want 3/5", cfg.CityFocus, cfg.RoleFocus)
	}
	if cfg.Charts.BarSize.Width != 8*vg.Inch || cfg.Charts.BarSize.Height != 6*vg.Inch {
		t.Errorf("BarSize = %+v", cfg.Charts.BarSize)
	}
	if !cfg.Charts.Enabled {
		t.Error("charts should stay enabled by default")
	}
	if len(cfg.Filters.Cities) != 1 || cfg.Filters.Cities[0] != "Austin" {
		t.Errorf("Filters.Cities = %v", cfg.Filters.Cities)
	}
	if !cfg.SQLite.Enabled || cfg.SQLite.Path != "skillmap.db" || cfg.SQLite.Retain != 720*time.Hour {
		t.Errorf("SQLite = %+v", cfg.SQLite)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SKILLMAP_TEST_INPUT", "/data/postings.csv")
	path := writeConfig(t, "input: ${SKILLMAP_TEST_INPUT}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input != "/data/postings.csv" {
		t.Errorf("Input = %q", cfg.Input)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoadOrDefault_MissingOptionalFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"), false)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Input != "data/sample_jobs.csv" || cfg.OutputDir != "outputs" || cfg.TopN != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"), true); err == nil {
		t.Fatal("LoadOrDefault: expected error for missing required file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "top_n: [broken")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero top_n", "top_n: 0\n"},
		{"negative role_focus", "role_focus: -1\n"},
		{"zero lift_floor", "lift_floor: 0\n"},
		{"multi-char delimiter", "delimiter: \"::\"\n"},
		{"quote delimiter", "delimiter: '\"'\n"},
		{"bad chart length", "charts:\n  heatmap_size:\n    width: wide\n"},
		{"bad retain", "sqlite:\n  retain: forever\n"},
		{"negative retain", "sqlite:\n  retain: -1h\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Load: expected validation error")
			}
		})
	}
}

func TestLoad_ChartsDisabledSkipsSizeCheck(t *testing.T) {
	path := writeConfig(t, `
charts:
  enabled: false
  bar_size:
    width: 0in
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Charts.Enabled {
		t.Error("charts should be disabled")
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()
	if got := cfg.SQLitePath(); got != filepath.Join("outputs", "skillmap.db") {
		t.Errorf("SQLitePath() = %q", got)
	}
	cfg.SQLite.Path = "/var/lib/skillmap.db"
	if got := cfg.SQLitePath(); got != "/var/lib/skillmap.db" {
		t.Errorf("SQLitePath() = %q", got)
	}
}
